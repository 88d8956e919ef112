package device

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestBulb_BrightnessClamping(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{name: "in range", input: 50, expected: 50},
		{name: "lower bound", input: 0, expected: 0},
		{name: "upper bound", input: 100, expected: 100},
		{name: "below range", input: -20, expected: 0},
		{name: "above range", input: 250, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBulb("bulb-01", "Light", "Living Room", 80)
			b.SetBrightness(tt.input)

			if got := b.Brightness(); got != tt.expected {
				t.Errorf("Brightness() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestBulb_ConstructorClampsBrightness(t *testing.T) {
	b := NewBulb("bulb-01", "Light", "Living Room", 300)
	if got := b.Brightness(); got != 100 {
		t.Errorf("Brightness() = %d, expected 100", got)
	}
}

func TestBulb_Toggle(t *testing.T) {
	b := NewBulb("bulb-01", "Light", "Living Room", 80)

	if b.IsOn() {
		t.Fatal("expected bulb to start off")
	}

	b.ExecuteCommand(CommandToggle)
	if !b.IsOn() {
		t.Error("expected bulb on after first toggle")
	}

	b.ExecuteCommand(CommandToggle)
	if b.IsOn() {
		t.Error("expected bulb off after second toggle")
	}
}

func TestBulb_IgnoresForeignCommands(t *testing.T) {
	b := NewBulb("bulb-01", "Light", "Living Room", 80)

	b.ExecuteCommand(CommandTriggerCooling)
	b.ExecuteCommand(CommandTakeSnapshot)
	b.ExecuteCommand(Command("REBOOT"))

	if b.IsOn() {
		t.Error("expected foreign commands to leave bulb state untouched")
	}
	if got := b.Brightness(); got != 80 {
		t.Errorf("Brightness() = %d, expected 80", got)
	}
}

func TestThermostat_TargetTempRejection(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{name: "in range", input: 25, expected: 25},
		{name: "lower bound", input: 15, expected: 15},
		{name: "upper bound", input: 30, expected: 30},
		{name: "below range rejected", input: 10, expected: 22},
		{name: "above range rejected", input: 35, expected: 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := NewThermostat("therm-01", "Thermostat", "Bedroom", 20, 22, 40)
			th.SetTargetTemp(tt.input)

			if got := th.TargetTemp(); got != tt.expected {
				t.Errorf("TargetTemp() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestThermostat_CurrentTempUnbounded(t *testing.T) {
	th := NewThermostat("therm-01", "Thermostat", "Bedroom", 20, 22, 40)

	th.SetCurrentTemp(-40)
	if got := th.CurrentTemp(); got != -40 {
		t.Errorf("CurrentTemp() = %v, expected -40", got)
	}

	// Drift accumulates without any clamp.
	th.SetCurrentTemp(29)
	th.Drift(5)
	if got := th.CurrentTemp(); got != 34 {
		t.Errorf("CurrentTemp() after drift = %v, expected 34", got)
	}
}

func TestThermostat_Commands(t *testing.T) {
	th := NewThermostat("therm-01", "Thermostat", "Bedroom", 20, 22, 40)

	th.ExecuteCommand(CommandTriggerHeating)
	if got := th.CurrentTemp(); got != 21 {
		t.Errorf("CurrentTemp() after heating = %v, expected 21", got)
	}

	th.ExecuteCommand(CommandTriggerCooling)
	th.ExecuteCommand(CommandTriggerCooling)
	if got := th.CurrentTemp(); got != 19 {
		t.Errorf("CurrentTemp() after cooling = %v, expected 19", got)
	}

	// Foreign and unknown commands are no-ops.
	th.ExecuteCommand(CommandToggle)
	th.ExecuteCommand(Command("DEFROST"))
	if got := th.CurrentTemp(); got != 19 {
		t.Errorf("CurrentTemp() after no-op commands = %v, expected 19", got)
	}
}

func TestCamera_BatteryClamping(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{name: "in range", input: 55, expected: 55},
		{name: "below range", input: -5, expected: 0},
		{name: "above range", input: 150, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera("cam-01", "Camera", "Front Door", 90)
			c.SetBatteryLevel(tt.input)

			if got := c.BatteryLevel(); got != tt.expected {
				t.Errorf("BatteryLevel() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestCamera_ObserveMotion(t *testing.T) {
	c := NewCamera("cam-01", "Camera", "Front Door", 10)

	level := c.ObserveMotion(true, 3)
	if level != 7 {
		t.Errorf("ObserveMotion returned %d, expected 7", level)
	}
	if !c.MotionDetected() {
		t.Error("expected motion flag set")
	}

	// Drain floors at zero.
	level = c.ObserveMotion(false, 50)
	if level != 0 {
		t.Errorf("ObserveMotion returned %d, expected 0", level)
	}
	if c.MotionDetected() {
		t.Error("expected motion flag cleared")
	}
}

func TestCamera_Commands(t *testing.T) {
	c := NewCamera("cam-01", "Camera", "Front Door", 5)

	before := c.LastSnapshot()
	time.Sleep(time.Millisecond)
	c.ExecuteCommand(CommandTakeSnapshot)
	if c.LastSnapshot() <= before {
		t.Error("expected TAKE_SNAPSHOT to advance last snapshot time")
	}

	c.ExecuteCommand(CommandLowBatteryWarning)
	if got := c.BatteryLevel(); got != 100 {
		t.Errorf("BatteryLevel() after recharge = %d, expected 100", got)
	}

	// Foreign commands are no-ops.
	c.ExecuteCommand(CommandToggle)
	if got := c.BatteryLevel(); got != 100 {
		t.Errorf("BatteryLevel() after no-op = %d, expected 100", got)
	}
}

// TestAllCommands_PreserveInvariants throws every known command at every
// variant and checks the bounded fields stay in range.
func TestAllCommands_PreserveInvariants(t *testing.T) {
	bulb := NewBulb("bulb-01", "Light", "Living Room", 80)
	therm := NewThermostat("therm-01", "Thermostat", "Bedroom", 20, 22, 40)
	cam := NewCamera("cam-01", "Camera", "Front Door", 3)

	for _, cmd := range AllCommands() {
		bulb.ExecuteCommand(cmd)
		therm.ExecuteCommand(cmd)
		cam.ExecuteCommand(cmd)
	}

	if b := bulb.Brightness(); b < 0 || b > 100 {
		t.Errorf("brightness out of range: %d", b)
	}
	if tt := therm.TargetTemp(); tt < 15 || tt > 30 {
		t.Errorf("target temp out of range: %v", tt)
	}
	if lvl := cam.BatteryLevel(); lvl < 0 || lvl > 100 {
		t.Errorf("battery level out of range: %d", lvl)
	}
}

func TestConnectDisconnect(t *testing.T) {
	devices := []Device{
		NewBulb("bulb-01", "Light", "Living Room", 80),
		NewThermostat("therm-01", "Thermostat", "Bedroom", 20, 22, 40),
		NewCamera("cam-01", "Camera", "Front Door", 90),
	}

	for _, d := range devices {
		if d.IsConnected() {
			t.Errorf("%s: expected device to start disconnected", d.ID())
		}
		d.Connect()
		if !d.IsConnected() {
			t.Errorf("%s: expected device connected", d.ID())
		}
		d.Disconnect()
		if d.IsConnected() {
			t.Errorf("%s: expected device disconnected", d.ID())
		}
	}
}

func TestSnapshot_Payloads(t *testing.T) {
	bulb := NewBulb("bulb-01", "Light", "Living Room", 80)
	snap := bulb.Snapshot()

	if snap.DeviceID != "bulb-01" || snap.Type != TypeBulb {
		t.Errorf("unexpected snapshot identity: %s %s", snap.DeviceID, snap.Type)
	}
	if snap.Timestamp <= 0 {
		t.Error("expected positive timestamp")
	}
	if got := snap.Payload["brightness"]; got != 80 {
		t.Errorf("payload brightness = %v, expected 80", got)
	}
	if got := snap.Payload["is_on"]; got != false {
		t.Errorf("payload is_on = %v, expected false", got)
	}

	th := NewThermostat("therm-01", "Thermostat", "Bedroom", 20.5, 22, 40)
	tsnap := th.Snapshot()
	if got := tsnap.Payload["current_temp"]; got != 20.5 {
		t.Errorf("payload current_temp = %v, expected 20.5", got)
	}
	if got := tsnap.Payload["target_temp"]; got != 22.0 {
		t.Errorf("payload target_temp = %v, expected 22", got)
	}

	cam := NewCamera("cam-01", "Camera", "Front Door", 90)
	csnap := cam.Snapshot()
	if got := csnap.Payload["battery_level"]; got != 90 {
		t.Errorf("payload battery_level = %v, expected 90", got)
	}
	if got := csnap.Payload["motion_detected"]; got != false {
		t.Errorf("payload motion_detected = %v, expected false", got)
	}
	if csnap.Payload["last_snapshot"].(float64) <= 0 {
		t.Error("expected last_snapshot to default to creation time")
	}
}

// TestSnapshot_Isolation verifies a snapshot is not affected by later
// device mutation.
func TestSnapshot_Isolation(t *testing.T) {
	bulb := NewBulb("bulb-01", "Light", "Living Room", 80)
	snap := bulb.Snapshot()

	bulb.SetBrightness(10)
	bulb.ExecuteCommand(CommandToggle)

	if got := snap.Payload["brightness"]; got != 80 {
		t.Errorf("snapshot brightness mutated: %v", got)
	}
	if got := snap.Payload["is_on"]; got != false {
		t.Errorf("snapshot is_on mutated: %v", got)
	}
}

// TestConcurrentWriters exercises a device under its two real writers: a
// simulation-style mutator and an analytics-style command applier.
// Invariants must hold at every observation point.
func TestConcurrentWriters(t *testing.T) {
	cam := NewCamera("cam-01", "Camera", "Front Door", 100)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			cam.ObserveMotion(i%2 == 0, 1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			cam.ExecuteCommand(CommandLowBatteryWarning)
			if level := cam.Snapshot().Payload["battery_level"].(int); level < 0 || level > 100 {
				t.Errorf("battery level out of range: %d", level)
				return
			}
		}
	}()

	wg.Wait()

	if level := cam.BatteryLevel(); level < 0 || level > 100 {
		t.Errorf("final battery level out of range: %d", level)
	}
}

func TestRoster(t *testing.T) {
	bulb := NewBulb("bulb-01", "Light", "Living Room", 80)
	therm := NewThermostat("therm-01", "Thermostat", "Bedroom", 20, 22, 40)
	cam := NewCamera("cam-01", "Camera", "Front Door", 90)

	roster, err := NewRoster(bulb, therm, cam)
	if err != nil {
		t.Fatalf("NewRoster() error = %v", err)
	}

	if got := roster.Count(); got != 3 {
		t.Errorf("Count() = %d, expected 3", got)
	}

	d, err := roster.Get("therm-01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if d.Type() != TypeThermostat {
		t.Errorf("Get() type = %s, expected THERMOSTAT", d.Type())
	}

	if _, err := roster.Get("missing"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Get(missing) error = %v, expected ErrDeviceNotFound", err)
	}

	// List preserves registration order.
	list := roster.List()
	if len(list) != 3 || list[0].ID() != "bulb-01" || list[2].ID() != "cam-01" {
		t.Errorf("List() order unexpected: %v", ids(list))
	}

	cams := roster.ListByType(TypeCamera)
	if len(cams) != 1 || cams[0].ID() != "cam-01" {
		t.Errorf("ListByType(CAMERA) unexpected: %v", ids(cams))
	}

	bulb.Connect()
	stats := roster.GetStats()
	if stats.TotalDevices != 3 || stats.Connected != 1 || stats.ByType[TypeBulb] != 1 {
		t.Errorf("GetStats() unexpected: %+v", stats)
	}
}

func TestRoster_DuplicateID(t *testing.T) {
	a := NewBulb("dup", "A", "Room", 10)
	b := NewCamera("dup", "B", "Room", 50)

	if _, err := NewRoster(a, b); !errors.Is(err, ErrDuplicateDevice) {
		t.Errorf("NewRoster error = %v, expected ErrDuplicateDevice", err)
	}
}

func ids(devices []Device) []string {
	out := make([]string, len(devices))
	for i, d := range devices {
		out[i] = d.ID()
	}
	return out
}
