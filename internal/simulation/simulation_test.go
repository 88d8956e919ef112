package simulation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ecohub-labs/ecohub-core/internal/device"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/config"
	"github.com/ecohub-labs/ecohub-core/internal/telemetry"
)

// testConfig returns a config with millisecond-scale timings so tests
// complete quickly.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Simulation.ConnectLatencyMinMS = 0
	cfg.Simulation.ConnectLatencyMaxMS = 1
	cfg.Simulation.TickMinMS = 1
	cfg.Simulation.TickMaxMS = 2
	cfg.Simulation.Camera.LowBatteryPauseMS = 1
	cfg.Simulation.RestartOnFailure = true
	cfg.Simulation.RestartDelayMS = 1
	cfg.Simulation.MaxRestartAttempts = 2
	return cfg
}

// recordingPusher collects pushed snapshots.
type recordingPusher struct {
	mu    sync.Mutex
	snaps []device.Snapshot
}

func (p *recordingPusher) Push(snap device.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snaps = append(p.snaps, snap)
	return nil
}

func (p *recordingPusher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snaps)
}

// panicPusher panics on every push, standing in for a corrupted task loop.
type panicPusher struct{}

func (panicPusher) Push(device.Snapshot) error { panic("pusher exploded") }

func TestTask_Lifecycle(t *testing.T) {
	bulb := device.NewBulb("bulb-01", "Light", "Living Room", 80)
	pusher := &recordingPusher{}
	task := NewTask(bulb, pusher, testConfig(), 1)

	if task.Status() != StatusPending {
		t.Errorf("Status() = %s, expected pending", task.Status())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := task.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if task.Status() != StatusStopped {
		t.Errorf("Status() = %s, expected stopped", task.Status())
	}
	if bulb.IsConnected() {
		t.Error("expected device disconnected after Run")
	}
	if task.Ticks() == 0 {
		t.Error("expected at least one tick")
	}
	if pusher.count() == 0 {
		t.Error("expected at least one snapshot pushed")
	}
}

func TestTask_StopsWhenQueueCloses(t *testing.T) {
	q := telemetry.NewQueue()
	q.Close()

	bulb := device.NewBulb("bulb-01", "Light", "Living Room", 80)
	task := NewTask(bulb, q, testConfig(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- task.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Run() did not stop after queue close")
	}
}

func TestTask_CameraTickDrainsBattery(t *testing.T) {
	cam := device.NewCamera("cam-01", "Camera", "Front Door", 100)
	pusher := &recordingPusher{}
	task := NewTask(cam, pusher, testConfig(), 42)

	ctx := context.Background()
	for i := 0; i < 50; i++ {
		if ok := task.tick(ctx); !ok {
			t.Fatalf("tick %d reported shutdown", i)
		}
	}

	level := cam.BatteryLevel()
	if level >= 100 {
		t.Errorf("battery level = %d, expected drain over 50 ticks", level)
	}
	if level < 0 {
		t.Errorf("battery level = %d, below floor", level)
	}
	if pusher.count() != 50 {
		t.Errorf("pushed %d snapshots, expected 50", pusher.count())
	}
}

func TestTask_ThermostatTickDrifts(t *testing.T) {
	th := device.NewThermostat("therm-01", "Thermostat", "Bedroom", 20, 22, 40)
	pusher := &recordingPusher{}
	task := NewTask(th, pusher, testConfig(), 42)

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		task.tick(ctx)
	}

	if th.CurrentTemp() == 20 {
		t.Error("expected temperature to drift over 20 ticks")
	}
	if th.TargetTemp() != 22 {
		t.Errorf("TargetTemp() = %v, expected drift to leave target untouched", th.TargetTemp())
	}
}

func TestManager_CleanShutdown(t *testing.T) {
	roster, err := device.NewRoster(
		device.NewBulb("bulb-01", "Light", "Living Room", 80),
		device.NewThermostat("therm-01", "Thermostat", "Bedroom", 20, 22, 40),
		device.NewCamera("cam-01", "Camera", "Front Door", 90),
	)
	if err != nil {
		t.Fatalf("NewRoster() error = %v", err)
	}

	q := telemetry.NewQueue()
	m := NewManager(roster, q, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, task := range m.Tasks() {
		if task.Status() != StatusStopped {
			t.Errorf("%s: status = %s, expected stopped", task.DeviceID(), task.Status())
		}
	}
	if q.Len() == 0 {
		t.Error("expected snapshots buffered in queue")
	}
}

func TestManager_RestartBudget(t *testing.T) {
	roster, err := device.NewRoster(device.NewBulb("bulb-01", "Light", "Living Room", 80))
	if err != nil {
		t.Fatalf("NewRoster() error = %v", err)
	}

	cfg := testConfig()
	m := NewManager(roster, panicPusher{}, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Every tick panics, so the task fails, restarts twice and gives up.
	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := m.Restarts(); got != cfg.Simulation.MaxRestartAttempts {
		t.Errorf("Restarts() = %d, expected %d", got, cfg.Simulation.MaxRestartAttempts)
	}
	if got := m.Tasks()[0].Status(); got != StatusFailed {
		t.Errorf("task status = %s, expected failed", got)
	}
}

func TestManager_NoRestartWhenDisabled(t *testing.T) {
	roster, err := device.NewRoster(device.NewBulb("bulb-01", "Light", "Living Room", 80))
	if err != nil {
		t.Fatalf("NewRoster() error = %v", err)
	}

	cfg := testConfig()
	cfg.Simulation.RestartOnFailure = false
	m := NewManager(roster, panicPusher{}, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := m.Restarts(); got != 0 {
		t.Errorf("Restarts() = %d, expected 0", got)
	}
}
