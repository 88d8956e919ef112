package device

// Command is an instruction applied to a device via ExecuteCommand.
//
// Each command is interpreted only by the variant it targets; on any other
// variant, and for unrecognised values, it is a silent no-op.
type Command string

// Commands understood by the device variants.
const (
	// CommandToggle flips a bulb's on/off state.
	CommandToggle Command = "TOGGLE"

	// CommandTriggerCooling lowers a thermostat's current temperature by 1.0.
	CommandTriggerCooling Command = "TRIGGER_COOLING"

	// CommandTriggerHeating raises a thermostat's current temperature by 1.0.
	CommandTriggerHeating Command = "TRIGGER_HEATING"

	// CommandTakeSnapshot updates a camera's last snapshot timestamp.
	CommandTakeSnapshot Command = "TAKE_SNAPSHOT"

	// CommandLowBatteryWarning recharges a camera's battery to 100
	// (the simulated response to a low battery alert).
	CommandLowBatteryWarning Command = "LOW_BATTERY_WARNING"
)

// AllCommands returns all valid command values.
func AllCommands() []Command {
	return []Command{
		CommandToggle,
		CommandTriggerCooling,
		CommandTriggerHeating,
		CommandTakeSnapshot,
		CommandLowBatteryWarning,
	}
}
