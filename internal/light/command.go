package light

// MaxBrightness is the brightness sent with every state command.
const MaxBrightness = 255

// StateCommand is the body POSTed to the device state endpoint.
type StateCommand struct {
	On         bool    `json:"on"`
	Brightness int     `json:"bri"`
	Segment    Segment `json:"seg"`
}

// Segment sets the colors of the device's active segment.
type Segment struct {
	Colors [][3]int `json:"col"`
}

// NewStateCommand builds a command that powers the light on at full
// brightness and applies the color to the active segment.
func NewStateCommand(c Color) StateCommand {
	return StateCommand{
		On:         true,
		Brightness: MaxBrightness,
		Segment: Segment{
			Colors: [][3]int{c.RGB()},
		},
	}
}

// DeviceReply is the part of the device's state reply that gets checked.
// Both fields are pointers so a reply missing either one can be rejected.
type DeviceReply struct {
	State *DeviceState `json:"state"`
}

// DeviceState holds the reported power flag.
type DeviceState struct {
	On *bool `json:"on"`
}
