package light

// Build status labels that map to a color.
const (
	StatusSuccess = "Success"
	StatusFailure = "Failure"
)

// Color is a named light color.
type Color int

const (
	Red Color = iota
	Green
	Blue
)

// ColorForStatus returns the color for a build status. The match is exact and
// case-sensitive; any other status reports false and must not reach the device.
func ColorForStatus(status string) (Color, bool) {
	switch status {
	case StatusSuccess:
		return Green, true
	case StatusFailure:
		return Red, true
	default:
		return 0, false
	}
}

// RGB returns the channel values for the color. Anything that is not red or
// green is rendered blue.
func (c Color) RGB() [3]int {
	switch c {
	case Red:
		return [3]int{255, 0, 0}
	case Green:
		return [3]int{0, 255, 0}
	default:
		return [3]int{0, 0, 255}
	}
}

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	default:
		return "blue"
	}
}
