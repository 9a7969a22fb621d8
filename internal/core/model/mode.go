package model

// Mode identifies which kind of interval is configured to run.
type Mode string

const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
)

// Next returns the mode that follows in the manual cycle order.
func (mode Mode) Next() Mode {
	switch mode {
	case ModeWork:
		return ModeShortBreak
	case ModeShortBreak:
		return ModeLongBreak
	default:
		return ModeWork
	}
}

// IsBreak reports whether the mode is a short or long break.
func (mode Mode) IsBreak() bool {
	return mode == ModeShortBreak || mode == ModeLongBreak
}

// Label returns a human readable name for menus and notifications.
func (mode Mode) Label() string {
	switch mode {
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Work"
	}
}
