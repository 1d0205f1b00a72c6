package command

// Key is a keyboard key the player reacts to. Window backends map their
// own key codes onto these.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyJ
	KeyK
	KeyL
	KeySpace
	KeyGrave
)

// Action is the phase of a key event.
type Action int

const (
	Press Action = iota
	Release
	Repeat
)

var keyTable = map[Key]Command{
	KeyEscape: Quit,
	KeyJ:      PlayReverse,
	KeyK:      Pause,
	KeyL:      PlayForward,
	KeySpace:  Play,
	KeyGrave:  DebugDraw,
}

// Translate maps a key event to a command. Only releases of mapped keys
// produce one.
func Translate(key Key, action Action) (Command, bool) {
	if action != Release {
		return 0, false
	}
	c, ok := keyTable[key]
	return c, ok
}
