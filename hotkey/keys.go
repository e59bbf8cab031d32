package hotkey

import "runtime"

// Raw keycodes gohook reports per platform: X11 keysyms on Linux, virtual-key
// codes on Windows (left-hand plus the generic code), Carbon virtual keycodes
// on macOS.
var rawcodeTable = map[string]map[string][]uint16{
	"linux": {
		"left_ctrl":  {65507},
		"left_alt":   {65513},
		"left_shift": {65505},
	},
	"windows": {
		"left_ctrl":  {162, 17},
		"left_alt":   {164, 18},
		"left_shift": {160, 16},
	},
	"darwin": {
		"left_ctrl":  {59},
		"left_alt":   {58},
		"left_shift": {56},
	},
}

func modifierByName(name string) (Modifier, bool) {
	table, ok := rawcodeTable[runtime.GOOS]
	if !ok {
		table = rawcodeTable["linux"]
	}
	codes, ok := table[name]
	if !ok {
		return Modifier{}, false
	}
	return Modifier{Name: name, Rawcodes: codes}, true
}

// DefaultChord is the original Left Ctrl + Left Alt push-to-talk chord.
func DefaultChord() []Modifier {
	chord, _ := ParseChord([]string{"left_ctrl", "left_alt"})
	return chord
}
