package hotkey

// Windows virtual-key rawcodes per key name. Modifiers list both their
// left and right variants.
var specialRawcodes = map[string][]uint16{
	"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
	"alt":   {164, 165}, // VK_LMENU, VK_RMENU
	"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
	"cmd":   {91, 92},   // VK_LWIN, VK_RWIN

	"space":     {32},
	"enter":     {13},
	"return":    {13},
	"esc":       {27},
	"escape":    {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"del":       {46},
	"insert":    {45},
	"ins":       {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pgup":      {33},
	"pagedown":  {34},
	"pgdn":      {34},

	"left":  {37},
	"up":    {38},
	"right": {39},
	"down":  {40},
}

// rawcodesFor maps a normalized key name to its rawcodes. Letters map to
// VK_A..VK_Z, digits to VK_0..VK_9 and fN to VK_F1..VK_F24; everything
// else comes from the special table. Unknown names return nil.
func rawcodesFor(name string) []uint16 {
	if rc, ok := specialRawcodes[name]; ok {
		return rc
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c - 'a' + 0x41)}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c - '0' + 0x30)}
		}
	}
	if len(name) >= 2 && name[0] == 'f' {
		n := 0
		for _, d := range name[1:] {
			if d < '0' || d > '9' {
				return nil
			}
			n = n*10 + int(d-'0')
		}
		if n >= 1 && n <= 24 {
			return []uint16{uint16(111 + n)} // VK_F1 = 112
		}
	}
	return nil
}
