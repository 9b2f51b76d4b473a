// Package keymap maps host keyboard keys to the 16 key hexadecimal keypad.
//
// The COSMAC VIP keypad is mapped to the left block of a QWERTY keyboard:
//
//	Keypad       Keyboard
//	|1|2|3|C|    |1|2|3|4|
//	|4|5|6|D|    |Q|W|E|R|
//	|7|8|9|E|    |A|S|D|F|
//	|A|0|B|F|    |Z|X|C|V|
package keymap

import "unicode"

var layout = map[rune]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Lookup returns the keypad index for a keyboard character.
// Letters are matched case insensitive.
func Lookup(r rune) (int, bool) {
	index, ok := layout[unicode.ToLower(r)]
	return index, ok
}

// Keyboard returns the keyboard character of a keypad index.
func Keyboard(index int) (rune, bool) {
	for r, i := range layout {
		if i == index {
			return r, true
		}
	}
	return 0, false
}
