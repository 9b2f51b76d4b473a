package chip8

// KeyCount is the number of keys on the hexadecimal keypad.
const KeyCount = 16

const noKey = -1

// keypad holds the 16 key states and the key latched while waiting for FX0A.
type keypad struct {
	keys    [KeyCount]bool
	latched int
}

func newKeypad() *keypad {
	return &keypad{latched: noKey}
}

func (k *keypad) reset() {
	k.keys = [KeyCount]bool{}
	k.latched = noKey
}

// set updates a key and reports whether the key went from released to pressed.
func (k *keypad) set(index int, pressed bool) (bool, error) {
	if index < 0 || index >= KeyCount {
		return false, addressError(index)
	}
	edge := pressed && !k.keys[index]
	k.keys[index] = pressed
	return edge, nil
}

func (k *keypad) pressed(index byte) bool {
	return k.keys[index&0xF]
}

// latch records the first key press edge seen while the machine waits.
func (k *keypad) latch(index int) {
	if k.latched == noKey {
		k.latched = index
	}
}

// take returns and clears the latched key.
func (k *keypad) take() (byte, bool) {
	if k.latched == noKey {
		return 0, false
	}
	key := byte(k.latched)
	k.latched = noKey
	return key, true
}
