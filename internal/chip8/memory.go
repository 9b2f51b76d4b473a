package chip8

// memory is the flat addressable byte store of a machine.
type memory struct {
	data []byte
}

func newMemory(size int) *memory {
	return &memory{
		data: make([]byte, size),
	}
}

func (m *memory) size() int {
	return len(m.data)
}

func (m *memory) reset() {
	clear(m.data)
}

func (m *memory) read(addr int) (byte, error) {
	if addr < 0 || addr >= len(m.data) {
		return 0, addressError(addr)
	}
	return m.data[addr], nil
}

func (m *memory) write(addr int, value byte) error {
	if addr < 0 || addr >= len(m.data) {
		return addressError(addr)
	}
	m.data[addr] = value
	return nil
}

// span returns the memory range [addr, addr+n) as a slice that aliases the
// memory. The whole range is validated before anything is returned so that
// callers can check once and then read or write without partial failures.
func (m *memory) span(addr, n int) ([]byte, error) {
	if addr < 0 || n < 0 || addr+n > len(m.data) {
		end := addr + n - 1
		if addr >= 0 && addr < len(m.data) {
			return nil, addressError(end)
		}
		return nil, addressError(addr)
	}
	return m.data[addr : addr+n], nil
}
