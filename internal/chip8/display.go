package chip8

// display holds the bitplanes of a machine.
//
// Variants with a hi-res mode always store pixels in a 128x64 grid, a lo-res
// pixel covers a 2x2 block of the grid. This keeps the picture intact when
// the resolution changes without clearing the screen and lets scrolling by
// half lo-res pixels work on the same buffer.
type display struct {
	planes [][]byte
	gridW  int
	gridH  int

	hiresCapable bool
	hires        bool

	mask  byte // planes selected for drawing, clearing and scrolling
	dirty bool
}

func newDisplay(v Variant) *display {
	d := &display{
		gridW:        loresWidth,
		gridH:        loresHeight,
		hiresCapable: v.SupportsHires(),
		mask:         1,
	}
	if d.hiresCapable {
		d.gridW, d.gridH = hiresWidth, hiresHeight
	}

	d.planes = make([][]byte, v.planes())
	for i := range d.planes {
		d.planes[i] = make([]byte, d.gridW*d.gridH)
	}
	return d
}

func (d *display) reset() {
	for _, plane := range d.planes {
		clear(plane)
	}
	d.hires = false
	d.mask = 1
	d.dirty = false
}

// scale returns the size of a logical pixel in grid pixels.
func (d *display) scale() int {
	if d.hiresCapable && !d.hires {
		return 2
	}
	return 1
}

func (d *display) width() int {
	return d.gridW / d.scale()
}

func (d *display) height() int {
	return d.gridH / d.scale()
}

func (d *display) allPlanes() byte {
	return byte(1<<len(d.planes)) - 1
}

// clear zeroes all planes selected by mask.
func (d *display) clear(mask byte) {
	for i, plane := range d.planes {
		if mask&(1<<i) != 0 {
			clear(plane)
		}
	}
	d.dirty = true
}

func (d *display) setHires(hires, clearPlanes bool) {
	d.hires = hires
	if clearPlanes {
		d.clear(d.allPlanes())
	}
	d.dirty = true
}

// flip XORs the logical pixel at x, y of a plane and returns whether a lit
// pixel was turned off.
func (d *display) flip(plane, x, y int) bool {
	s := d.scale()
	buf := d.planes[plane]
	collision := false
	for dy := range s {
		row := (y*s + dy) * d.gridW
		for dx := range s {
			i := row + x*s + dx
			if buf[i] != 0 {
				collision = true
			}
			buf[i] ^= 1
		}
	}
	return collision
}

// drawSprite XORs a sprite of rows x cols pixels onto a plane. cols is 8 or 16,
// data holds cols/8 bytes per row. The origin always wraps, pixels beyond the
// edges are clipped or wrapped depending on clip.
// It returns the number of rows that collided or were clipped at the bottom
// edge and whether any pixel collided.
func (d *display) drawSprite(plane int, data []byte, x, y byte, rows, cols int, clip bool) (int, bool) {
	w, h := d.width(), d.height()
	ox, oy := int(x)%w, int(y)%h
	bytesPerRow := cols / 8

	hitRows := 0
	collision := false
	for r := range rows {
		py := oy + r
		if py >= h {
			if clip {
				hitRows++
				continue
			}
			py %= h
		}

		bits := uint16(data[r*bytesPerRow]) << 8
		if bytesPerRow == 2 {
			bits |= uint16(data[r*bytesPerRow+1])
		}

		rowHit := false
		for c := range cols {
			if bits&(0x8000>>c) == 0 {
				continue
			}
			px := ox + c
			if px >= w {
				if clip {
					continue
				}
				px %= w
			}
			if d.flip(plane, px, py) {
				rowHit = true
			}
		}
		if rowHit {
			hitRows++
			collision = true
		}
	}

	d.dirty = true
	return hitRows, collision
}

func (d *display) scrollDown(n int) {
	d.scroll(func(plane []byte) {
		for y := d.gridH - 1; y >= 0; y-- {
			d.copyRow(plane, y, y-n)
		}
	})
}

func (d *display) scrollUp(n int) {
	d.scroll(func(plane []byte) {
		for y := range d.gridH {
			d.copyRow(plane, y, y+n)
		}
	})
}

func (d *display) scrollRight(n int) {
	d.scroll(func(plane []byte) {
		for y := range d.gridH {
			row := plane[y*d.gridW : (y+1)*d.gridW]
			for x := d.gridW - 1; x >= 0; x-- {
				if x-n >= 0 {
					row[x] = row[x-n]
				} else {
					row[x] = 0
				}
			}
		}
	})
}

func (d *display) scrollLeft(n int) {
	d.scroll(func(plane []byte) {
		for y := range d.gridH {
			row := plane[y*d.gridW : (y+1)*d.gridW]
			for x := range d.gridW {
				if x+n < d.gridW {
					row[x] = row[x+n]
				} else {
					row[x] = 0
				}
			}
		}
	})
}

// scroll applies fn to every selected plane.
func (d *display) scroll(fn func(plane []byte)) {
	for i, plane := range d.planes {
		if d.mask&(1<<i) != 0 {
			fn(plane)
		}
	}
	d.dirty = true
}

// copyRow copies grid row src into row dst, rows outside the grid are blank.
func (d *display) copyRow(plane []byte, dst, src int) {
	row := plane[dst*d.gridW : (dst+1)*d.gridW]
	if src < 0 || src >= d.gridH {
		clear(row)
		return
	}
	copy(row, plane[src*d.gridW:(src+1)*d.gridW])
}

// pixels returns the combined planes in the current resolution, one byte per
// pixel in row-major order. Bit n of a pixel is set if plane n is lit.
func (d *display) pixels() []byte {
	w, h, s := d.width(), d.height(), d.scale()
	out := make([]byte, w*h)
	for p, plane := range d.planes {
		bit := byte(1 << p)
		for y := range h {
			row := y * s * d.gridW
			for x := range w {
				if plane[row+x*s] != 0 {
					out[y*w+x] |= bit
				}
			}
		}
	}
	return out
}
