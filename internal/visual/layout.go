package visual

// Channel locates one colour component inside a pixel word.
type Channel struct {
	Shift uint // number of zero bits below the component
	Width uint // number of contiguous one bits
}

// Mask rebuilds the bit mask the channel was decomposed from.
func (c Channel) Mask() uint32 {
	if c.Width == 0 {
		return 0
	}
	return uint32((uint64(1)<<c.Width)-1) << c.Shift
}

// Decompose scans mask from the low bit: zero bits give the shift, the
// following run of one bits gives the width. A zero mask decomposes to
// the zero Channel.
func Decompose(mask uint32) Channel {
	var c Channel
	if mask == 0 {
		return c
	}
	for mask&1 == 0 {
		mask >>= 1
		c.Shift++
	}
	for mask&1 == 1 {
		mask >>= 1
		c.Width++
	}
	return c
}

// Layout is the red/green/blue packing table of a visual.
type Layout struct {
	Red, Green, Blue Channel
}

// NewLayout decomposes the three channel masks of v.
func NewLayout(v Visual) Layout {
	return Layout{
		Red:   Decompose(v.RedMask),
		Green: Decompose(v.GreenMask),
		Blue:  Decompose(v.BlueMask),
	}
}

// Pack converts 8-bit components into a native pixel word.
func (l Layout) Pack(r, g, b uint8) uint32 {
	return put(l.Red, r) | put(l.Green, g) | put(l.Blue, b)
}

// Unpack is the inverse of Pack, widening each component back to 8 bits.
func (l Layout) Unpack(px uint32) (r, g, b uint8) {
	return get(l.Red, px), get(l.Green, px), get(l.Blue, px)
}

func put(c Channel, v uint8) uint32 {
	if c.Width == 0 {
		return 0
	}
	x := uint32(v)
	if c.Width < 8 {
		x >>= 8 - c.Width
	} else {
		x <<= c.Width - 8
	}
	return (x << c.Shift) & c.Mask()
}

func get(c Channel, px uint32) uint8 {
	if c.Width == 0 {
		return 0
	}
	x := (px & c.Mask()) >> c.Shift
	if c.Width < 8 {
		// replicate the high bits so full intensity maps back to 0xff
		x <<= 8 - c.Width
		x |= x >> c.Width
		return uint8(x)
	}
	return uint8(x >> (c.Width - 8))
}
