// Package visual describes X visuals and the channel layout used to pack
// colours into native pixel words.
package visual

import "fmt"

// Class is the X visual class.
type Class uint8

const (
	StaticGray Class = iota
	GrayScale
	StaticColor
	PseudoColor
	TrueColor
	DirectColor
)

func (c Class) String() string {
	switch c {
	case StaticGray:
		return "StaticGray"
	case GrayScale:
		return "GrayScale"
	case StaticColor:
		return "StaticColor"
	case PseudoColor:
		return "PseudoColor"
	case TrueColor:
		return "TrueColor"
	case DirectColor:
		return "DirectColor"
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// Visual is the server's description of how pixel values map to colour.
type Visual struct {
	ID        uint32
	Class     Class
	Depth     uint8
	RedMask   uint32
	GreenMask uint32
	BlueMask  uint32
}

// Selection is the outcome of visual negotiation.
type Selection struct {
	Visual Visual
	// PrivateColormap is set when Visual is not the screen default and a
	// colormap has to be allocated (and later freed) by this process.
	PrivateColormap bool
}

// Select keeps the default visual when it is TrueColor. Otherwise it
// picks the first TrueColor visual of the given depth among available.
// ok is false when there is none, in which case no window can be created.
func Select(def Visual, available []Visual, depth uint8) (sel Selection, ok bool) {
	if def.Class == TrueColor {
		return Selection{Visual: def}, true
	}
	for _, v := range available {
		if v.Class == TrueColor && v.Depth == depth {
			return Selection{Visual: v, PrivateColormap: true}, true
		}
	}
	return Selection{}, false
}
