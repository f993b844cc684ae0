package types

import "fmt"

// Color is a 24-bit RGB colour
type Color uint32

// RGB builds a Color from its components
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Hex returns the colour as six upper-case hex digits, as used by DrawingML srgbClr
func (c Color) Hex() string {
	return fmt.Sprintf("%06X", uint32(c)&0xFFFFFF)
}

// String returns the colour in #RRGGBB notation
func (c Color) String() string {
	return "#" + c.Hex()
}
