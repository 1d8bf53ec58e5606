// Package pixel converts pixel buffers between the interleaved layout produced
// by slide decoders and the planar layout handed to callers.
//
// # Source Layout
//
// Decoders deliver a row-major sequence of width*height 32-bit cells. Each cell
// packs one pixel as alpha, red, green, blue from the most to the least
// significant byte. Color channels are premultiplied by alpha.
//
// # Planar Layout
//
// The converted buffer holds three contiguous 8-bit planes: red, then green,
// then blue. Each plane is stored column-major, so the sample at row i and
// column j of an h-row plane sits at offset j*h + i inside its plane:
//
//	red   = buf[0*w*h + j*h + i]
//	green = buf[1*w*h + j*h + i]
//	blue  = buf[2*w*h + j*h + i]
//
// Alpha is dropped. No compositing or un-premultiplication is performed, so a
// transparent pixel becomes black.
package pixel
