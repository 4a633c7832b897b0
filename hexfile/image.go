// Package hexfile decodes Intel HEX (I8HEX) firmware images into a sparse
// byte map keyed by absolute flash address.
package hexfile

// Image is an ordered mapping from 16-bit flash byte addresses to byte
// values, covering only the addresses a HEX source actually mentioned.
// An address with no entry is not implicitly zero — only the paginator
// decides how gaps within a touched page are filled.
type Image struct {
	bytes map[uint16]byte
}

func newImage() *Image {
	return &Image{bytes: make(map[uint16]byte)}
}

func (img *Image) set(addr uint16, b byte) {
	img.bytes[addr] = b
}

// Lookup returns the byte decoded at addr, if any.
func (img *Image) Lookup(addr uint16) (byte, bool) {
	b, ok := img.bytes[addr]
	return b, ok
}

// Len reports the number of distinct addresses the image carries data for.
func (img *Image) Len() int {
	return len(img.bytes)
}

// Range reports the lowest and highest addresses present in the image.
// ok is false for an empty image.
func (img *Image) Range() (lo, hi uint16, ok bool) {
	if len(img.bytes) == 0 {
		return 0, 0, false
	}
	first := true
	for addr := range img.bytes {
		if first || addr < lo {
			lo = addr
		}
		if first || addr > hi {
			hi = addr
		}
		first = false
	}
	return lo, hi, true
}
