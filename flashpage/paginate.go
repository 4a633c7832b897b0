// Package flashpage groups a sparse hexfile.Image into contiguous,
// fixed-size flash page write units.
package flashpage

import (
	"sort"

	"github.com/avrprog/stk500v1/hexfile"
)

// Write is one flash page's worth of bytes to program: payload has
// length page_size and byte_address = page_index * page_size.
// payload[i] equals the image byte at byte_address+i if the image has
// one, else 0xFF (the erased-flash value).
type Write struct {
	PageIndex   int
	ByteAddress uint16
	Payload     []byte
}

// Paginate returns, in ascending page-index order, one Write for every
// page that contains at least one decoded byte. Pages with no decoded
// bytes are skipped: they are never written or verified.
func Paginate(img *hexfile.Image, pageSize int) []Write {
	lo, hi, ok := img.Range()
	if !ok {
		return nil
	}

	firstPage := int(lo) / pageSize
	lastPage := int(hi) / pageSize

	touched := make(map[int]bool)
	for page := firstPage; page <= lastPage; page++ {
		base := uint16(page * pageSize)
		for i := 0; i < pageSize; i++ {
			if _, present := img.Lookup(base + uint16(i)); present {
				touched[page] = true
				break
			}
		}
	}

	pages := make([]int, 0, len(touched))
	for page := range touched {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	writes := make([]Write, 0, len(pages))
	for _, page := range pages {
		base := uint16(page * pageSize)
		payload := make([]byte, pageSize)
		for i := 0; i < pageSize; i++ {
			if b, present := img.Lookup(base + uint16(i)); present {
				payload[i] = b
			} else {
				payload[i] = 0xFF
			}
		}
		writes = append(writes, Write{
			PageIndex:   page,
			ByteAddress: base,
			Payload:     payload,
		})
	}
	return writes
}
