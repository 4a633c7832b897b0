package flashpage

import (
	"strings"
	"testing"

	"github.com/avrprog/stk500v1/hexfile"
)

func decode(t *testing.T, src string) *hexfile.Image {
	t.Helper()
	img, err := hexfile.DecodeReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodeReader: %v", err)
	}
	return img
}

func TestPaginateSinglePage(t *testing.T) {
	img := decode(t, ":10000000000102030405060708090A0B0C0D0E0F78\n:00000001FF\n")

	writes := Paginate(img, 128)
	if len(writes) != 1 {
		t.Fatalf("len(writes) = %d, want 1", len(writes))
	}

	w := writes[0]
	if w.PageIndex != 0 || w.ByteAddress != 0 {
		t.Fatalf("page=%d addr=%d, want 0,0", w.PageIndex, w.ByteAddress)
	}
	if len(w.Payload) != 128 {
		t.Fatalf("len(Payload) = %d, want 128", len(w.Payload))
	}
	for i := 0; i < 16; i++ {
		if w.Payload[i] != byte(i) {
			t.Fatalf("Payload[%d] = %#x, want %#x", i, w.Payload[i], i)
		}
	}
	for i := 16; i < 128; i++ {
		if w.Payload[i] != 0xFF {
			t.Fatalf("Payload[%d] = %#x, want 0xFF", i, w.Payload[i])
		}
	}
}

func TestPaginateSkipsUntouchedPages(t *testing.T) {
	// One byte at address 0, another at address 300 (page 2 for page_size=128),
	// leaving page 1 entirely untouched.
	src := ":01000000AA55\n:01012C00448E\n:00000001FF\n"
	img := decode(t, src)

	writes := Paginate(img, 128)
	if len(writes) != 2 {
		t.Fatalf("len(writes) = %d, want 2", len(writes))
	}
	if writes[0].PageIndex != 0 {
		t.Fatalf("writes[0].PageIndex = %d, want 0", writes[0].PageIndex)
	}
	if writes[1].PageIndex != 2 {
		t.Fatalf("writes[1].PageIndex = %d, want 2", writes[1].PageIndex)
	}
}

func TestPaginateCoverageMatchesTouchedPages(t *testing.T) {
	src := ":01000000AA55\n:01012C00448E\n:00000001FF\n"
	img := decode(t, src)

	writes := Paginate(img, 128)

	covered := make(map[int]bool)
	for _, w := range writes {
		covered[w.PageIndex] = true
	}

	for addr := 0; addr < 512; addr++ {
		if _, present := img.Lookup(uint16(addr)); present {
			page := addr / 128
			if !covered[page] {
				t.Fatalf("page %d holds decoded byte at %d but was not emitted", page, addr)
			}
		}
	}

	for _, w := range writes {
		touched := false
		for i := 0; i < 128; i++ {
			if _, present := img.Lookup(uint16(w.PageIndex*128 + i)); present {
				touched = true
				break
			}
		}
		if !touched {
			t.Fatalf("page %d was emitted but holds no decoded byte", w.PageIndex)
		}
	}
}

func TestPaginateEmptyImage(t *testing.T) {
	img := decode(t, ":00000001FF\n")
	if writes := Paginate(img, 128); writes != nil {
		t.Fatalf("writes = %v, want nil", writes)
	}
}
