package boards

import "testing"

func TestLookupUno(t *testing.T) {
	p, ok := Lookup("uno")
	if !ok {
		t.Fatal("expected uno to be present in the board table")
	}
	if p.PageSize != 128 {
		t.Errorf("PageSize = %d, want 128", p.PageSize)
	}
	if p.NumPages != 256 {
		t.Errorf("NumPages = %d, want 256", p.NumPages)
	}
	if p.Baud != 115200 {
		t.Errorf("Baud = %d, want 115200", p.Baud)
	}
	want := [3]byte{0x1E, 0x95, 0x0F}
	if p.DeviceSignature != want {
		t.Errorf("DeviceSignature = % X, want % X", p.DeviceSignature[:], want[:])
	}
	if len(p.ProductID) == 0 {
		t.Error("expected at least one USB product id for uno")
	}
	if p.Port != "" {
		t.Errorf("Port = %q, want empty (caller fills it in)", p.Port)
	}
}

func TestLookupUnknownBoard(t *testing.T) {
	_, ok := Lookup("does-not-exist")
	if ok {
		t.Fatal("expected unknown board id to return ok=false")
	}
}

func TestIDsIncludesUno(t *testing.T) {
	ids := IDs()
	found := false
	for _, id := range ids {
		if id == "uno" {
			found = true
		}
	}
	if !found {
		t.Errorf("IDs() = %v, want it to include \"uno\"", ids)
	}
}
