package progress

import "testing"

func TestNopSinkAlwaysContinues(t *testing.T) {
	var s NopSink
	if sig := s.OnEvent(Event{Phase: Programming, PagesDone: 1, PagesTotal: 1}); sig != Continue {
		t.Errorf("NopSink.OnEvent = %v, want Continue", sig)
	}
}

func TestRecordingSinkAppendsEvents(t *testing.T) {
	s := &RecordingSink{}
	s.OnEvent(Event{Phase: Programming, PagesDone: 1, PagesTotal: 3})
	s.OnEvent(Event{Phase: Programming, PagesDone: 2, PagesTotal: 3})

	if len(s.Events) != 2 {
		t.Fatalf("len(Events) = %d, want 2", len(s.Events))
	}
	if s.Events[1].PagesDone != 2 {
		t.Errorf("Events[1].PagesDone = %d, want 2", s.Events[1].PagesDone)
	}
}

func TestRecordingSinkCancelAfter(t *testing.T) {
	s := &RecordingSink{CancelAfter: 2}

	if sig := s.OnEvent(Event{PagesDone: 1}); sig != Continue {
		t.Errorf("event 1 signal = %v, want Continue", sig)
	}
	if sig := s.OnEvent(Event{PagesDone: 2}); sig != Cancel {
		t.Errorf("event 2 signal = %v, want Cancel", sig)
	}
}

func TestPhaseString(t *testing.T) {
	if Programming.String() != "programming" {
		t.Errorf("Programming.String() = %q, want %q", Programming.String(), "programming")
	}
	if Verifying.String() != "verifying" {
		t.Errorf("Verifying.String() = %q, want %q", Verifying.String(), "verifying")
	}
}
