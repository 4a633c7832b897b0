package progress

// RecordingSink appends every event it sees, for use in tests that
// assert on the exact progress sequence a session emitted. CancelAfter,
// if positive, makes the sink return Cancel once that many events have
// been recorded — exercising the cooperative-cancellation path.
type RecordingSink struct {
	Events      []Event
	CancelAfter int
}

func (s *RecordingSink) OnEvent(e Event) Signal {
	s.Events = append(s.Events, e)
	if s.CancelAfter > 0 && len(s.Events) >= s.CancelAfter {
		return Cancel
	}
	return Continue
}
