package progress

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
)

// BarSink renders a terminal progress bar for each phase using
// schollz/progressbar, switching to a fresh bar whenever the phase
// changes (programming, then verifying).
type BarSink struct {
	bar   *progressbar.ProgressBar
	phase Phase
	have  bool
}

// NewBarSink returns a Sink that draws a live progress bar to stdout.
func NewBarSink() *BarSink {
	return &BarSink{}
}

func (s *BarSink) OnEvent(e Event) Signal {
	if !s.have || s.phase != e.Phase {
		s.bar = progressbar.NewOptions(e.PagesTotal,
			progressbar.OptionSetDescription(fmt.Sprintf("%-11s", e.Phase)),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionOnCompletion(func() { fmt.Println() }),
		)
		s.phase = e.Phase
		s.have = true
	}
	_ = s.bar.Set(e.PagesDone)
	return Continue
}
