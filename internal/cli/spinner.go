package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/coastlines/pkg/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line while a terrain generates. Its label follows
// the pipeline stages as they complete. It stops on its own when the parent
// context is canceled.
type spinner struct {
	w      io.Writer
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	label string
	width int // widest line drawn, for clearing

	started  bool
	stopOnce sync.Once
	stopped  chan struct{}
	userStop bool
}

func newSpinner(ctx context.Context, w io.Writer, label string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		ctx:     ctx,
		cancel:  cancel,
		label:   label,
		stopped: make(chan struct{}),
	}
}

// Start draws frames until Stop is called or the context ends.
func (s *spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		tick := time.NewTicker(spinnerInterval)
		defer tick.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-tick.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stage records a finished pipeline stage. It has the [pipeline.Progress]
// signature.
func (s *spinner) Stage(stage pipeline.Stage, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base, _, _ := strings.Cut(s.label, " (")
	s.label = fmt.Sprintf("%s (%s done in %v)", base, stage, d.Round(time.Millisecond))
}

// Label returns the current status text.
func (s *spinner) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// Stop halts the animation and clears its line. Calling it more than once is
// fine.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.userStop = s.ctx.Err() == nil
		started := s.started
		s.mu.Unlock()

		s.cancel()
		if started {
			<-s.stopped
		}
	})
}

// Canceled reports whether the parent context ended before Stop was called.
func (s *spinner) Canceled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx.Err() != nil && !s.userStop
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleSpinner.Render(frame) + " " + StyleDim.Render(s.label)
	s.width = max(s.width, len(s.label)+2)
	fmt.Fprintf(s.w, "\r%s", line)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}
