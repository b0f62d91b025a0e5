package caller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

const (
	quitPrompt  = "Enter Q or q to quit."
	allDrawnMsg = "All the values have been drawn."
)

// Session runs the line-oriented caller: print a call, wait for a line of
// input, repeat until the operator enters q or the values run out.
type Session struct {
	seq        *Sequence
	in         *bufio.Reader
	out        io.Writer
	showLabels bool
	logger     *log.Logger

	startReader sync.Once
	lines       chan string
	closeOnce   sync.Once
	done        chan struct{}
}

// NewSession creates a session reading operator input from in and printing
// calls to out.
//
// The session reads in from a single goroutine that lives across calls to
// Run, so input typed after a quit is kept for the next Run. Call Close when
// done with the session. A read already blocked on in only returns once in
// yields a line or ends.
func NewSession(seq *Sequence, in io.Reader, out io.Writer, showLabels bool, logger *log.Logger) *Session {
	return &Session{
		seq:        seq,
		in:         bufio.NewReader(in),
		out:        out,
		showLabels: showLabels,
		logger:     logger.WithPrefix("caller"),
		lines:      make(chan string),
		done:       make(chan struct{}),
	}
}

// Run plays the game. It returns nil when the operator quits, input ends or
// every value has been drawn, and ctx.Err() when ctx is cancelled. Run may be
// called again to carry on drawing from the same sequence.
func (s *Session) Run(ctx context.Context) error {
	s.startReader.Do(func() { go s.readLines() })
	lines := s.lines

	if _, err := fmt.Fprintln(s.out, quitPrompt); err != nil {
		return err
	}

	for {
		call, ok := s.seq.Next()
		if !ok {
			_, err := fmt.Fprintln(s.out, allDrawnMsg)
			return err
		}

		s.logger.Debug("Drew value", "number", call.Number, "label", call.Label, "value", call.Value,
			"remaining", s.seq.Remaining())
		if _, err := fmt.Fprintln(s.out, call.Format(s.showLabels)); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, open := <-lines:
			if !open {
				s.logger.Debug("Input closed, stopping", "drawn", call.Number)
				return nil
			}
			if IsQuit(line) {
				s.logger.Debug("Operator quit", "drawn", call.Number, "remaining", s.seq.Remaining())
				return nil
			}
		}
	}
}

// Close stops the input reader once its pending read returns.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// readLines feeds operator input lines into s.lines until input ends or the
// session is closed.
func (s *Session) readLines() {
	defer close(s.lines)
	for {
		line, err := s.in.ReadString('\n')
		if line != "" || err == nil {
			select {
			case s.lines <- strings.TrimRight(line, "\r\n"):
			case <-s.done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Warn("Failed to read input", "error", err)
			}
			return
		}
	}
}

// IsQuit reports whether an input line asks to stop drawing.
func IsQuit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "q")
}
