package command

import (
	"bufio"
	"io"

	"github.com/sirupsen/logrus"
)

// LineSource reads newline-delimited input from an underlying reader on
// its own goroutine (the one place in this firmware a background
// goroutine is unavoidable: os.Stdin has no non-blocking read primitive
// on every platform) and makes completed lines available to the
// single-threaded main loop over a channel. Dispatch against the App
// still happens exclusively on the main loop's goroutine -- only the
// blocking read itself is offloaded, preserving spec.md §5's "no mutable
// state shared across threads" for everything but the channel handoff.
type LineSource struct {
	lines  chan string
	closed chan struct{}
}

// NewLineSource starts the background reader over r and returns a
// LineSource the main loop can poll with TryNext.
func NewLineSource(r io.Reader) *LineSource {
	ls := &LineSource{
		lines:  make(chan string, 16),
		closed: make(chan struct{}),
	}
	go ls.run(r)
	return ls
}

func (ls *LineSource) run(r io.Reader) {
	defer close(ls.closed)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		ls.lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "LineSource.run",
			"package":  "command",
			"error":    err.Error(),
		}).Warn("command input reader terminated with error")
	}
}

// TryNext returns the next buffered line and true, or ("", false) if no
// line is currently available -- the non-blocking poll spec.md §5
// describes as "processes one batch of command input if any."
func (ls *LineSource) TryNext() (string, bool) {
	select {
	case line := <-ls.lines:
		return line, true
	default:
		return "", false
	}
}

// Serve runs p against every line TryNext yields, writing response lines
// to w, and is meant to be called once per main-loop iteration. It never
// blocks: with no input buffered it returns immediately having done
// nothing.
func Serve(p *Processor, ls *LineSource, w io.Writer) error {
	writer := bufio.NewWriter(w)
	for {
		line, ok := ls.TryNext()
		if !ok {
			return writer.Flush()
		}
		logrus.WithFields(logrus.Fields{
			"function": "Serve",
			"package":  "command",
			"line":     line,
		}).Debug("command received")

		for _, resp := range p.Dispatch(line) {
			if _, err := writer.WriteString(resp + "\n"); err != nil {
				return err
			}
		}
	}
}
