package prepkit

import (
	"bytes"
	"io"
	"time"
)

// matchResult says how a call to await or drain ended.
type matchResult int

const (
	// matched means the pattern appeared in the stream before the deadline.
	matched matchResult = iota
	// timedOut means the deadline elapsed first.  A call that timed out
	// never reports a late match; the caller must treat the session as dead.
	timedOut
	// streamClosed means the stream reached end-of-input before a match.
	streamClosed
)

// promptMatcher scans a live process's output stream for expected prompt
// patterns.  Output arrives as raw chunks on a channel; a pseudo-terminal
// is not line-buffered, and prompts usually lack a trailing linefeed, so
// a line scanner would never see them.  Chunks accumulate in a rolling
// buffer so a pattern split across reads is still found.
//
// Every byte consumed from the channel is forwarded to the echo sink in
// arrival order, exactly once, whether or not it ends up matching.
type promptMatcher struct {
	buf  bytes.Buffer // output since the last successful match
	echo io.Writer
}

func newPromptMatcher(echo io.Writer) *promptMatcher {
	if echo == nil {
		echo = io.Discard
	}
	return &promptMatcher{echo: echo}
}

// await blocks until pattern appears in the buffered stream, the duration
// elapses, or the channel closes.  On a match it returns the text that
// preceded the pattern and trims the buffer past the matched text, so the
// next call scans only fresh output.  An empty pattern matches immediately.
func (m *promptMatcher) await(
	ch <-chan []byte, pattern string, d time.Duration,
) (before string, res matchResult) {
	// The pattern may already be sitting in the buffer from a previous read.
	if before, ok := m.scan(pattern); ok {
		return before, matched
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case chunk, open := <-ch:
			if !open {
				return "", streamClosed
			}
			m.consume(chunk)
			if before, ok := m.scan(pattern); ok {
				return before, matched
			}
		case <-timer.C:
			return "", timedOut
		}
	}
}

// drain forwards everything remaining on the channel to the echo sink.
// It returns streamClosed on end-of-input, or timedOut if the duration
// elapses first.
func (m *promptMatcher) drain(ch <-chan []byte, d time.Duration) matchResult {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case chunk, open := <-ch:
			if !open {
				return streamClosed
			}
			m.consume(chunk)
		case <-timer.C:
			return timedOut
		}
	}
}

// consume forwards the chunk to the echo sink and appends it to the
// rolling buffer.  The sink and the scan see exactly the same bytes.
func (m *promptMatcher) consume(chunk []byte) {
	_, _ = m.echo.Write(chunk)
	m.buf.Write(chunk)
}

// scan looks for pattern anywhere in the rolling buffer.  On success it
// returns the bytes preceding the match and resets the buffer to whatever
// followed the match.
func (m *promptMatcher) scan(pattern string) (string, bool) {
	if pattern == "" {
		return "", true
	}
	idx := bytes.Index(m.buf.Bytes(), []byte(pattern))
	if idx < 0 {
		return "", false
	}
	before := string(m.buf.Bytes()[:idx])
	rest := append([]byte(nil), m.buf.Bytes()[idx+len(pattern):]...)
	m.buf.Reset()
	m.buf.Write(rest)
	return before, true
}
