package prepkit

import (
	"fmt"
	"io"
	"time"
)

const (
	// DefaultOverallTimeout bounds one whole scripted session.
	DefaultOverallTimeout = 300 * time.Second
	// DefaultPromptTimeout bounds the wait for any single prompt.  A hung
	// prompt is diagnosable separately from a merely slow overall command.
	DefaultPromptTimeout = 60 * time.Second

	// exitGrace is how long to wait for the exit status once the output
	// stream has already closed; at that point the child is gone or going.
	exitGrace = 5 * time.Second
)

// Exchange is one scripted question-and-answer pair: when Expect appears
// in the child's output, Send is written to its input.
type Exchange struct {
	Expect string // literal text to wait for in the output stream
	Send   string // response line to type when Expect appears
}

// Script describes one scripted session: a shell command, the ordered
// exchanges to drive it through, and its deadlines.
type Script struct {
	// Command is a shell expression, run via /bin/sh -c.
	Command string

	// WorkingDir, if nonempty, is where the command runs.
	WorkingDir string

	// Exchanges are satisfied strictly in order.  Interactive tools present
	// prompts sequentially; out-of-order answers are meaningless.
	Exchanges []Exchange

	// OverallTimeout bounds the whole session.  Zero means
	// DefaultOverallTimeout.
	OverallTimeout time.Duration

	// PromptTimeout bounds the wait for each individual prompt.  Zero means
	// DefaultPromptTimeout.
	PromptTimeout time.Duration

	// Echo receives every byte of child output as it is consumed, so the
	// operator can watch the automation work.  Nil discards the output.
	Echo io.Writer
}

// Validate looks for trouble and sets defaults.
func (s *Script) Validate() error {
	if s.Command == "" {
		return fmt.Errorf("must specify a Command")
	}
	if s.OverallTimeout == 0 {
		s.OverallTimeout = DefaultOverallTimeout
	}
	if s.PromptTimeout == 0 {
		s.PromptTimeout = DefaultPromptTimeout
	}
	return nil
}

// RunScripted drives one command through its scripted exchanges and
// classifies the outcome.
//
// The command is spawned on a pseudo-terminal.  For each exchange in
// declared order the output stream is scanned for the expected prompt;
// on a match the response is sent, on a per-prompt timeout the session is
// aborted with Timeout, and on premature end-of-stream the session ends
// with UnexpectedTermination (or PatternNeverMatched when the process
// turns out to have exited cleanly without ever asking).  After the last
// exchange the remaining output is forwarded to the echo sink and the
// exit status collected, bounded by what is left of the overall timeout.
//
// Every non-Success outcome is terminal: mismatched or timed-out prompts
// are never retried here.  Resending answers to a restarted process may
// not reproduce the original prompt sequence, so retry policy, if any,
// belongs to the caller.  On any timeout the child is killed, never left
// orphaned on its terminal.
func RunScripted(s Script) Result {
	if err := s.Validate(); err != nil {
		return Result{Outcome: UnexpectedTermination, Err: err}
	}
	proc, err := StartProc(s.Command, s.WorkingDir)
	if err != nil {
		return Result{Outcome: UnexpectedTermination, Err: err}
	}
	deadline := time.Now().Add(s.OverallTimeout)
	m := newPromptMatcher(s.Echo)

	for _, ex := range s.Exchanges {
		d := min(s.PromptTimeout, time.Until(deadline))
		if d <= 0 {
			_ = proc.Terminate()
			return Result{Outcome: Timeout, Expect: ex.Expect}
		}
		_, res := m.await(proc.Output(), ex.Expect, d)
		switch res {
		case matched:
			if err := proc.SendLine(ex.Send); err != nil {
				_ = proc.Terminate()
				return Result{
					Outcome: UnexpectedTermination, Expect: ex.Expect, Err: err}
			}
		case timedOut:
			_ = proc.Terminate()
			return Result{Outcome: Timeout, Expect: ex.Expect}
		case streamClosed:
			return classifyEarlyExit(proc, ex.Expect)
		}
	}

	// All exchanges satisfied; forward the rest of the output and collect
	// the exit status within what remains of the overall budget.
	if res := m.drain(proc.Output(), time.Until(deadline)); res == timedOut {
		_ = proc.Terminate()
		return Result{Outcome: Timeout}
	}
	code, err := proc.Wait(max(time.Until(deadline), 0))
	if err == ErrWaitTimeout {
		_ = proc.Terminate()
		return Result{Outcome: Timeout}
	}
	_ = proc.Close()
	if err != nil {
		return Result{Outcome: UnexpectedTermination, Err: err}
	}
	if code != 0 {
		return Result{Outcome: ExitFailure, ExitCode: code}
	}
	return Result{Outcome: Success}
}

// classifyEarlyExit decides what a closed stream means when exchanges are
// still pending.  A clean zero exit means the command finished without
// ever asking the scripted question; anything else is an unexpected death.
func classifyEarlyExit(proc *Proc, expect string) Result {
	code, err := proc.Wait(exitGrace)
	if err == ErrWaitTimeout {
		_ = proc.Terminate()
		return Result{Outcome: Timeout, Expect: expect}
	}
	_ = proc.Close()
	if err == nil && code == 0 {
		return Result{Outcome: PatternNeverMatched, Expect: expect}
	}
	if err == nil {
		err = proc.lastError()
	}
	return Result{
		Outcome: UnexpectedTermination, ExitCode: code, Expect: expect, Err: err}
}
