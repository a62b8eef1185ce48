package prepkit

import "fmt"

// Outcome classifies the result of one scripted session.
type Outcome int

const (
	// Success means every expected prompt was matched and answered, the
	// stream reached end-of-input, and the process exited with status 0.
	Success Outcome = iota

	// ExitFailure means the script completed but the process exited nonzero.
	// Result.ExitCode holds the status.
	ExitFailure

	// Timeout means a per-prompt or overall deadline elapsed.  The child
	// process has been terminated; it is never left running.
	Timeout

	// UnexpectedTermination means the output stream closed before every
	// expected prompt was matched, and the process did not exit cleanly.
	UnexpectedTermination

	// PatternNeverMatched means the process ran to a clean exit (status 0)
	// without ever presenting an expected prompt.  The command likely
	// changed and no longer asks the scripted question.
	PatternNeverMatched
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case ExitFailure:
		return "exit failure"
	case Timeout:
		return "timeout"
	case UnexpectedTermination:
		return "unexpected termination"
	case PatternNeverMatched:
		return "pattern never matched"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the classified outcome of one scripted session.
type Result struct {
	Outcome  Outcome
	ExitCode int    // valid when Outcome is ExitFailure
	Expect   string // the prompt in play when a non-Success outcome occurred
	Err      error  // underlying infrastructure error, if any
}

// Ok returns true only for a Success outcome.
func (r Result) Ok() bool { return r.Outcome == Success }

// Reason renders a diagnosis suitable for operator-facing failure reports.
func (r Result) Reason() string {
	switch r.Outcome {
	case Success:
		return "success"
	case ExitFailure:
		return fmt.Sprintf("exit code %d", r.ExitCode)
	case Timeout:
		if r.Expect != "" {
			return fmt.Sprintf("timed out waiting for prompt %q", r.Expect)
		}
		return "timed out waiting for the command to finish"
	case UnexpectedTermination:
		if r.Err != nil {
			return fmt.Sprintf(
				"terminated before prompt %q appeared: %v", r.Expect, r.Err)
		}
		if r.ExitCode != 0 {
			return fmt.Sprintf(
				"exited with code %d before prompt %q appeared",
				r.ExitCode, r.Expect)
		}
		return fmt.Sprintf("terminated before prompt %q appeared", r.Expect)
	case PatternNeverMatched:
		return fmt.Sprintf("finished without ever showing prompt %q", r.Expect)
	default:
		return r.Outcome.String()
	}
}
