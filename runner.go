package prepkit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/jregan/prepkit/recipe"
)

// Runner executes the steps of one recipe in declared order, strictly
// sequentially: later steps may depend on side effects of earlier ones
// (files created, servers left running), so there is no parallelism and
// no skip-and-continue.  The first failing step aborts the rest.
type Runner struct {
	// Console reports step banners and failure reasons.  Nil is quiet.
	Console Console

	// Echo receives the live output of every step, plain or automated.
	// Nil discards it; the usual value is os.Stdout.
	Echo io.Writer

	// Stdin is handed to plain (non-automated) steps so the operator can
	// interact with them directly.  Nil means os.Stdin.
	Stdin io.Reader

	// OverallTimeout and PromptTimeout configure automated steps; zero
	// values fall back to the session defaults.
	OverallTimeout time.Duration
	PromptTimeout  time.Duration
}

// ErrStepFailed wraps every step-level failure reported by RunRecipe.
var ErrStepFailed = errors.New("step failed")

// RunRecipe executes every step of the recipe with the given bindings.
// It returns nil only if every step succeeded.  Failures carry the step
// name and reason; nothing here is retried, because replaying answers at
// a restarted process may not reproduce the original prompt sequence.
func (r *Runner) RunRecipe(rec *recipe.Recipe, binds recipe.Bindings) error {
	console := r.Console
	if console == nil {
		console = quietConsole{}
	}
	total := len(rec.Commands)
	for i, step := range rec.Commands {
		console.Line("Step %d/%d: %s", i+1, total, step.Name)
		if err := r.runStep(step, binds, console); err != nil {
			console.Line("A step failed. Aborting recipe.")
			return fmt.Errorf("%w: %q - %v", ErrStepFailed, step.Name, err)
		}
		console.Line("Step %q completed successfully.", step.Name)
	}
	console.Line("All steps completed successfully.")
	return nil
}

func (r *Runner) runStep(
	step recipe.Step, binds recipe.Bindings, console Console,
) error {
	command, err := binds.Expand(step.Run)
	if err != nil {
		return err
	}
	workingDir, err := binds.Expand(step.Cwd)
	if err != nil {
		return err
	}
	if len(step.Interactive) > 0 {
		console.Line("Running (automated): %s", command)
		return r.runScripted(command, workingDir, step.Interactive)
	}
	console.Line("Running: %s", command)
	return r.runPlain(command, workingDir)
}

// runScripted drives one automated step through the session engine.
func (r *Runner) runScripted(
	command, workingDir string, interactions []recipe.Interaction,
) error {
	exchanges := make([]Exchange, len(interactions))
	for i, ia := range interactions {
		exchanges[i] = Exchange{Expect: ia.Question, Send: ia.Answer}
	}
	res := RunScripted(Script{
		Command:        command,
		WorkingDir:     workingDir,
		Exchanges:      exchanges,
		OverallTimeout: r.OverallTimeout,
		PromptTimeout:  r.PromptTimeout,
		Echo:           r.Echo,
	})
	if !res.Ok() {
		return fmt.Errorf("%s", res.Reason())
	}
	return nil
}

// runPlain executes a non-automated step with inherited I/O, blocking
// until exit.  The operator interacts with it directly.
func (r *Runner) runPlain(command, workingDir string) error {
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Dir = workingDir
	cmd.Stdin = r.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = r.Echo
	cmd.Stderr = r.Echo
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("exit code %d", exitErr.ExitCode())
		}
		return err
	}
	return nil
}
