package prepkit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

var (
	// ErrProcessExited is returned by SendLine when the child is already gone.
	ErrProcessExited = errors.New("process already exited")

	// ErrWaitTimeout is returned by Wait when the duration elapses before
	// the child terminates.  The child is still running; the caller decides
	// whether to Terminate it.
	ErrWaitTimeout = errors.New("timed out waiting for process exit")

	// ErrKilledBySignal is returned by Wait when the child was terminated
	// abnormally rather than exiting on its own.
	ErrKilledBySignal = errors.New("process killed by signal")
)

// Proc manages one shell command attached to a pseudo-terminal.
//
// The command runs under /bin/sh -c, so step commands may use the full
// shell syntax (&&, pipes, redirection).  The pseudo-terminal makes the
// child perceive an interactive session; many tools only prompt when they
// detect a real terminal on stdin.
//
// One goroutine reads the terminal into the Output channel; a second waits
// on the process and records its exit state.  A Proc owns exactly one
// child and one terminal for its lifetime, and every exit path - natural
// completion, timeout abort, Terminate - reaps the child and closes the
// terminal so nothing leaks across steps.
type Proc struct {
	cmd         *exec.Cmd
	tty         *os.File // pseudo-terminal primary side
	chOut       chan []byte
	done        chan struct{} // closed once waitErr is recorded
	waitErr     error         // result of cmd.Wait; read only after done
	infraErrors *errorTracker
	closeOnce   sync.Once
	closeErr    error
}

// StartProc spawns the command through a shell attached to a fresh
// pseudo-terminal.  workingDir, if nonempty, is resolved relative to the
// caller's current directory before spawn.
func StartProc(command, workingDir string) (*Proc, error) {
	if command == "" {
		return nil, fmt.Errorf("must specify a command")
	}
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Dir = workingDir
	tty, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("trying to start %q - %w", command, err)
	}
	p := &Proc{
		cmd:         cmd,
		tty:         tty,
		chOut:       make(chan []byte, 64),
		done:        make(chan struct{}),
		infraErrors: &errorTracker{},
	}
	go p.readOutput()
	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

// Output returns the channel of raw output chunks read from the terminal.
// The channel closes when the stream reaches end-of-input, which on Linux
// happens once the child exits and releases the terminal.
func (p *Proc) Output() <-chan []byte { return p.chOut }

// SendLine writes the text followed by a line terminator to the child's
// input side.  It fails with ErrProcessExited rather than blocking if the
// child has already terminated.
func (p *Proc) SendLine(text string) error {
	select {
	case <-p.done:
		return ErrProcessExited
	default:
	}
	if _, err := p.tty.WriteString(text + "\n"); err != nil {
		if errors.Is(err, os.ErrClosed) {
			return ErrProcessExited
		}
		return fmt.Errorf("sending %q - %w", text, err)
	}
	return nil
}

// Wait blocks until the child terminates or the duration elapses.
// On termination it returns the numeric exit status, or ErrKilledBySignal
// if the child died to a signal.  On expiry it returns ErrWaitTimeout and
// leaves the child running.
func (p *Proc) Wait(d time.Duration) (int, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-p.done:
	case <-timer.C:
		return 0, ErrWaitTimeout
	}
	if p.waitErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(p.waitErr, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 0, fmt.Errorf("%w: %v", ErrKilledBySignal, ws.Signal())
		}
		return exitErr.ExitCode(), nil
	}
	return 0, p.waitErr
}

// Terminate kills the child if it is still running, reaps it, and releases
// the terminal.  It is safe to call on an already-exited Proc, and safe to
// call more than once.
func (p *Proc) Terminate() error {
	select {
	case <-p.done:
	default:
		// Kill unblocks the waiter; the reader unblocks when the
		// terminal closes below.
		if err := p.cmd.Process.Kill(); err != nil &&
			!errors.Is(err, os.ErrProcessDone) {
			p.infraErrors.log(fmt.Errorf("killing subprocess - %w", err))
		}
	}
	<-p.done
	// The reader may be parked on a full channel nobody is receiving
	// from anymore.  Drain so it can observe the closed terminal and exit.
	go func() {
		for range p.chOut {
		}
	}()
	return p.Close()
}

// Close releases the pseudo-terminal.  Idempotent.
func (p *Proc) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.tty.Close()
	})
	return p.closeErr
}

// lastError reports the most recent infrastructure error, if any.
func (p *Proc) lastError() error {
	return p.infraErrors.lastError()
}

// readOutput pumps terminal output into chOut until end-of-input.
// Reading the primary side after the child exits yields EIO on Linux;
// that, like EOF and a closed file, means the stream is finished.
func (p *Proc) readOutput() {
	defer close(p.chOut)
	buf := make([]byte, 4096)
	for {
		n, err := p.tty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			p.chOut <- chunk
		}
		if err != nil {
			if !isStreamEnd(err) {
				p.infraErrors.log(fmt.Errorf("terminal reader saw : %w", err))
			}
			return
		}
	}
}

func isStreamEnd(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, syscall.EIO)
}
