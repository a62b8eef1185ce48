package prepkit_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/jregan/prepkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunScripted_NoCommand(t *testing.T) {
	res := RunScripted(Script{})
	assert.False(t, res.Ok())
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "must specify a Command")
}

func TestRunScripted_NoExchangesPlainSuccess(t *testing.T) {
	var echo bytes.Buffer
	res := RunScripted(Script{
		Command:        "echo hello",
		OverallTimeout: testingTimeout,
		Echo:           &echo,
	})
	assert.Equal(t, Success, res.Outcome)
	assert.Contains(t, echo.String(), "hello")
}

// The process prints the expected prompt, the engine answers y, the
// process exits 0.
func TestRunScripted_OnePromptAnswered(t *testing.T) {
	var echo bytes.Buffer
	res := RunScripted(Script{
		Command: `printf 'Continue? (y/n) '; read ans;` +
			` if [ "$ans" = y ]; then exit 0; else exit 1; fi`,
		Exchanges:      []Exchange{{Expect: "Continue? (y/n)", Send: "y"}},
		OverallTimeout: testingTimeout,
		PromptTimeout:  testingTimeout,
		Echo:           &echo,
	})
	assert.Equal(t, Success, res.Outcome)
	assert.True(t, res.Ok())
	assert.Contains(t, echo.String(), "Continue? (y/n)")
}

// Same prompt, but the process exits 1 after reading the answer.
func TestRunScripted_ExitFailureAfterPrompt(t *testing.T) {
	res := RunScripted(Script{
		Command:        `printf 'Continue? (y/n) '; read ans; exit 1`,
		Exchanges:      []Exchange{{Expect: "Continue? (y/n)", Send: "y"}},
		OverallTimeout: testingTimeout,
		PromptTimeout:  testingTimeout,
	})
	assert.Equal(t, ExitFailure, res.Outcome)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "exit code 1", res.Reason())
}

// The expected prompt never appears and the per-prompt deadline elapses.
// The child is killed, not left hanging on its terminal.
func TestRunScripted_PromptTimeout(t *testing.T) {
	start := time.Now()
	res := RunScripted(Script{
		Command:        `printf 'no prompt here\n'; exec sleep 30`,
		Exchanges:      []Exchange{{Expect: "Continue? (y/n)", Send: "y"}},
		OverallTimeout: testingTimeout,
		PromptTimeout:  300 * time.Millisecond,
	})
	assert.Equal(t, Timeout, res.Outcome)
	assert.Equal(t, "Continue? (y/n)", res.Expect)
	assert.Less(t, time.Since(start), testingTimeout)
	assert.Contains(t, res.Reason(), "timed out waiting for prompt")
}

// The stream closes with a clean zero exit before the prompt ever shows:
// the command evidently no longer asks the scripted question.
func TestRunScripted_PatternNeverMatched(t *testing.T) {
	res := RunScripted(Script{
		Command:        `printf 'all done\n'`,
		Exchanges:      []Exchange{{Expect: "Continue? (y/n)", Send: "y"}},
		OverallTimeout: testingTimeout,
		PromptTimeout:  testingTimeout,
	})
	assert.Equal(t, PatternNeverMatched, res.Outcome)
	assert.Equal(t, "Continue? (y/n)", res.Expect)
}

// The process dies nonzero before the prompt: an unexpected termination.
func TestRunScripted_UnexpectedTermination(t *testing.T) {
	res := RunScripted(Script{
		Command:        `printf 'dying\n'; exit 3`,
		Exchanges:      []Exchange{{Expect: "Continue? (y/n)", Send: "y"}},
		OverallTimeout: testingTimeout,
		PromptTimeout:  testingTimeout,
	})
	assert.Equal(t, UnexpectedTermination, res.Outcome)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Reason(), "exited with code 3")
}

// The second expected prompt embeds the first answer, so this only
// succeeds if answers go out strictly in declared order, each one after
// its own prompt matched.
func TestRunScripted_ExchangesInOrder(t *testing.T) {
	var echo bytes.Buffer
	res := RunScripted(Script{
		Command: `printf 'Name? '; read n;` +
			` printf "Hello $n, confirm? "; read c;` +
			` [ "$c" = yes ] && echo accepted:$n`,
		Exchanges: []Exchange{
			{Expect: "Name? ", Send: "zed"},
			{Expect: "Hello zed, confirm? ", Send: "yes"},
		},
		OverallTimeout: testingTimeout,
		PromptTimeout:  testingTimeout,
		Echo:           &echo,
	})
	assert.Equal(t, Success, res.Outcome)
	assert.Contains(t, echo.String(), "accepted:zed")
}

// The overall deadline bounds the wait for exit after the last prompt.
func TestRunScripted_OverallTimeoutDuringDrain(t *testing.T) {
	res := RunScripted(Script{
		Command:        `printf 'Go? '; read a; exec sleep 30`,
		Exchanges:      []Exchange{{Expect: "Go?", Send: "yep"}},
		OverallTimeout: time.Second,
		PromptTimeout:  time.Second,
	})
	assert.Equal(t, Timeout, res.Outcome)
}

// A scripted step may use the full shell syntax and a working directory.
func TestRunScripted_ShellAndWorkingDir(t *testing.T) {
	dir := t.TempDir()
	res := RunScripted(Script{
		Command: `printf 'Write it? '; read a &&` +
			` echo "$a" > answer.txt && echo saved`,
		WorkingDir:     dir,
		Exchanges:      []Exchange{{Expect: "Write it?", Send: "indeed"}},
		OverallTimeout: testingTimeout,
		PromptTimeout:  testingTimeout,
	})
	require.Equal(t, Success, res.Outcome)
	data, err := os.ReadFile(filepath.Join(dir, "answer.txt"))
	require.NoError(t, err)
	assert.Equal(t, "indeed\n", string(data))
}
