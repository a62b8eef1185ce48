// Package prepkit drives a shell command as if a human were typing at it.
//
// The core is RunScripted: it spawns a command attached to a pseudo-terminal,
// watches the output stream for an ordered list of expected prompts, answers
// each one with a scripted response, and classifies the final outcome from
// the exit status and the prompt-matching results.  Prompts are answered
// strictly in declared order; a prompt that never appears, a stream that
// closes early, and a process that outlives its deadline are all distinct
// failure modes (see Outcome).
//
// Runner composes the engine with the recipe package: it iterates the steps
// of one recipe, substitutes operator-supplied argument bindings into each
// step's command, dispatches plain steps to an inherited-I/O subprocess and
// interactive steps to RunScripted, and aborts the recipe on first failure.
//
// See session_test.go for usage, and Script and Runner for detailed
// documentation.
package prepkit
