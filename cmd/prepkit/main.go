// prepkit is a recipe-driven command runner: it reads a declarative list
// of named recipes, lets the operator pick one, substitutes argument
// values into the step commands, and executes the steps in order,
// aborting on the first failure.  Steps that declare interactions are
// driven automatically through their prompts on a pseudo-terminal.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jregan/prepkit"
	"github.com/jregan/prepkit/recipe"
	"github.com/jregan/prepkit/tui"
)

var (
	flagFile           string
	flagOverallTimeout time.Duration
	flagPromptTimeout  time.Duration
	flagArgs           []string
)

var rootCmd = &cobra.Command{
	Use:   "prepkit",
	Short: "Run project setup recipes, automating their interactive prompts",
	Long: "prepkit reads recipes.yaml, lets you pick a recipe, asks for its " +
		"arguments, and runs its steps in order.  Steps with scripted " +
		"interactions run on a pseudo-terminal with their prompts answered " +
		"automatically; the recipe aborts on the first failing step.",
	RunE:          runInteractive,
	SilenceUsage:  true,
	SilenceErrors: false,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the recipes in the recipe file",
	RunE:  runList,
}

var runCmd = &cobra.Command{
	Use:   "run NAME",
	Short: "Run one recipe by name, arguments via --arg or prompted",
	Args:  cobra.ExactArgs(1),
	RunE:  runNamed,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&flagFile, "file", "f", recipe.DefaultFile,
		"path to the recipe definition file")
	rootCmd.PersistentFlags().DurationVar(
		&flagOverallTimeout, "timeout", prepkit.DefaultOverallTimeout,
		"overall time limit for each automated step")
	rootCmd.PersistentFlags().DurationVar(
		&flagPromptTimeout, "prompt-timeout", prepkit.DefaultPromptTimeout,
		"time limit for each individual expected prompt")
	runCmd.Flags().StringArrayVar(
		&flagArgs, "arg", nil,
		"argument value as key=value; repeatable; missing ones are prompted")
	rootCmd.AddCommand(listCmd, runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInteractive(cmd *cobra.Command, args []string) error {
	recipes, err := recipe.Load(flagFile)
	if err != nil {
		return err
	}
	name, err := tui.SelectRecipe(recipes)
	if err != nil {
		return err
	}
	return runRecipe(recipes, name, nil)
}

func runList(cmd *cobra.Command, args []string) error {
	recipes, err := recipe.Load(flagFile)
	if err != nil {
		return err
	}
	for _, r := range recipes {
		fmt.Fprintf(cmd.OutOrStdout(),
			"%s  (%d steps, %d args)\n", r.Name, len(r.Commands), len(r.Args))
	}
	return nil
}

func runNamed(cmd *cobra.Command, args []string) error {
	recipes, err := recipe.Load(flagFile)
	if err != nil {
		return err
	}
	given, err := parseArgFlags(flagArgs)
	if err != nil {
		return err
	}
	return runRecipe(recipes, args[0], given)
}

// runRecipe resolves the recipe's arguments (flag-supplied values first,
// the rest prompted in declaration order) and executes its steps.
func runRecipe(
	recipes []recipe.Recipe, name string, given recipe.Bindings,
) error {
	rec := recipe.Find(recipes, name)
	if rec == nil {
		return fmt.Errorf("no recipe named %q in %s", name, flagFile)
	}
	binds := recipe.Bindings{}
	var missing []recipe.ArgDecl
	for _, a := range rec.Args {
		if v, ok := given[a.Key]; ok {
			binds[a.Key] = v
			continue
		}
		missing = append(missing, a)
	}
	if len(missing) > 0 {
		asked, err := tui.AskArgs(missing)
		if err != nil {
			return err
		}
		for k, v := range asked {
			binds[k] = v
		}
	}
	runner := &prepkit.Runner{
		Console:        tui.NewStyledConsole(os.Stdout),
		Echo:           os.Stdout,
		OverallTimeout: flagOverallTimeout,
		PromptTimeout:  flagPromptTimeout,
	}
	return runner.RunRecipe(rec, binds)
}

func parseArgFlags(pairs []string) (recipe.Bindings, error) {
	binds := recipe.Bindings{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--arg wants key=value, got %q", pair)
		}
		binds[key] = value
	}
	return binds, nil
}
