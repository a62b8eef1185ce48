// Package recipe defines the Go struct types for the recipe YAML schema,
// loads the recipe file, and performs argument substitution.
package recipe

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Recipe is one named setup workflow: an ordered sequence of steps plus
// the arguments the operator must supply before the run.  Recipes are
// parsed once at startup and immutable thereafter.
type Recipe struct {
	Name     string    `yaml:"name"`
	Args     []ArgDecl `yaml:"args,omitempty"`
	Commands []Step    `yaml:"commands"`
}

// ArgDecl declares one placeholder key and the prompt text shown to the
// operator when resolving its value.
type ArgDecl struct {
	Key    string
	Prompt string
}

// UnmarshalYAML reads an ArgDecl from the recipe file's single-key
// mapping form:
//
//	args:
//	  - project_name: "What is the project called?"
//
// Declaration order matters (arguments are prompted in order), which is
// why args is a sequence of single-key mappings and not one big map.
func (a *ArgDecl) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return fmt.Errorf(
			"line %d: an argument must be a single key: prompt pair", value.Line)
	}
	if err := value.Content[0].Decode(&a.Key); err != nil {
		return err
	}
	return value.Content[1].Decode(&a.Prompt)
}

// Step is one command execution unit within a recipe.  A step with no
// Interactive sequence runs plainly with inherited I/O; a step with one
// is driven through its prompts by the scripted-session engine.
type Step struct {
	Name        string        `yaml:"name"`
	Run         string        `yaml:"run"`
	Cwd         string        `yaml:"cwd,omitempty"`
	Interactive []Interaction `yaml:"interactive,omitempty"`
}

// Interaction is one (expected-prompt, response) pair.  Interactions are
// satisfied in declared order, never out of order.
type Interaction struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Validate checks a parsed recipe set for structural trouble.
func Validate(recipes []Recipe) error {
	seen := map[string]bool{}
	for i, r := range recipes {
		if r.Name == "" {
			return fmt.Errorf("recipe %d has no name", i)
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate recipe name %q", r.Name)
		}
		seen[r.Name] = true
		if len(r.Commands) == 0 {
			return fmt.Errorf("recipe %q has no commands", r.Name)
		}
		for j, s := range r.Commands {
			if s.Run == "" {
				return fmt.Errorf(
					"recipe %q step %d (%s) has no run command", r.Name, j, s.Name)
			}
			for _, ia := range s.Interactive {
				if ia.Question == "" {
					return fmt.Errorf(
						"recipe %q step %q has an interaction with no question",
						r.Name, s.Name)
				}
			}
		}
	}
	return nil
}

// Find returns the recipe with the given name, or nil.
func Find(recipes []Recipe, name string) *Recipe {
	for i := range recipes {
		if recipes[i].Name == name {
			return &recipes[i]
		}
	}
	return nil
}
