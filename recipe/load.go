package recipe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the recipe definition file looked for when no --file
// flag is given.
const DefaultFile = "recipes.yaml"

// ErrNotFound marks a missing recipe definition file.  This is fatal at
// startup; there is nothing to run without it.
var ErrNotFound = errors.New("recipe file not found")

// Load reads and validates the recipe definition file.
func Load(path string) ([]Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %q - %w", path, err)
	}
	var recipes []Recipe
	if err := yaml.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("parsing %q - %w", path, err)
	}
	if err := Validate(recipes); err != nil {
		return nil, fmt.Errorf("in %q - %w", path, err)
	}
	return recipes, nil
}
