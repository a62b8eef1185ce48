package recipe_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/jregan/prepkit/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipesYaml = `
- name: new web project
  args:
    - project_name: "What is the project called?"
    - region: "Which region?"
  commands:
    - name: scaffold
      run: npx create-thing {{project_name}}
      interactive:
        - question: "Ok to proceed? (y)"
          answer: "y"
        - question: "Would you like to use TypeScript?"
          answer: "Yes"
    - name: install deps
      run: npm install
      cwd: "{{project_name}}"
- name: plain chores
  commands:
    - name: tidy
      run: make tidy
`

func writeRecipes(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	recipes, err := Load(writeRecipes(t, recipesYaml))
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	web := recipes[0]
	assert.Equal(t, "new web project", web.Name)
	// Declaration order of the single-key arg mappings is preserved.
	require.Len(t, web.Args, 2)
	assert.Equal(t, "project_name", web.Args[0].Key)
	assert.Equal(t, "What is the project called?", web.Args[0].Prompt)
	assert.Equal(t, "region", web.Args[1].Key)

	require.Len(t, web.Commands, 2)
	scaffold := web.Commands[0]
	assert.Equal(t, "npx create-thing {{project_name}}", scaffold.Run)
	require.Len(t, scaffold.Interactive, 2)
	assert.Equal(t, "Ok to proceed? (y)", scaffold.Interactive[0].Question)
	assert.Equal(t, "y", scaffold.Interactive[0].Answer)

	install := web.Commands[1]
	assert.Empty(t, install.Interactive)
	assert.Equal(t, "{{project_name}}", install.Cwd)

	chores := recipes[1]
	assert.Empty(t, chores.Args)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_BadYaml(t *testing.T) {
	_, err := Load(writeRecipes(t, "- name: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestLoad_ArgNotSingleKeyPair(t *testing.T) {
	_, err := Load(writeRecipes(t, `
- name: broken
  args:
    - a: "prompt a"
      b: "prompt b"
  commands:
    - name: x
      run: "true"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single key: prompt pair")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		recipes []Recipe
		wantErr string
	}{
		{
			name:    "unnamed recipe",
			recipes: []Recipe{{Commands: []Step{{Run: "true"}}}},
			wantErr: "has no name",
		},
		{
			name: "duplicate names",
			recipes: []Recipe{
				{Name: "a", Commands: []Step{{Run: "true"}}},
				{Name: "a", Commands: []Step{{Run: "true"}}},
			},
			wantErr: `duplicate recipe name "a"`,
		},
		{
			name:    "no commands",
			recipes: []Recipe{{Name: "a"}},
			wantErr: "has no commands",
		},
		{
			name:    "step without run",
			recipes: []Recipe{{Name: "a", Commands: []Step{{Name: "x"}}}},
			wantErr: "no run command",
		},
		{
			name: "interaction without question",
			recipes: []Recipe{{Name: "a", Commands: []Step{{
				Name: "x", Run: "true",
				Interactive: []Interaction{{Answer: "y"}},
			}}}},
			wantErr: "no question",
		},
		{
			name: "all good",
			recipes: []Recipe{
				{Name: "a", Commands: []Step{{Name: "x", Run: "true"}}},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.recipes)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestFind(t *testing.T) {
	recipes := []Recipe{
		{Name: "a"},
		{Name: "b"},
	}
	assert.Equal(t, &recipes[1], Find(recipes, "b"))
	assert.Nil(t, Find(recipes, "zzz"))
}
