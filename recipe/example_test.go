package recipe_test

import (
	"fmt"

	"github.com/jregan/prepkit/recipe"
)

func ExampleBindings_Expand() {
	binds := recipe.Bindings{"project_name": "orchard"}
	command, _ := binds.Expand("cd {{project_name}} && npm install")
	fmt.Println(command)

	_, err := binds.Expand("cd {{projectname}}")
	fmt.Println(err)

	// Output:
	// cd orchard && npm install
	// unresolved placeholder {{projectname}} in "cd {{projectname}}"
}
