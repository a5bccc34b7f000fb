// cjs runs CommonJS-style module trees written in JavaScript or Starlark.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
