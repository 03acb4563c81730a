// Package main provides fair, a table-view renderer for career-fair
// company records.
package main

import (
	"os"
	"strings"

	"github.com/Whatshisname303/fair-renderer/internal/cli"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env)

	os.Exit(exitCode)
}
