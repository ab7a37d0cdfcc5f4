// Command tasktree manages dependency trees of tasks from the terminal and
// serves them over HTTP.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], newApp(os.Stdin, os.Stdout, os.Stderr)))
}

// run executes the command line and returns the process exit code.
func run(args []string, a *app) int {
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	if err := root.Execute(); err != nil {
		printError(a.errOut, err, a.jsonOutput)
		return exitCode(err)
	}
	return ExitSuccess
}
