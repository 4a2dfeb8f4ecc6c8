package main

import (
	"fmt"
	"os"
)

const cliToolVersion = "slpy 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runScript(args[1:])
	case "check":
		return checkScript(args[1:])
	case "fmt":
		return fmtScript(args[1:])
	case "ast":
		return dumpScript(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		// A bare file argument runs it.
		return runScript(args)
	}
}
