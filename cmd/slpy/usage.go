package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  slpy run <file.slpy>     check and execute a script")
	fmt.Fprintln(os.Stderr, "  slpy <file.slpy>         same as run")
	fmt.Fprintln(os.Stderr, "  slpy check <file.slpy>   check without executing")
	fmt.Fprintln(os.Stderr, "  slpy fmt <file.slpy>     print the canonical form")
	fmt.Fprintln(os.Stderr, "  slpy ast <file.slpy>     print the syntax tree")
	fmt.Fprintln(os.Stderr, "  slpy deps                fetch dependencies pinned by slpy.lock")
	fmt.Fprintln(os.Stderr, "  slpy deps update         refetch and re-pin dependencies")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Scripts may also name a fetched dependency file: slpy run dep:<name>/<file.slpy>")
}
