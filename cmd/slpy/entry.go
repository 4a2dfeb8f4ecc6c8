package main

import (
	"fmt"
	"os"

	"slpy/interpreter-go/pkg/ast"
	"slpy/interpreter-go/pkg/driver"
	"slpy/interpreter-go/pkg/interpreter"
)

// newLoader builds a script loader rooted at the nearest manifest, if any.
func newLoader() (*driver.Loader, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	manifestPath, err := driver.FindManifest(cwd)
	if err != nil {
		return nil, err
	}
	return driver.NewLoader(driver.CacheDirFor(manifestPath)), nil
}

func singleScriptArg(args []string, command string) (string, bool) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "slpy %s takes exactly one script argument\n", command)
		printUsage()
		return "", false
	}
	return args[0], true
}

func runScript(args []string) int {
	arg, ok := singleScriptArg(args, "run")
	if !ok {
		return 1
	}
	loader, err := newLoader()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	program, err := loader.Load(arg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	in := interpreter.New(os.Stdin, os.Stdout)
	if err := in.Run(program); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func checkScript(args []string) int {
	arg, ok := singleScriptArg(args, "check")
	if !ok {
		return 1
	}
	loader, err := newLoader()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if _, err := loader.Load(arg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintln(os.Stdout, "ok")
	return 0
}

func fmtScript(args []string) int {
	arg, ok := singleScriptArg(args, "fmt")
	if !ok {
		return 1
	}
	return printScript(arg, func(program *ast.Program) {
		ast.Write(os.Stdout, program)
	})
}

func dumpScript(args []string) int {
	arg, ok := singleScriptArg(args, "ast")
	if !ok {
		return 1
	}
	return printScript(arg, func(program *ast.Program) {
		ast.Dump(os.Stdout, program)
	})
}

func printScript(arg string, render func(*ast.Program)) int {
	loader, err := newLoader()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	program, err := loader.LoadUnchecked(arg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	render(program)
	return 0
}
