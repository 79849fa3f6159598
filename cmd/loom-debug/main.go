// Command loom-debug loads a Loom bytecode artifact and opens it directly
// in the interactive step-debugger (the §6 addendum's debugtui.Model),
// without running to completion first.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/loom-lang/loomvm/builtin"
	"github.com/loom-lang/loomvm/bytecode"
	"github.com/loom-lang/loomvm/debugtui"
	"github.com/loom-lang/loomvm/engine"
	"github.com/loom-lang/loomvm/heap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("loom-debug", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "enable verbose (debug-level) logging")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: loom-debug [-v] <program.loom>")
		return 1
	}

	logger := newLogger(*verbose)
	defer logger.Sync()
	bytecode.SetLogger(logger)
	heap.SetLogger(logger)
	engine.SetLogger(logger)
	builtin.SetLogger(logger)

	prog, err := bytecode.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	vm := engine.New(prog, heap.New(), builtin.NewRegistry())
	vm.SetTrace(true)

	if err := debugtui.Run(vm); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
