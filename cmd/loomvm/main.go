// Command loomvm runs a Loom bytecode artifact to completion (§6's CLI
// surface): a positional file path, a verbose flag, and a debug flag.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/loom-lang/loomvm/builtin"
	"github.com/loom-lang/loomvm/bytecode"
	"github.com/loom-lang/loomvm/debugtui"
	"github.com/loom-lang/loomvm/engine"
	"github.com/loom-lang/loomvm/heap"
	"github.com/loom-lang/loomvm/vmerr"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("loomvm", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "enable verbose (debug-level) logging")
	debug := fs.Bool("debug", false, "launch the interactive step-debugger instead of running to completion")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: loomvm [-v] [-debug] <program.loom>")
		return 1
	}
	path := fs.Arg(0)

	logger := newLogger(*verbose)
	defer logger.Sync()
	bytecode.SetLogger(logger)
	heap.SetLogger(logger)
	engine.SetLogger(logger)
	builtin.SetLogger(logger)

	prog, err := bytecode.Load(path)
	if err != nil {
		return fail(logger, err)
	}

	vm := engine.New(prog, heap.New(), builtin.NewRegistry())
	vm.SetTrace(*verbose)

	if *debug {
		if err := debugtui.Run(vm); err != nil {
			return fail(logger, err)
		}
		return 0
	}

	result, err := vm.Execute(context.Background())
	if err != nil {
		return fail(logger, err)
	}
	logger.Info("execution finished", zap.String("result", result.Render()))
	fmt.Println(result.Render())
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

// fail reports the failure's kind and detail to stderr, matching §7's
// "no stack traces produced by the core" contract, and returns a distinct
// non-zero exit code per failure kind.
func fail(logger *zap.Logger, err error) int {
	logger.Error("execution failed", zap.Error(err))
	fmt.Fprintln(os.Stderr, err.Error())
	var ve *vmerr.Error
	if errors.As(err, &ve) {
		return int(ve.Kind()) + 1
	}
	return 1
}
