// Kaffee CLI - runs, inspects and packages class files
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
	"github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("kaffee.cli")

// errReported marks a failure whose message has already been written.
var errReported = errors.New("reported")

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: kaffee <command> [options] [args...]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  run      Run the static main method of a class\n")
	fmt.Fprintf(w, "  disasm   Disassemble the methods of a class file\n")
	fmt.Fprintf(w, "  pack     Package class files into a .kbnd bundle\n")
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  kaffee run Main.class              # Run a class file\n")
	fmt.Fprintf(w, "  kaffee run -cp classes demo.Main   # Find demo/Main.class under classes/\n")
	fmt.Fprintf(w, "  kaffee run -cp app.kbnd            # Run the bundle's main class\n")
	fmt.Fprintf(w, "  kaffee disasm Main.class\n")
	fmt.Fprintf(w, "  kaffee pack -o app.kbnd -main demo/Main classes\n")
	fmt.Fprintf(w, "\nSettings are read from the nearest kaffee.toml; flags override them.\n")
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute dispatches a command line and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "run":
		err = handleRunCommand(rest, stdout, stderr)
	case "disasm":
		err = handleDisasmCommand(rest, stdout, stderr)
	case "pack":
		err = handlePackCommand(rest, stdout, stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmd)
		usage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errReported):
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

// configureLogging installs an unbuffered simple backend so log lines are
// not lost when the process exits. Verbosity follows commonlog: 0 is
// notice, 1 info, 2 and above debug, negative values quieter.
func configureLogging(verbosity int, path *string) {
	backend := simple.NewBackend()
	backend.Buffered = false
	backend.Configure(verbosity, path)
	commonlog.SetBackend(backend)
}
