package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meenmo/depolib/cmd/depoanalyze/internal/analyze"
	"github.com/meenmo/depolib/cmd/depoanalyze/internal/cashflows"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "analyze":
		return analyze.Run(args[1:], stdin, stdout, stderr)
	case "cashflows":
		return cashflows.Run(args[1:], stdin, stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: depoanalyze <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  analyze    Valuation, risk and credit metrics for an instrument")
	fmt.Fprintln(w, "  cashflows  Projected cash flows for an instrument")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run `depoanalyze <command> -h` for command-specific help.")
}
