// Package cashflows implements the `depoanalyze cashflows` subcommand:
// projected cash flows for an instrument, optionally filtered by date.
package cashflows

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/meenmo/depolib/instrument"
	"github.com/meenmo/depolib/valuation"
)

// Run executes the subcommand and returns a process exit code.
func Run(args []string, _ io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cashflows", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		instrumentPath = fs.String("instrument", "", "instrument JSON file (required)")
		startDate      = fs.String("start-date", "", "drop flows before this date (YYYY-MM-DD)")
		endDate        = fs.String("end-date", "", "drop flows after this date (YYYY-MM-DD)")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *instrumentPath == "" {
		fmt.Fprintln(stderr, "cashflows: -instrument is required")
		fs.Usage()
		return 2
	}

	raw, err := os.ReadFile(*instrumentPath)
	if err != nil {
		fmt.Fprintf(stderr, "cashflows: %v\n", err)
		return 1
	}
	inst, err := instrument.Decode(raw)
	if err != nil {
		fmt.Fprintf(stderr, "cashflows: %v\n", err)
		return 1
	}

	flows, err := valuation.ProjectCashflows(inst)
	if err != nil {
		fmt.Fprintf(stderr, "cashflows: %v\n", err)
		return 1
	}

	from, to, err := parseRange(*startDate, *endDate)
	if err != nil {
		fmt.Fprintf(stderr, "cashflows: %v\n", err)
		return 2
	}

	for _, cf := range flows {
		if !from.IsZero() && cf.Date.Before(from) {
			continue
		}
		if !to.IsZero() && cf.Date.After(to) {
			continue
		}
		fmt.Fprintf(stdout, "%s  %-9s  %15.2f\n", cf.Date.Format("2006-01-02"), cf.Kind, cf.Amount)
	}
	return 0
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if start != "" {
		if from, err = time.Parse("2006-01-02", start); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -start-date %q", start)
		}
	}
	if end != "" {
		if to, err = time.Parse("2006-01-02", end); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -end-date %q", end)
		}
	}
	return from, to, nil
}
