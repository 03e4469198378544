package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/chrispicato/jest/engine"
	"github.com/chrispicato/jest/output"
	"github.com/chrispicato/jest/output/format"
	"github.com/chrispicato/jest/results"
	"github.com/chrispicato/jest/tui"
)

// errTestsFailed marks a run that completed but had failing tests. It must
// reach main as an error return so the deferred file closes run before the
// process exits.
var errTestsFailed = errors.New("tests failed")

type options struct {
	infile   string
	outfile  string
	jsonfile string
	notty    bool
	replay   bool
	rate     float64
	estimate int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "jest",
		Short: "A live, summary-oriented reporter for `go test -json` streams",
		Long: `jest reads a go test -json stream (from stdin or a file) and renders a
live terminal view of the run: per-package status lines with trimmed paths,
failure output, and an aggregated suites/tests/snapshots/time summary with an
optional progress bar against an estimated run time.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.infile, "file", "f", "", "read from file instead of stdin")
	cmd.Flags().StringVar(&opts.outfile, "outfile", "", "save all input to the specified file")
	cmd.Flags().StringVar(&opts.jsonfile, "jsonfile", "", "save JSON events to the specified file")
	cmd.Flags().BoolVar(&opts.notty, "notty", false, "don't use the TUI, write plain output to stdout")
	cmd.Flags().BoolVar(&opts.replay, "replay", false, "replay events with timing from the original run (requires -f)")
	cmd.Flags().Float64Var(&opts.rate, "rate", 1.0, "replay rate multiplier (0=instant, 1=original speed, 0.5=2x speed)")
	cmd.Flags().IntVar(&opts.estimate, "estimate", 0, "estimated run time in seconds; enables the progress bar")

	return cmd
}

func run(opts *options) error {
	if opts.replay && opts.infile == "" {
		return fmt.Errorf("--replay requires -f <filename>")
	}
	if opts.rate < 0 {
		return fmt.Errorf("--rate must be >= 0")
	}
	if opts.estimate < 0 {
		return fmt.Errorf("--estimate must be >= 0")
	}

	var inputSource io.Reader = os.Stdin
	if opts.infile != "" {
		f, err := os.Open(opts.infile)
		if err != nil {
			return fmt.Errorf("opening input file: %w", err)
		}
		defer f.Close()

		if opts.replay {
			replayReader, err := engine.NewReplayReader(f, opts.rate)
			if err != nil {
				return fmt.Errorf("creating replay reader: %w", err)
			}
			inputSource = replayReader
		} else {
			inputSource = f
		}
	}

	var engineOpts []engine.Option
	if opts.outfile != "" {
		f, err := os.Create(opts.outfile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		engineOpts = append(engineOpts, engine.WithRawOutput(f))
	}
	if opts.jsonfile != "" {
		f, err := os.Create(opts.jsonfile)
		if err != nil {
			return fmt.Errorf("creating JSON file: %w", err)
		}
		defer f.Close()
		engineOpts = append(engineOpts, engine.WithJSONOutput(f))
	}

	eng := engine.NewEngine(engineOpts...)
	engineEvents := eng.Stream(inputSource)
	collector := results.NewCollector()

	// Reading from a file without replay means there is nothing live to
	// watch; fall back to plain output like -notty.
	skipTUI := opts.notty || (opts.infile != "" && !opts.replay)

	var failed bool
	if skipTUI {
		simple := output.NewSimpleOutput(os.Stdout, collector,
			output.WithStyler(format.DetectStyler(os.Stdout)),
			output.WithEstimate(opts.estimate))
		if err := simple.ProcessEvents(engineEvents); err != nil {
			return fmt.Errorf("processing events: %w", err)
		}
		failed = simple.HasFailures()
	} else {
		m := tui.NewModel(collector, opts.estimate)
		p := tea.NewProgram(m)

		go func() {
			for evt := range engineEvents {
				p.Send(tui.EngineEventMsg(evt))
			}
			p.Send(tui.EOFMsg{})
		}()

		finalModel, err := p.Run()
		if err != nil {
			return fmt.Errorf("running program: %w", err)
		}

		collector.Finish()
		width := 80
		if model, ok := finalModel.(*tui.Model); ok {
			width = model.TerminalWidth
		}
		fmt.Println()
		fmt.Print(output.Report(collector, format.DetectStyler(os.Stdout), width, opts.estimate))
		failed = collector.HasFailures()
	}

	if failed {
		return errTestsFailed
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
