package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/user/hbond_analyzer_go/internal/config"
)

// Commands understood by the analyzer.
const (
	CmdTimeSeries = "timeseries"
	CmdOccupancy  = "occupancy"
	CmdKDE        = "kde"
	CmdReport     = "report"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Options is the parsed command line.
type Options struct {
	Command   string
	Files     []string // Positional .xvg paths for kde and report
	Output    string   // Overrides the command's output file when set
	SkipGmx   bool
	LogFormat string
	LogLevel  string
	Config    *config.Config
}

const usage = `
hbond_analyzer - summaries and charts from GROMACS hydrogen-bond output.

Usage:
  hbond_analyzer [options] <command> [command options] [args]

Commands:
  timeseries            Summarize and plot the bond count over time.
  occupancy             Run gmx hbond, then plot bond occurrence per pair and per residue.
  kde FILE.xvg...       Compare bond count distributions of up to 10 runs.
  report [FILE.xvg...]  Bundle summaries and charts into a PDF report.

Options:
`

// Parse processes command-line arguments. It returns the parsed Options, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	flagSet := flag.NewFlagSet("hbond_analyzer", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usage)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a YAML configuration file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	opts := &Options{
		Command:   flagSet.Arg(0),
		LogFormat: strings.ToLower(*logFormatFlag),
		LogLevel:  strings.ToLower(*logLevelFlag),
	}
	if opts.LogFormat != "text" && opts.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	exit, err := parseCommand(opts, flagSet.Args()[1:], output)
	if err != nil || exit {
		return nil, exit, err
	}

	if *configFlag != "" {
		opts.Config, err = config.Load(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
	} else {
		opts.Config = config.Default()
	}
	slog.Debug("CLI parser finished successfully.", "command", opts.Command, "files", opts.Files)
	return opts, false, nil
}

func parseCommand(opts *Options, args []string, output io.Writer) (bool, error) {
	cmdSet := flag.NewFlagSet(opts.Command, flag.ContinueOnError)
	cmdSet.SetOutput(output)

	switch opts.Command {
	case CmdTimeSeries:
		cmdSet.StringVar(&opts.Output, "o", "", "Output PNG (default from config).")
	case CmdOccupancy:
		cmdSet.BoolVar(&opts.SkipGmx, "skip-gmx", false, "Use existing gmx hbond output instead of running gmx.")
	case CmdKDE:
		cmdSet.StringVar(&opts.Output, "o", "", "Output PNG (default from config).")
	case CmdReport:
		cmdSet.StringVar(&opts.Output, "o", "", "Output PDF (default from config).")
	default:
		fmt.Fprintf(output, "unknown command %q\n", opts.Command)
		fmt.Fprint(output, usage)
		return false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command: %s", opts.Command)}
	}

	if err := cmdSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return true, nil
		}
		return false, &ExitError{Code: 2, Message: err.Error()}
	}
	opts.Files = cmdSet.Args()

	switch opts.Command {
	case CmdKDE:
		if len(opts.Files) == 0 {
			return false, &ExitError{Code: 1, Message: "Usage: hbond_analyzer kde file1.xvg file2.xvg ..."}
		}
	case CmdTimeSeries, CmdOccupancy:
		if len(opts.Files) > 0 {
			return false, &ExitError{Code: 2, Message: fmt.Sprintf("%s takes no arguments, got %d", opts.Command, len(opts.Files))}
		}
	}
	return false, nil
}
