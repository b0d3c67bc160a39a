// Package gmx runs the GROMACS hydrogen-bond analysis that produces the
// files the rest of this module reads.
package gmx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// stderrTail is how much of the tool's stderr is kept in error messages.
const stderrTail = 2048

// HBondConfig describes one `gmx hbond` invocation.
type HBondConfig struct {
	Exec      string // gmx binary, looked up in PATH if it has no slash
	Structure string // -f, trajectory or structure
	TPR       string // -s, run input
	Index     string // -n, index groups
	MapOut    string // -hbm, existence map (.xpm)
	NumOut    string // -num, bond count time series (.xvg)
	IndexOut  string // -hbn, donor/acceptor/bond index (.ndx)

	// Selections answer gmx's interactive group prompts, one per line.
	Selections []string
}

// HBondDefault mirrors the file names the analysis expects.
var HBondDefault = HBondConfig{
	Exec:       "gmx",
	Structure:  "md.pdb",
	TPR:        "md.tpr",
	Index:      "index.ndx",
	MapOut:     "hbond_map.xpm",
	NumOut:     "hbonds.xvg",
	IndexOut:   "hbond.ndx",
	Selections: []string{"1", "1"},
}

// RunError is returned when gmx exits unsuccessfully.
type RunError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// CheckRequiredFiles returns an error naming the first path that does not
// exist.
func CheckRequiredFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("missing required file: %s: %w", p, err)
			}
			return fmt.Errorf("cannot access required file %s: %w", p, err)
		}
	}
	return nil
}

// Inputs returns the files gmx hbond reads.
func (conf HBondConfig) Inputs() []string {
	return []string{conf.Structure, conf.TPR, conf.Index}
}

// Args returns the command line, without the executable.
func (conf HBondConfig) Args() []string {
	return []string{
		"hbond",
		"-f", conf.Structure,
		"-s", conf.TPR,
		"-n", conf.Index,
		"-hbm", conf.MapOut,
		"-num", conf.NumOut,
		"-hbn", conf.IndexOut,
	}
}

// Stdin returns what is piped to the tool's group prompts.
func (conf HBondConfig) Stdin() string {
	return strings.Join(conf.Selections, "\n") + "\n"
}

// Run checks the inputs exist, then runs gmx hbond to completion.
func (conf HBondConfig) Run(ctx context.Context) error {
	if err := CheckRequiredFiles(conf.Inputs()...); err != nil {
		return err
	}

	args := conf.Args()
	cmd := exec.CommandContext(ctx, conf.Exec, args...)
	cmd.Stdin = strings.NewReader(conf.Stdin())
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Info("Running gmx hbond.", "exec", conf.Exec, "args", args)
	if err := cmd.Run(); err != nil {
		tail := stderr.String()
		if len(tail) > stderrTail {
			tail = tail[len(tail)-stderrTail:]
		}
		return &RunError{
			Args:   append([]string{conf.Exec}, args...),
			Stderr: strings.TrimSpace(tail),
			Err:    err,
		}
	}
	slog.Debug("gmx hbond finished.", "stdout_bytes", stdout.Len(), "stderr_bytes", stderr.Len())
	return nil
}
