package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrToolFailed is returned if an external tool cannot be started or exits
// with a non-zero status.
var ErrToolFailed = errors.New("external tool failed")

// Tool is an external command. Args are placed before the arguments of an
// individual invocation.
type Tool struct {
	Command string
	Args    []string
}

// ParseTool splits a command line like "fonttools varLib.instancer" at
// blanks.
func ParseTool(cmdline string) Tool {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return Tool{}
	}
	return Tool{Command: fields[0], Args: fields[1:]}
}

func (t Tool) String() string {
	return strings.Join(append([]string{t.Command}, t.Args...), " ")
}

// Available checks whether the tool's command can be found.
func (t Tool) Available() error {
	if t.Command == "" {
		return fmt.Errorf("%w: no command configured", ErrToolFailed)
	}
	if _, err := exec.LookPath(t.Command); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolFailed, t.Command, err)
	}
	return nil
}

// Run runs the tool with additional arguments and waits for it to
// complete. The process is killed if ctx is cancelled.
func (t Tool) Run(ctx context.Context, args ...string) error {
	if t.Command == "" {
		return fmt.Errorf("%w: no command configured", ErrToolFailed)
	}
	argv := append(append([]string{}, t.Args...), args...)
	tracer().Infof("▶ %s %s", t.Command, strings.Join(argv, " "))
	cmd := exec.CommandContext(ctx, t.Command, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if out := strings.TrimSpace(stdout.String()); out != "" {
		tracer().Debugf("%s: %s", t.Command, out)
	}
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s: %w", ErrToolFailed, t.Command, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("%w: %s: %v", ErrToolFailed, t.Command, err)
		}
		return fmt.Errorf("%w: %s: %v: %s", ErrToolFailed, t.Command, err, msg)
	}
	return nil
}
