// Package cli provides progress output helpers for network-bound calls.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

var (
	progressOut   io.Writer = os.Stderr
	progressIsTTY           = func() bool { return term.IsTerminal(int(os.Stderr.Fd())) }
)

type progressStep struct {
	label   string
	started time.Time
}

func startProgress(label string) *progressStep {
	if !progressEnabled() {
		return nil
	}
	fmt.Fprintf(progressOut, "%s... ", label)
	return &progressStep{label: label, started: time.Now()}
}

func (p *progressStep) Done() {
	if p == nil {
		return
	}
	fmt.Fprintf(progressOut, "done (%s)\n", formatDuration(time.Since(p.started)))
}

func (p *progressStep) Fail(err error) {
	if p == nil {
		return
	}
	if err != nil {
		fmt.Fprintf(progressOut, "failed: %v\n", err)
		return
	}
	fmt.Fprintln(progressOut, "failed")
}

func progressEnabled() bool {
	if IsJSONOutput() || IsJSONLOutput() || noProgress {
		return false
	}
	if _, ok := os.LookupEnv("SELF_MCP_NO_PROGRESS"); ok {
		return false
	}
	if _, ok := os.LookupEnv("NO_PROGRESS"); ok {
		return false
	}
	return progressIsTTY()
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	if d < time.Second {
		return d.Round(10 * time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
