// Package publish defines the boundary to the pipeline's phase-6 publisher.
// The lifecycle only needs publish semantics; the commit/push mechanics live
// in the external publisher invoked here.
package publish

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Request describes one publish run.
type Request struct {
	SourceDir   string
	AppName     string
	DryRun      bool
	SkipConfirm bool
	// SkipAgentReview bypasses the agent review gate; fix re-runs set this
	// because the change already went through review in the original cycle.
	SkipAgentReview bool
}

// Result reports the outcome of a publish run.
type Result struct {
	Message string
}

// Publisher re-runs the terminal publish phase for an app.
type Publisher interface {
	Publish(ctx context.Context, req Request) (Result, error)
}

// CommandPublisher invokes the external publish command configured for the
// pipeline. The command hangs as long as the publisher does; bounded latency
// is the operator's job, not this core's.
type CommandPublisher struct {
	// Command is the executable plus fixed leading arguments.
	Command []string

	// cmdRunner allows tests to inject fake commands.
	cmdRunner func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewCommandPublisher creates a publisher for the given command line.
func NewCommandPublisher(command []string) *CommandPublisher {
	return &CommandPublisher{Command: command}
}

// Publish runs the external publisher with flags mapped from the request.
func (p *CommandPublisher) Publish(ctx context.Context, req Request) (Result, error) {
	if len(p.Command) == 0 {
		return Result{}, fmt.Errorf("no publish command configured")
	}

	args := append([]string{}, p.Command[1:]...)
	args = append(args, "--source", req.SourceDir, "--app-name", req.AppName)
	if req.DryRun {
		args = append(args, "--dry-run")
	}
	if req.SkipConfirm {
		args = append(args, "--yes")
	}
	if req.SkipAgentReview {
		args = append(args, "--skip-agent-review")
	}

	var cmd *exec.Cmd
	if p.cmdRunner != nil {
		cmd = p.cmdRunner(ctx, p.Command[0], args...)
	} else {
		cmd = exec.CommandContext(ctx, p.Command[0], args...)
	}

	output, err := cmd.CombinedOutput()
	message := strings.TrimSpace(string(output))
	if err != nil {
		if message == "" {
			message = err.Error()
		}
		return Result{Message: message}, fmt.Errorf("publish failed: %w", err)
	}
	return Result{Message: message}, nil
}

// DryRunPublisher satisfies the boundary without touching anything; used
// when the whole invocation runs with --dry-run.
type DryRunPublisher struct{}

// Publish reports what would have happened.
func (DryRunPublisher) Publish(ctx context.Context, req Request) (Result, error) {
	return Result{Message: fmt.Sprintf("dry-run: would publish %s from %s", req.AppName, req.SourceDir)}, nil
}
