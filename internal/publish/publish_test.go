package publish

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestCommandPublisherMapsFlags(t *testing.T) {
	var gotName string
	var gotArgs []string
	p := NewCommandPublisher([]string{"portfolio-publish", "--auto"})
	p.cmdRunner = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		return exec.CommandContext(ctx, "echo", "published")
	}

	result, err := p.Publish(context.Background(), Request{
		SourceDir:       "/proj",
		AppName:         "todo-app",
		SkipConfirm:     true,
		SkipAgentReview: true,
	})
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if result.Message != "published" {
		t.Errorf("Message = %q", result.Message)
	}

	if gotName != "portfolio-publish" {
		t.Errorf("command = %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"--auto", "--source /proj", "--app-name todo-app", "--yes", "--skip-agent-review"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
	if strings.Contains(joined, "--dry-run") {
		t.Errorf("unexpected --dry-run in %q", joined)
	}
}

func TestCommandPublisherFailure(t *testing.T) {
	p := NewCommandPublisher([]string{"portfolio-publish"})
	p.cmdRunner = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "false")
	}

	result, err := p.Publish(context.Background(), Request{SourceDir: "/p", AppName: "a"})
	if err == nil {
		t.Fatal("expected error from failing publisher")
	}
	if result.Message == "" {
		t.Error("expected a failure message")
	}
}

func TestCommandPublisherRequiresCommand(t *testing.T) {
	p := &CommandPublisher{}
	if _, err := p.Publish(context.Background(), Request{}); err == nil {
		t.Error("expected error with no command configured")
	}
}

func TestDryRunPublisher(t *testing.T) {
	result, err := DryRunPublisher{}.Publish(context.Background(), Request{SourceDir: "/p", AppName: "todo"})
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if !strings.Contains(result.Message, "todo") {
		t.Errorf("Message = %q", result.Message)
	}
}
