package synth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matheuskafuri/newstalk/internal/config"
)

type fakeCaller struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeCaller) call(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestSummarizeFeedPromptCarriesRows(t *testing.T) {
	fc := &fakeCaller{reply: "a narrative"}
	g := gateway{c: fc}

	rows := "100,\"headline one\",\"a.com\"\n99,\"headline two\",\"b.com\"\n"
	got, err := g.SummarizeFeed(context.Background(), rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a narrative" {
		t.Errorf("result = %q", got)
	}
	if !strings.Contains(fc.prompt, rows) {
		t.Error("prompt missing the feed rows")
	}
	if !strings.Contains(fc.prompt, "300 words") {
		t.Error("prompt missing the length constraint")
	}
	if !strings.Contains(fc.prompt, "publisher names") {
		t.Error("prompt missing the publisher exclusion")
	}
}

func TestAnswerFollowupPromptCarriesContext(t *testing.T) {
	fc := &fakeCaller{reply: "turnout was high"}
	g := gateway{c: fc}

	_, err := g.AnswerFollowup(context.Background(), "the summary", "what about turnout")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(fc.prompt, "the summary") || !strings.Contains(fc.prompt, "what about turnout") {
		t.Errorf("prompt missing inputs: %q", fc.prompt)
	}
}

func TestMergeSummariesPromptCarriesBoth(t *testing.T) {
	fc := &fakeCaller{reply: "merged"}
	g := gateway{c: fc}

	_, err := g.MergeSummaries(context.Background(), "summary A", "summary B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(fc.prompt, "summary A") || !strings.Contains(fc.prompt, "summary B") {
		t.Errorf("prompt missing a summary: %q", fc.prompt)
	}
	if !strings.Contains(fc.prompt, "400 words") {
		t.Error("prompt missing the length constraint")
	}
}

func TestCallFailureWrappedAsError(t *testing.T) {
	cause := errors.New("boom")
	g := gateway{c: &fakeCaller{err: cause}}

	_, err := g.GeneralSearch(context.Background(), "anything")
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if se.Op != "general" {
		t.Errorf("op = %q, want %q", se.Op, "general")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}

func TestNewRejectsMissingKey(t *testing.T) {
	if _, err := New(&config.AIConfig{Provider: "claude"}, ""); err == nil {
		t.Error("expected error for empty API key")
	}
	if _, err := New(nil, "key"); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(&config.AIConfig{Provider: "bard"}, "key")
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "bard") {
		t.Errorf("error should name the provider: %v", err)
	}
}

func TestNewKnownProviders(t *testing.T) {
	for _, provider := range []string{"claude", "openai"} {
		s, err := New(&config.AIConfig{Provider: provider}, "key")
		if err != nil {
			t.Errorf("New(%q): unexpected error: %v", provider, err)
			continue
		}
		if s == nil {
			t.Errorf("New(%q): nil synthesizer", provider)
		}
	}
}
