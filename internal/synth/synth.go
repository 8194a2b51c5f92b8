package synth

import (
	"context"
	"fmt"

	"github.com/matheuskafuri/newstalk/internal/config"
)

// Synthesizer turns normalized feed rows or questions into narrative text.
// Every call is a single attempt against an external text-generation
// service; failures are never retried here.
type Synthesizer interface {
	SummarizeFeed(ctx context.Context, rows string) (string, error)
	AnswerFollowup(ctx context.Context, summary, question string) (string, error)
	MergeSummaries(ctx context.Context, existing, fresh string) (string, error)
	GeneralSearch(ctx context.Context, query string) (string, error)
}

// Error wraps any failure from the external service: network errors,
// non-success statuses, empty responses.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("synthesis %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// New creates a Synthesizer from the given AI config.
func New(cfg *config.AIConfig, apiKey string) (Synthesizer, error) {
	if cfg == nil || apiKey == "" {
		return nil, fmt.Errorf("AI not configured")
	}

	switch cfg.Provider {
	case "claude":
		return newAnthropicProvider(apiKey, cfg.Model), nil
	case "openai":
		return newOpenAIProvider(apiKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q (valid: claude, openai)", cfg.Provider)
	}
}

const summarizeFeedPrompt = `You are a news editor. Below are news items, one per line, as CSV rows of (unix timestamp, headline, publisher).

Write a single flowing narrative summary of the main stories in under 300 words. Lead with the most recent developments. Do not mention any publisher names. Do not output a list; write prose.

%s`

const followupPrompt = `Answer the question using only the news summary below. If the summary does not contain the information needed, say that you cannot answer it from the current briefing instead of guessing. Do not invent facts.

Summary:
%s

Question: %s`

const mergePrompt = `Combine the two news summaries below into one coherent narrative of under 400 words. Weave related stories together and keep every distinct development from both.

First summary:
%s

Second summary:
%s`

const generalPrompt = `Answer the following question concisely and factually.

%s`

// caller is the single-prompt transport each provider implements.
type caller interface {
	call(ctx context.Context, prompt string) (string, error)
}

type gateway struct {
	c caller
}

func (g gateway) SummarizeFeed(ctx context.Context, rows string) (string, error) {
	text, err := g.c.call(ctx, fmt.Sprintf(summarizeFeedPrompt, rows))
	if err != nil {
		return "", &Error{Op: "summarize", Err: err}
	}
	return text, nil
}

func (g gateway) AnswerFollowup(ctx context.Context, summary, question string) (string, error) {
	text, err := g.c.call(ctx, fmt.Sprintf(followupPrompt, summary, question))
	if err != nil {
		return "", &Error{Op: "followup", Err: err}
	}
	return text, nil
}

func (g gateway) MergeSummaries(ctx context.Context, existing, fresh string) (string, error) {
	text, err := g.c.call(ctx, fmt.Sprintf(mergePrompt, existing, fresh))
	if err != nil {
		return "", &Error{Op: "merge", Err: err}
	}
	return text, nil
}

func (g gateway) GeneralSearch(ctx context.Context, query string) (string, error) {
	text, err := g.c.call(ctx, fmt.Sprintf(generalPrompt, query))
	if err != nil {
		return "", &Error{Op: "general", Err: err}
	}
	return text, nil
}
