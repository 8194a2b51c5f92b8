package chat

import (
	"context"
	"fmt"
	"net/url"

	"github.com/matheuskafuri/newstalk/internal/classify"
	"github.com/matheuskafuri/newstalk/internal/session"
	"github.com/matheuskafuri/newstalk/internal/synth"
)

// Fetcher retrieves the normalized rows for a feed URL, either through the
// relay or directly.
type Fetcher interface {
	FetchRows(ctx context.Context, feedURL string) (string, error)
}

// Pipeline runs one query at a time through classify, fetch, synthesize,
// and state application. The session store's busy lock makes it
// non-reentrant: a second submission while one is in flight is a no-op.
type Pipeline struct {
	store   *session.Store
	fetcher Fetcher
	synth   synth.Synthesizer
	feedURL string // template; %s is the URL-escaped topic
}

func New(store *session.Store, fetcher Fetcher, s synth.Synthesizer, feedURL string) *Pipeline {
	return &Pipeline{store: store, fetcher: fetcher, synth: s, feedURL: feedURL}
}

// Run resolves one user input to completion. Pipeline failures (fetch,
// normalization, synthesis) are converted into a single error-kind message
// appended to the conversation and reported as the returned message, not as
// an error. The error return is only for the silent rejections that start
// no pipeline: classify.ErrBusy and classify.ErrEmptyQuery.
func (p *Pipeline) Run(ctx context.Context, input string, forceNew bool) (session.Message, error) {
	act, err := classify.Classify(input, p.store.Snapshot(), forceNew)
	if err != nil {
		return session.Message{}, err
	}

	if !p.store.TryAcquire() {
		return session.Message{}, classify.ErrBusy
	}
	defer p.store.Release()

	switch act.Mode {
	case classify.ModeFollowup, classify.ModeGeneral, classify.ModeMerge:
		p.store.Append(session.Draft{Kind: session.KindQuestion, Text: act.Query, FromUser: true})
	case classify.ModeRSS:
		if act.Clear {
			// Optimistic clear: stale results must not show during the fetch.
			p.store.Clear()
		}
	}

	msg, err := p.dispatch(ctx, act)
	if err != nil {
		return p.store.Append(session.Draft{Kind: session.KindError, Text: err.Error()}), nil
	}
	return msg, nil
}

func (p *Pipeline) dispatch(ctx context.Context, act classify.Action) (session.Message, error) {
	switch act.Mode {
	case classify.ModeRSS:
		summary, err := p.summarizeTopic(ctx, act.Query)
		if err != nil {
			return session.Message{}, err
		}
		msgs := p.store.Commit(session.Update{
			RootTopic:   act.Topic,
			LastQuery:   act.Query,
			NewsSession: true,
			Replace:     act.Replace,
			Append:      []session.Draft{{Kind: session.KindSummary, Text: summary, Topic: act.Topic}},
		})
		return msgs[0], nil

	case classify.ModeMerge:
		fresh, err := p.summarizeTopic(ctx, act.Query)
		if err != nil {
			return session.Message{}, err
		}
		merged, err := p.synth.MergeSummaries(ctx, act.Context, fresh)
		if err != nil {
			return session.Message{}, err
		}
		msgs := p.store.Commit(session.Update{
			LastQuery: act.Topic,
			Append:    []session.Draft{{Kind: session.KindSummary, Text: merged, Topic: act.Topic}},
		})
		return msgs[0], nil

	case classify.ModeFollowup:
		answer, err := p.synth.AnswerFollowup(ctx, act.Context, act.Query)
		if err != nil {
			return session.Message{}, err
		}
		return p.store.Append(session.Draft{Kind: session.KindAnswer, Text: answer}), nil

	case classify.ModeGeneral:
		answer, err := p.synth.GeneralSearch(ctx, act.Query)
		if err != nil {
			return session.Message{}, err
		}
		return p.store.Append(session.Draft{Kind: session.KindAnswer, Text: answer}), nil
	}

	return session.Message{}, fmt.Errorf("unhandled mode %s", act.Mode)
}

// summarizeTopic is the fetch-then-summarize half shared by rss and merge:
// feed fetch strictly before synthesis.
func (p *Pipeline) summarizeTopic(ctx context.Context, topic string) (string, error) {
	rows, err := p.fetcher.FetchRows(ctx, p.topicURL(topic))
	if err != nil {
		return "", err
	}
	return p.synth.SummarizeFeed(ctx, rows)
}

func (p *Pipeline) topicURL(topic string) string {
	return fmt.Sprintf(p.feedURL, url.QueryEscape(topic))
}
