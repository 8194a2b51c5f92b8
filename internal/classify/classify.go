package classify

import (
	"errors"
	"strings"

	"github.com/matheuskafuri/newstalk/internal/session"
)

// Mode selects how a user input is handled.
type Mode int

const (
	// ModeRSS fetches a fresh feed for a new topic.
	ModeRSS Mode = iota
	// ModeMerge fetches a feed for an added topic and merges its summary
	// with the existing one.
	ModeMerge
	// ModeFollowup answers against the most recent summary.
	ModeFollowup
	// ModeGeneral answers from general knowledge, ignoring feed context.
	ModeGeneral
)

func (m Mode) String() string {
	switch m {
	case ModeRSS:
		return "rss"
	case ModeMerge:
		return "merge"
	case ModeFollowup:
		return "followup"
	case ModeGeneral:
		return "general"
	}
	return "unknown"
}

// Input markers. "~question" forces general mode; "+topic" asks for a merge.
const (
	generalMarker = "~"
	mergeMarker   = "+"
)

var (
	// ErrBusy means a query pipeline is already in flight. The caller must
	// not have classified at all; treated as a precondition violation.
	ErrBusy = errors.New("query already in flight")
	// ErrEmptyQuery rejects blank input before any pipeline starts.
	ErrEmptyQuery = errors.New("empty query")
	// ErrNoSummaryContext means follow-up mode was selected but no usable
	// summary text exists. Guarded against upstream; checked defensively.
	ErrNoSummaryContext = errors.New("no summary available for follow-up")
)

// Action is the resolved handling for one user input. Only the fields
// relevant to Mode are set: merge carries the combined Topic and the
// existing summary as Context, followup carries Context only, rss carries
// Topic plus the transcript disposition, general carries just the query.
type Action struct {
	Mode    Mode
	Query   string // cleaned query text
	Topic   string // rss: the topic; merge: "<last query> + <query>"
	Context string // merge/followup: existing summary text
	Replace bool   // rss refresh: replace the transcript with the one result
	Clear   bool   // plain rss: optimistically clear before dispatch
}

// Classify resolves a raw user input against the session snapshot.
// forceNew skips follow-up handling and makes the resulting rss query
// replace the transcript (the refresh action re-runs the root topic this
// way). Classification never mutates state; the caller applies the action.
func Classify(input string, snap session.Snapshot, forceNew bool) (Action, error) {
	if snap.Busy {
		return Action{}, ErrBusy
	}

	q := strings.TrimSpace(input)
	if q == "" {
		return Action{}, ErrEmptyQuery
	}

	if strings.HasPrefix(q, generalMarker) {
		clean := strings.TrimSpace(strings.TrimPrefix(q, generalMarker))
		if clean == "" {
			return Action{}, ErrEmptyQuery
		}
		return Action{Mode: ModeGeneral, Query: clean}, nil
	}

	summary, hasSummary := snap.LatestSummary()

	if strings.HasPrefix(q, mergeMarker) && hasSummary && snap.NewsSession {
		clean := strings.TrimSpace(strings.TrimPrefix(q, mergeMarker))
		if clean == "" {
			return Action{}, ErrEmptyQuery
		}
		return Action{
			Mode:    ModeMerge,
			Query:   clean,
			Topic:   snap.LastQuery + " + " + clean,
			Context: summary.Text,
		}, nil
	}

	if hasSummary && !forceNew && snap.NewsSession {
		if summary.Text == "" {
			return Action{}, ErrNoSummaryContext
		}
		return Action{Mode: ModeFollowup, Query: q, Context: summary.Text}, nil
	}

	return Action{
		Mode:    ModeRSS,
		Query:   q,
		Topic:   q,
		Replace: forceNew,
		Clear:   !forceNew,
	}, nil
}
