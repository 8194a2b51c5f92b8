package relay

import (
	"context"
	"net/http"
	"time"

	"github.com/matheuskafuri/newstalk/internal/feed"
)

// Direct fetches and normalizes feeds in-process, for running the chat
// client without a relay. Same contract as Client.FetchRows.
type Direct struct {
	hc *http.Client
}

func NewDirect() *Direct {
	return &Direct{hc: &http.Client{Timeout: 30 * time.Second}}
}

func (d *Direct) FetchRows(ctx context.Context, feedURL string) (string, error) {
	if err := checkScheme(feedURL); err != nil {
		return "", err
	}

	raw, err := fetchBody(ctx, d.hc, feedURL)
	if err != nil {
		return "", err
	}

	records, err := feed.Normalize(raw)
	if err != nil {
		return "", err
	}
	return feed.Rows(records), nil
}
