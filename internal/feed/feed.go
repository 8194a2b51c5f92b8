package feed

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"
)

// Record is one normalized feed entry.
type Record struct {
	Timestamp int64  // publish time, epoch seconds UTC
	Headline  string // cleaned title, single line
	Publisher string // source host without scheme or www. prefix
}

// MalformedEntryError reports a feed entry missing a required field or
// carrying an unparsable date. Normalization of the whole feed is aborted;
// there are no partial results.
type MalformedEntryError struct {
	Index int
	Field string
	Err   error
}

func (e *MalformedEntryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("entry %d: bad %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("entry %d: missing %s", e.Index, e.Field)
}

func (e *MalformedEntryError) Unwrap() error { return e.Err }

// pubDateLayout is RFC1123 without the zone; feeds declare the zone as a
// trailing " GMT" which is stripped before parsing.
const pubDateLayout = "Mon, 02 Jan 2006 15:04:05"

// Normalize parses raw syndication markup into records ordered newest-first.
// An empty document or a feed with no entries yields an empty slice, not an
// error. Entries with equal timestamps keep their original order.
func Normalize(raw string) ([]Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parsed, err := (&rss.Parser{}).Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	records := make([]Record, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		if item.Source == nil || strings.TrimSpace(item.Source.URL) == "" {
			return nil, &MalformedEntryError{Index: i, Field: "source"}
		}

		ts, err := parseTimestamp(item.PubDate, item.PubDateParsed)
		if err != nil {
			return nil, &MalformedEntryError{Index: i, Field: "pubdate", Err: err}
		}

		records = append(records, Record{
			Timestamp: ts,
			Headline:  CleanHeadline(item.Title),
			Publisher: trimPublisher(item.Source.URL),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	return records, nil
}

// CleanHeadline flattens a feed title to a single line: embedded newlines
// become spaces, everything from the last " - " separator on is dropped
// (feeds append the site name there), everything from the first "|" on is
// dropped, and runs of whitespace collapse to single spaces.
func CleanHeadline(title string) string {
	s := strings.NewReplacer("\n", " ", "\r", " ").Replace(title)
	if i := strings.LastIndex(s, " - "); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "|"); i >= 0 {
		s = s[:i]
	}
	return strings.Join(strings.Fields(s), " ")
}

func trimPublisher(sourceURL string) string {
	s := strings.TrimSpace(sourceURL)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}

func parseTimestamp(pubDate string, parsed *time.Time) (int64, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(pubDate), " GMT"))
	if t, err := time.ParseInLocation(pubDateLayout, s, time.UTC); err == nil {
		return t.Unix(), nil
	}
	// The string form is occasionally non-standard; trust the parser's own
	// reading when it managed one.
	if parsed != nil {
		return parsed.UTC().Unix(), nil
	}
	return 0, fmt.Errorf("unparsable date %q", pubDate)
}

// Rows serializes records as one CSV row per record:
// timestamp,"headline","publisher". String fields are always quoted.
func Rows(records []Record) string {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(strconv.FormatInt(r.Timestamp, 10))
		sb.WriteByte(',')
		sb.WriteString(csvQuote(r.Headline))
		sb.WriteByte(',')
		sb.WriteString(csvQuote(r.Publisher))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
