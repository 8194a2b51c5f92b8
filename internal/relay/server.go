package relay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/matheuskafuri/newstalk/internal/feed"
	"github.com/matheuskafuri/newstalk/internal/keywords"
)

// maxFeedBytes caps how much of a feed body is read.
const maxFeedBytes = 4 << 20

type parseRequest struct {
	URL string `json:"url"`
}

// Server is the stateless feed relay: it fetches a feed URL on behalf of a
// client that cannot (cross-origin restrictions), normalizes it, and
// returns the serialized rows.
type Server struct {
	client       *http.Client
	keywordsPath string
}

func NewServer(keywordsPath string) *Server {
	return &Server{
		client:       &http.Client{Timeout: 30 * time.Second},
		keywordsPath: keywordsPath,
	}
}

// Router builds the gin engine with CORS for local frontends plus any
// extra configured origins.
func (s *Server) Router(extraOrigins []string) *gin.Engine {
	r := gin.Default()

	allowed := append([]string{"http://localhost:3000"}, extraOrigins...)
	r.Use(cors.New(cors.Config{
		AllowOrigins: allowed,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/api/parse-rss", s.ParseFeed)
	r.GET("/api/keywords", s.GetKeywords)
	r.GET("/health", s.GetHealth)
	return r
}

// ParseFeed fetches the requested feed URL, normalizes it, and returns the
// CSV rows as plaintext. Failures are non-2xx with a plaintext message.
func (s *Server) ParseFeed(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		c.String(http.StatusBadRequest, "missing feed url")
		return
	}
	if err := checkScheme(req.URL); err != nil {
		slog.Warn("rejected feed url", "url", req.URL, "error", err)
		c.String(http.StatusBadRequest, "%v", err)
		return
	}

	raw, err := fetchBody(c.Request.Context(), s.client, req.URL)
	if err != nil {
		slog.Error("error fetching feed", "url", req.URL, "error", err)
		c.String(http.StatusBadGateway, "fetching feed: %v", err)
		return
	}

	records, err := feed.Normalize(raw)
	if err != nil {
		slog.Error("error normalizing feed", "url", req.URL, "error", err)
		c.String(http.StatusUnprocessableEntity, "%v", err)
		return
	}

	c.String(http.StatusOK, feed.Rows(records))
}

// GetKeywords serves the marquee keyword list, shuffled, one per line.
// A missing file is an empty body, not an error.
func (s *Server) GetKeywords(c *gin.Context) {
	list := keywords.Load(s.keywordsPath)
	keywords.Shuffle(list)
	c.String(http.StatusOK, strings.Join(list, "\n"))
}

func (s *Server) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func fetchBody(ctx context.Context, hc *http.Client, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func checkScheme(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}
