package relay

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>t</title><link>https://example.com</link>
<item><title>Older story - Site</title><link>https://example.com/1</link><pubDate>Mon, 01 Sep 2025 08:00:00 GMT</pubDate><source url="https://www.a.com">A</source></item>
<item><title>Newer story - Site</title><link>https://example.com/2</link><pubDate>Mon, 01 Sep 2025 12:00:00 GMT</pubDate><source url="https://b.com">B</source></item>
</channel></rss>`

func newTestRouter(s *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/parse-rss", s.ParseFeed)
	r.GET("/api/keywords", s.GetKeywords)
	r.GET("/health", s.GetHealth)
	return r
}

func TestParseFeed_ReturnsRows(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testFeed))
	}))
	defer upstream.Close()

	r := newTestRouter(NewServer(""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/parse-rss", strings.NewReader(`{"url":"`+upstream.URL+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Equal(t, 2, len(lines))
	// Newest first
	assert.Equal(t, true, strings.Contains(lines[0], `"Newer story"`))
	assert.Equal(t, true, strings.Contains(lines[0], `"b.com"`))
	assert.Equal(t, true, strings.Contains(lines[1], `"Older story"`))
	assert.Equal(t, true, strings.Contains(lines[1], `"a.com"`))
}

func TestParseFeed_MissingURL(t *testing.T) {
	r := newTestRouter(NewServer(""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/parse-rss", strings.NewReader(`{"url":""}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseFeed_BadBody(t *testing.T) {
	r := newTestRouter(NewServer(""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/parse-rss", strings.NewReader("not json"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseFeed_RejectsNonHTTPScheme(t *testing.T) {
	r := newTestRouter(NewServer(""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/parse-rss", strings.NewReader(`{"url":"file:///etc/passwd"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseFeed_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	r := newTestRouter(NewServer(""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/parse-rss", strings.NewReader(`{"url":"`+upstream.URL+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestParseFeed_MalformedFeed(t *testing.T) {
	badFeed := `<?xml version="1.0"?><rss version="2.0"><channel>
<item><title>no source</title><pubDate>Mon, 01 Sep 2025 08:00:00 GMT</pubDate></item>
</channel></rss>`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(badFeed))
	}))
	defer upstream.Close()

	r := newTestRouter(NewServer(""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/parse-rss", strings.NewReader(`{"url":"`+upstream.URL+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetKeywords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.txt")
	if err := os.WriteFile(path, []byte("alpha\n\nbeta\ngamma\n"), 0o644); err != nil {
		t.Fatalf("writing keywords: %v", err)
	}

	r := newTestRouter(NewServer(path))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/keywords", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	got := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	sort.Strings(got)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, got)
}

func TestGetKeywords_MissingFile(t *testing.T) {
	r := newTestRouter(NewServer(filepath.Join(t.TempDir(), "nope.txt")))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/keywords", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", w.Body.String())
}

func TestGetHealth(t *testing.T) {
	r := newTestRouter(NewServer(""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
