package wikipedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikichat/internal/domain"
)

const articleHTML = `<!DOCTYPE html>
<html><head><title>Python - Wikipedia</title><style>p { color: red }</style></head>
<body>
<h1 id="firstHeading">Python (programming language)</h1>
<p class="mw-empty-elt"></p>
<p><b>Python</b> is a <a href="/wiki/High-level">high-level</a>
   programming language.<sup class="reference">[1]</sup> It was created by Guido.</p>
<dl><dd>Indented remark about Python.</dd></dl>
<p>Python was first released in 1991.<sup>[2]</sup></p>
<script>var x = "<p>not a paragraph</p>";</script>
</body></html>`

func TestExtract(t *testing.T) {
	title, paragraphs, err := Extract(strings.NewReader(articleHTML))
	require.NoError(t, err)

	assert.Equal(t, "Python (programming language)", title)
	assert.Equal(t, []string{
		"",
		"Python is a high-level programming language. It was created by Guido.",
		"Python was first released in 1991.",
		"Indented remark about Python.",
	}, paragraphs)
}

func TestArticleName(t *testing.T) {
	tests := map[string]string{
		"python (programming language)":   "Python_(programming_language)",
		"  PYTHON   (Programming Language)": "Python_(programming_language)",
		"éclair":                          "Éclair",
		"   ":                             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ArticleName(in), in)
	}
}

func TestFetch(t *testing.T) {
	var gotPath, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/wiki", UserAgent: "test-agent"}, nil)
	doc, err := c.Fetch(context.Background(), "python (programming language)")
	require.NoError(t, err)

	assert.Equal(t, "/wiki/Python_(programming_language)", gotPath)
	assert.Equal(t, "test-agent", gotAgent)
	assert.Equal(t, SourceName, doc.Source)
	assert.Equal(t, "Python (programming language)", doc.Title)
	assert.Len(t, doc.Paragraphs, 4)
}

func TestFetch_NotFound(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/wiki/", BreakerFailures: 1}, nil)
	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background(), "No such thing")
		require.ErrorIs(t, err, domain.ErrSourceUnavailable)
		assert.Contains(t, err.Error(), "No_such_thing")
	}
	// missing articles never open the breaker
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestFetch_BreakerOpensOnServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/wiki/", BreakerFailures: 2, BreakerOpen: time.Minute}, nil)
	for i := 0; i < 4; i++ {
		_, err := c.Fetch(context.Background(), "Go")
		require.ErrorIs(t, err, domain.ErrSourceUnavailable)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestFetch_EmptyTopicAndCancelledContext(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1/wiki/", RequestsPerSecond: 0.001}, nil)

	_, err := c.Fetch(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Fetch(ctx, "Go")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
