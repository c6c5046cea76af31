package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuchat/internal/core"
)

func TestPageFetcherExtractsVisibleText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><style>body{color:red}</style></head>
<body>
  <h1>Luigi's</h1>
  <script>var tracking = 1;</script>
  <ul><li>Margherita   $10</li>
  <li>Pepperoni $12</li></ul>
</body></html>`))
	}))
	defer srv.Close()

	text, err := NewPageFetcher(5*time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Luigi's Margherita $10 Pepperoni $12", text)
}

func TestPageFetcherPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Happy hour\n\n4-6pm"))
	}))
	defer srv.Close()

	text, err := NewPageFetcher(5*time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Happy hour 4-6pm", text)
}

func TestPageFetcherHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewPageFetcher(5*time.Second).Fetch(context.Background(), srv.URL)
	assert.True(t, eris.Is(err, core.ErrUpstream))
}

func TestPageFetcherTruncatesOnRuneBoundary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(strings.Repeat("€", maxPageChars)))
	}))
	defer srv.Close()

	text, err := NewPageFetcher(5*time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(text))
	assert.LessOrEqual(t, len(text), maxPageChars)
	assert.Equal(t, maxPageChars/3, utf8.RuneCountInString(text))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab", truncate("abé", 3))
	assert.Equal(t, "abé", truncate("abéd", 4))
	assert.Equal(t, "", truncate("€", 2))
}

func TestPageFetcherHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewPageFetcher(10*time.Second).Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
