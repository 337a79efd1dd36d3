package reviews

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimaudit/internal/util"
	"github.com/ppiankov/claimaudit/internal/worker"
)

const testUA = "Mozilla/5.0 (compatible; claimaudit-test)"

func newReviewServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	})
	mux.HandleFunc("/reviews", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != testUA {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte("<html><body>reviews page</body></html>"))
	})
	mux.HandleFunc("/private/reviews", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("secret"))
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetcher_Fetch(t *testing.T) {
	server := newReviewServer(t)
	robots := util.NewRobotsChecker(testUA, 5*time.Second, nil)
	f := NewFetcher(5*time.Second, testUA, 0, worker.NewThrottle(0), robots, nil)
	ctx := context.Background()

	body, err := f.Fetch(ctx, server.URL+"/reviews")
	require.NoError(t, err)
	assert.Equal(t, "<html><body>reviews page</body></html>", body)

	_, err = f.Fetch(ctx, server.URL+"/private/reviews")
	assert.ErrorIs(t, err, ErrDisallowed)

	_, err = f.Fetch(ctx, server.URL+"/gone")
	assert.ErrorContains(t, err, "unexpected status: 404")

	_, err = f.Fetch(ctx, server.URL+"/loop")
	assert.ErrorContains(t, err, "stopped after 3 redirects")
}

func TestFetcher_NoRobotsAndLimit(t *testing.T) {
	server := newReviewServer(t)
	f := NewFetcher(5*time.Second, testUA, 12, nil, nil, nil)

	body, err := f.Fetch(context.Background(), server.URL+"/private/reviews")
	require.NoError(t, err)
	assert.Equal(t, "secret", body)

	body, err = f.Fetch(context.Background(), server.URL+"/reviews")
	require.NoError(t, err)
	assert.Equal(t, "<html><body>", body)
}

func TestFetcher_Cancelled(t *testing.T) {
	server := newReviewServer(t)
	f := NewFetcher(5*time.Second, testUA, 0, worker.NewThrottle(time.Hour), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Fetch(ctx, server.URL+"/reviews")
	assert.ErrorIs(t, err, context.Canceled)
}
