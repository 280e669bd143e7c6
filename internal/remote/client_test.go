package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seelkers/favsearch/internal/errors"
)

const testKey = "abcdefghijklmnopqrstuvwxyzABCDEF"

func TestValidKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"valid mixed case", testKey, true},
		{"valid digits", "0123456789012345678901234567890A", true},
		{"empty", "", false},
		{"too short", "abc", false},
		{"too long", testKey + "x", false},
		{"punctuation", "abcdefghijklmnopqrstuvwxyzABCDE!", false},
		{"whitespace", "abcdefghijklmnopqrstuvwxyzABCDE ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidKey(tt.key))
		})
	}
}

func TestGenerateKey(t *testing.T) {
	a, err := GenerateKey()
	require.NoError(t, err)
	b, err := GenerateKey()
	require.NoError(t, err)

	assert.True(t, ValidKey(a))
	assert.True(t, ValidKey(b))
	assert.NotEqual(t, a, b, "keys must be random")
}

func TestSubmit_PostsToKeyedPath(t *testing.T) {
	var got SubmitRequest
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Key: testKey})
	err := c.Submit(context.Background(), SubmitRequest{
		Names:     []string{"a", "b"},
		MediaSrcs: []string{"https://media.tenor.co/a.gif", "https://media.tenor.co/b.gif"},
		Models:    []string{"clip"},
	})

	require.NoError(t, err)
	assert.Equal(t, "/"+testKey+"/index", gotPath)
	assert.Equal(t, []string{"a", "b"}, got.Names)
	assert.Equal(t, []string{"clip"}, got.Models)
}

func TestSubmit_NonSuccessStatusIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Key: testKey})
	err := c.Submit(context.Background(), SubmitRequest{Names: []string{"a"}})

	require.Error(t, err)
	assert.True(t, errors.IsRetryable(err))
}

func TestKeyedCalls_SuppressedWithoutValidKey(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Key: "not-a-key"})
	assert.False(t, c.Configured())

	err := c.Submit(context.Background(), SubmitRequest{Names: []string{"a"}})
	assert.True(t, errors.IsNotConfigured(err))

	_, err = c.Search(context.Background(), "cat", SearchOptions{})
	assert.True(t, errors.IsNotConfigured(err))

	_, err = c.StatusCounts(context.Background())
	assert.True(t, errors.IsNotConfigured(err))

	assert.Equal(t, int64(0), hits.Load(), "an unconfigured client must not touch the wire")
}

func TestSearch_ParsesRankedTuples(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/"+testKey+"/search", r.URL.Path)
		require.Equal(t, "cat", r.URL.Query().Get("text"))
		require.Equal(t, "clip,siglip", r.URL.Query().Get("models"))
		require.Equal(t, "10", r.URL.Query().Get("k"))
		_, _ = w.Write([]byte(`{"results":{
			"clip":   [["https://media.tenor.co/a.gif", 0.12], ["https://media.tenor.co/b.gif", 0.34]],
			"siglip": [["https://media.tenor.co/b.gif", 0.56]]
		}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Key: testKey})
	resp, err := c.Search(context.Background(), "cat", SearchOptions{
		Models: []string{"clip", "siglip"},
		Limit:  10,
	})

	require.NoError(t, err)
	require.Len(t, resp.Results["clip"], 2)
	assert.Equal(t, "https://media.tenor.co/a.gif", resp.Results["clip"][0].Locator)
	assert.InDelta(t, 0.12, resp.Results["clip"][0].Score, 1e-9)
	require.Len(t, resp.Results["siglip"], 1)
}

func TestSearch_CachesRepeatedQueries(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"results":{"clip":[["https://media.tenor.co/a.gif", 0.1]]}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Key: testKey})
	opts := SearchOptions{Models: []string{"clip"}}

	_, err := c.Search(context.Background(), "cat", opts)
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "cat", opts)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits.Load(), "second identical query should come from cache")

	// Different options miss the cache.
	_, err = c.Search(context.Background(), "cat", SearchOptions{Models: []string{"clip"}, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())
}

func TestSubmit_PurgesSearchCache(t *testing.T) {
	var searches atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/search") {
			searches.Add(1)
			_, _ = w.Write([]byte(`{"results":{}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Key: testKey})

	_, err := c.Search(context.Background(), "cat", SearchOptions{})
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "cat", SearchOptions{})
	require.NoError(t, err)
	require.Equal(t, int64(1), searches.Load())

	// A submission changes the index; the stale ranking must be refetched.
	require.NoError(t, c.Submit(context.Background(), SubmitRequest{Names: []string{"a"}}))

	_, err = c.Search(context.Background(), "cat", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), searches.Load())
}

func TestSearch_MalformedBodyIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": "oops"`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Key: testKey})
	_, err := c.Search(context.Background(), "cat", SearchOptions{})

	require.Error(t, err)
	assert.True(t, errors.IsRetryable(err))
}

func TestSearch_CancelledContextIsCancelled(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Key: testKey})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.Search(ctx, "cat", SearchOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsCancelled(err), "supersession must not read as an outage")
}

func TestModels_FetchesCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"clip": 1.0, "siglip": 0.5}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Key: testKey})
	models, err := c.Models(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"clip": 1.0, "siglip": 0.5}, models)
}

func TestStatusCounts_ParsesArrayForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/"+testKey+"/statuscounts", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"processing","counts":{"clip":[1,2,3,40]}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Key: testKey})
	st, err := c.StatusCounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "processing", st.Status)
	counts := st.Counts["clip"]
	assert.Equal(t, 1, counts.Failed)
	assert.Equal(t, 2, counts.Downloading)
	assert.Equal(t, 3, counts.Processing)
	assert.Equal(t, 40, counts.Completed)
	assert.Equal(t, 46, counts.Total())
}

func TestScoredLocator_RoundTrip(t *testing.T) {
	in := ScoredLocator{Locator: "https://media.tenor.co/a.gif", Score: 0.25}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `["https://media.tenor.co/a.gif", 0.25]`, string(data))

	var out ScoredLocator
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestScoredLocator_RejectsShortTuple(t *testing.T) {
	var s ScoredLocator
	err := json.Unmarshal([]byte(`["only-locator"]`), &s)
	assert.Error(t, err)
}
