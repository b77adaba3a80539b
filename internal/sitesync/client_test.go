package sitesync

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"sitecms/internal/model"
)

// fakeEndpoint mimics the persistence endpoint: GET serves the stored body or the
// new_system sentinel, POST stores the body unless failSave is set.
type fakeEndpoint struct {
	mu        sync.Mutex
	stored    []byte
	failSave  bool
	gets      atomic.Int32
	lastQuery url.Values
	leads     [][]byte
}

func (f *fakeEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		f.gets.Add(1)
		f.lastQuery = r.URL.Query()
		if f.stored == nil {
			io.WriteString(w, `{"status":"new_system"}`)
			return
		}
		w.Write(f.stored)
	case http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		var obj map[string]any
		if json.Unmarshal(body, &obj) != nil {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":"Invalid JSON input"}`)
			return
		}
		if model.IsLeadEvent(obj) {
			f.leads = append(f.leads, body)
			io.WriteString(w, `{"status":"lead_logged"}`)
			return
		}
		if f.failSave {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"error":"Failed to write to file. Check folder permissions."}`)
			return
		}
		f.stored = body
		io.WriteString(w, `{"status":"success","message":"Data synchronized with cloud"}`)
	}
}

func (f *fakeEndpoint) snapshot() (stored []byte, query url.Values, leads [][]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored, f.lastQuery, f.leads
}

func (f *fakeEndpoint) set(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = []byte(body)
}

func newTestClient(t *testing.T, endpoint string, cache Cache, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithCache(cache), WithHTTPClient(&http.Client{})}, opts...)
	c, err := New(Config{Endpoint: endpoint, Timeout: 500 * time.Millisecond}, opts...)
	require.NoError(t, err)
	return c
}

// deadEndpoint returns the URL of a server that no longer accepts connections.
func deadEndpoint() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL + "/api/data"
	srv.Close()
	return u
}

func cachedDoc(t *testing.T, cache Cache) (model.SiteContent, bool) {
	t.Helper()
	b, ok, err := cache.Get(context.Background(), defaultCacheKey)
	require.NoError(t, err)
	if !ok {
		return model.SiteContent{}, false
	}
	var doc model.SiteContent
	require.NoError(t, json.Unmarshal(b, &doc))
	return doc, true
}

var equateEmpty = cmpopts.EquateEmpty()

func TestNew(t *testing.T) {
	_, err := New(Config{Endpoint: "not a url"})
	assert.Error(t, err)

	c, err := New(Config{Endpoint: "http://localhost/api/data"})
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, c.timeout)
	assert.Equal(t, defaultCacheKey, c.cacheKey)
}

func TestLoad_ReconcilesServerDocument(t *testing.T) {
	ep := &fakeEndpoint{}
	ep.set(`{"hero":{"headline":"From server"},"projects":[{"id":"s1","title":"Server","category":"Law","image":"","techStack":[],"liveLink":""}]}`)
	srv := httptest.NewServer(ep)
	defer srv.Close()

	cache := NewMemoryCache()
	c := newTestClient(t, srv.URL+"/api/data", cache)

	got := c.Load(context.Background())

	defaults := model.DefaultSiteContent()
	assert.Equal(t, "From server", got.Hero.Headline)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, "s1", got.Projects[0].ID)
	assert.Equal(t, defaults.About, got.About)
	assert.Equal(t, defaults.Categories, got.Categories)
	assert.NotNil(t, got.Experiences)
	assert.NotNil(t, got.Niches)

	cached, ok := cachedDoc(t, cache)
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(got, cached, equateEmpty))
}

func TestLoad_AppendsCacheBuster(t *testing.T) {
	ep := &fakeEndpoint{}
	srv := httptest.NewServer(ep)
	defer srv.Close()

	now := time.UnixMilli(1700000000123)
	c := newTestClient(t, srv.URL+"/api/data?site=main", NewMemoryCache(), WithClock(func() time.Time { return now }))
	c.Load(context.Background())

	_, query, _ := ep.snapshot()
	require.NotNil(t, query)
	assert.Equal(t, "1700000000123", query.Get("t"))
	assert.Equal(t, "main", query.Get("site"))
}

func TestLoad_FallbackChain(t *testing.T) {
	t.Run("network down with cache returns cache", func(t *testing.T) {
		cache := NewMemoryCache()
		want := model.DefaultSiteContent()
		want.Hero.Headline = "Cached"
		b, _ := json.Marshal(want)
		require.NoError(t, cache.Put(context.Background(), defaultCacheKey, b))

		c := newTestClient(t, deadEndpoint(), cache)
		got := c.Load(context.Background())

		assert.Empty(t, cmp.Diff(want, got, equateEmpty))
	})

	t.Run("network down without cache returns defaults", func(t *testing.T) {
		c := newTestClient(t, deadEndpoint(), NewMemoryCache())
		got := c.Load(context.Background())

		assert.Empty(t, cmp.Diff(model.DefaultSiteContent(), got))
	})

	t.Run("corrupt cache entry falls through to defaults", func(t *testing.T) {
		cache := NewMemoryCache()
		require.NoError(t, cache.Put(context.Background(), defaultCacheKey, []byte("{not json")))

		core, logs := observer.New(zapcore.WarnLevel)
		c := newTestClient(t, deadEndpoint(), cache, WithLogger(zap.New(core)))
		got := c.Load(context.Background())

		assert.Empty(t, cmp.Diff(model.DefaultSiteContent(), got))
		assert.Equal(t, 1, logs.FilterMessage("cache_entry_corrupt").Len())
	})
}

func TestLoadWithSource(t *testing.T) {
	ep := &fakeEndpoint{}
	ep.set(`{"hero":{"headline":"Live"}}`)
	srv := httptest.NewServer(ep)
	defer srv.Close()

	cache := NewMemoryCache()
	doc, src := newTestClient(t, srv.URL, cache).LoadWithSource(context.Background())
	assert.Equal(t, SourceNetwork, src)
	assert.Equal(t, "Live", doc.Hero.Headline)

	doc, src = newTestClient(t, deadEndpoint(), cache).LoadWithSource(context.Background())
	assert.Equal(t, SourceCache, src)
	assert.Equal(t, "Live", doc.Hero.Headline)

	doc, src = newTestClient(t, deadEndpoint(), NewMemoryCache()).LoadWithSource(context.Background())
	assert.Equal(t, SourceDefaults, src)
	assert.Empty(t, cmp.Diff(model.DefaultSiteContent(), doc))
}

func TestLoad_FailureModes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				io.WriteString(w, `{"hero":{"headline":"ignored"}}`)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `<html>oops</html>`)
			},
		},
		{
			name: "json array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `[1,2,3]`)
			},
		},
		{
			name: "json null",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `null`)
			},
		},
		{
			name: "error marker",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"error":"disk on fire","hero":{"headline":"ignored"}}`)
			},
		},
		{
			name: "no content keys",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"unexpected":true}`)
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			cache := NewMemoryCache()
			want := model.DefaultSiteContent()
			want.Hero.Headline = "Cached " + tc.name
			b, _ := json.Marshal(want)
			require.NoError(t, cache.Put(context.Background(), defaultCacheKey, b))

			c, err := New(Config{Endpoint: srv.URL, Timeout: 100 * time.Millisecond},
				WithCache(cache), WithHTTPClient(&http.Client{}))
			require.NoError(t, err)

			start := time.Now()
			got := c.Load(context.Background())

			assert.Less(t, time.Since(start), time.Second)
			assert.Empty(t, cmp.Diff(want, got, equateEmpty))

			after, _ := cachedDoc(t, cache)
			assert.Empty(t, cmp.Diff(want, after, equateEmpty), "a failed load must not rewrite the cache")
		})
	}
}

func TestLoad_NewSystem(t *testing.T) {
	ep := &fakeEndpoint{}
	srv := httptest.NewServer(ep)
	defer srv.Close()

	t.Run("cold cache substitutes full defaults", func(t *testing.T) {
		cache := NewMemoryCache()
		c := newTestClient(t, srv.URL, cache)

		got := c.Load(context.Background())

		assert.Empty(t, cmp.Diff(model.DefaultSiteContent(), got))
		_, ok := cachedDoc(t, cache)
		assert.False(t, ok)
	})

	t.Run("warm cache wins over defaults", func(t *testing.T) {
		cache := NewMemoryCache()
		want := model.DefaultSiteContent()
		want.Categories = []string{"Cached"}
		b, _ := json.Marshal(want)
		require.NoError(t, cache.Put(context.Background(), defaultCacheKey, b))

		c := newTestClient(t, srv.URL, cache)
		got := c.Load(context.Background())

		assert.Equal(t, []string{"Cached"}, got.Categories)
	})
}

func TestLoad_CustomDefaults(t *testing.T) {
	custom := model.SiteContent{Categories: []string{"Custom"}}
	c := newTestClient(t, deadEndpoint(), NewMemoryCache(), WithDefaults(func() model.SiteContent { return custom.Clone() }))

	got := c.Load(context.Background())
	assert.Equal(t, []string{"Custom"}, got.Categories)
}

func TestSave(t *testing.T) {
	t.Run("failure leaves cache untouched", func(t *testing.T) {
		ep := &fakeEndpoint{failSave: true}
		srv := httptest.NewServer(ep)
		defer srv.Close()

		cache := NewMemoryCache()
		before := []byte(`{"hero":{"headline":"before"}}`)
		require.NoError(t, cache.Put(context.Background(), defaultCacheKey, before))

		c := newTestClient(t, srv.URL, cache)
		doc := model.DefaultSiteContent()
		doc.Hero.Headline = "after"

		err := c.Save(context.Background(), doc)

		var se *ServerError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
		assert.Equal(t, "Failed to write to file. Check folder permissions.", se.Message)

		after, _, err := cache.Get(context.Background(), defaultCacheKey)
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})

	t.Run("failure without cache entry leaves it absent", func(t *testing.T) {
		ep := &fakeEndpoint{failSave: true}
		srv := httptest.NewServer(ep)
		defer srv.Close()

		cache := NewMemoryCache()
		c := newTestClient(t, srv.URL, cache)

		require.Error(t, c.Save(context.Background(), model.DefaultSiteContent()))
		_, ok := cachedDoc(t, cache)
		assert.False(t, ok)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		cache := NewMemoryCache()
		c := newTestClient(t, deadEndpoint(), cache)

		assert.Error(t, c.Save(context.Background(), model.DefaultSiteContent()))
		_, ok := cachedDoc(t, cache)
		assert.False(t, ok)
	})

	t.Run("success then offline load returns saved document", func(t *testing.T) {
		ep := &fakeEndpoint{}
		srv := httptest.NewServer(ep)

		cache := NewMemoryCache()
		c := newTestClient(t, srv.URL, cache)
		doc := model.DefaultSiteContent()
		doc.Hero.Headline = "Saved"
		doc.Niches = append(doc.Niches, model.Niche{ID: "n1", Title: "Legal"})

		require.NoError(t, c.Save(context.Background(), doc))
		srv.Close()

		got := c.Load(context.Background())
		assert.Empty(t, cmp.Diff(doc, got, equateEmpty))
		assert.Equal(t, int32(0), ep.gets.Load())
	})

	t.Run("single attempt", func(t *testing.T) {
		var posts atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			posts.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL, NewMemoryCache())
		err := c.Save(context.Background(), model.DefaultSiteContent())

		var se *ServerError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "Failed to save on server", se.Message)
		assert.Equal(t, int32(1), posts.Load())
	})

	t.Run("message from error envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"request_id":"r1","error":{"code":"UNAUTHORIZED","message":"valid admin session required"}}`)
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL, NewMemoryCache())
		err := c.Save(context.Background(), model.DefaultSiteContent())
		assert.EqualError(t, err, "sitesync: server returned 401: valid admin session required")
	})

	t.Run("bearer token is forwarded", func(t *testing.T) {
		var auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			io.WriteString(w, `{"status":"success"}`)
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL, NewMemoryCache())
		require.NoError(t, c.Save(WithBearer(context.Background(), "tok"), model.DefaultSiteContent()))
		assert.Equal(t, "Bearer tok", auth)
	})
}

func TestRoundTrip(t *testing.T) {
	ep := &fakeEndpoint{}
	ep.set(`{"hero":{"headline":"Round","subheadline":"trip"},"tracking":{"pixelId":"px","capiToken":"tok-1234"},` +
		`"services":[{"id":"s1","title":"Design","description":"","icon":"","features":[]},{"id":"s2","title":"Build","description":"","icon":""}]}`)
	srv := httptest.NewServer(ep)
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryCache())

	first := c.Load(context.Background())
	require.NoError(t, c.Save(context.Background(), first))
	second := c.Load(context.Background())

	assert.Empty(t, cmp.Diff(first, second))
	require.Len(t, second.Services, 2)
	assert.NotNil(t, second.Services[0].Features)
	assert.Nil(t, second.Services[1].Features)
	require.NotNil(t, second.Tracking)
	assert.Equal(t, "tok-1234", second.Tracking.CapiToken)
}

func TestNotifyLead(t *testing.T) {
	t.Run("posts a tagged payload", func(t *testing.T) {
		ep := &fakeEndpoint{}
		srv := httptest.NewServer(ep)
		defer srv.Close()

		now := time.Unix(1700000000, 0)
		c := newTestClient(t, srv.URL, NewMemoryCache(), WithClock(func() time.Time { return now }))
		c.NotifyLead(context.Background(), "Ann", "ann@example.com")

		stored, _, leads := ep.snapshot()
		require.Len(t, leads, 1)
		var ev model.LeadEvent
		require.NoError(t, json.Unmarshal(leads[0], &ev))
		assert.Equal(t, model.LeadEvent{
			ActionType: model.LeadEventAction,
			Name:       "Ann",
			Email:      "ann@example.com",
			EventTime:  1700000000,
		}, ev)
		assert.Nil(t, stored, "lead events never touch the document")
	})

	t.Run("unreachable endpoint is swallowed", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		c := newTestClient(t, deadEndpoint(), NewMemoryCache(), WithLogger(zap.New(core)))

		assert.NotPanics(t, func() {
			c.NotifyLead(context.Background(), "Ann", "ann@example.com")
		})
		require.Equal(t, 1, logs.FilterMessage("lead_event_failed").Len())
		for _, f := range logs.All()[0].Context {
			assert.NotEqual(t, "ann@example.com", f.String)
		}
	})

	t.Run("slow endpoint is bounded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL, NewMemoryCache(), WithLeadTimeout(50*time.Millisecond))
		start := time.Now()
		c.NotifyLead(context.Background(), "Ann", "ann@example.com")
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := newTestClient(t, "http://127.0.0.1:1/api/data", NewMemoryCache())
		c.NotifyLead(ctx, "", "")
	})
}

func TestServerError(t *testing.T) {
	err := error(&ServerError{StatusCode: 500, Message: "nope"})
	var se *ServerError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "sitesync: server returned 500: nope", err.Error())
}
