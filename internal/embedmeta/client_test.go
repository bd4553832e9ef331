package embedmeta

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/embed"
	"github.com/NDLANO/editorcore/pkg/document/plugins"
)

type testServer struct {
	*httptest.Server
	oembedCalls atomic.Int32
	flakyCalls  atomic.Int32
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/files/ok.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/files/flaky.pdf", func(w http.ResponseWriter, r *http.Request) {
		if ts.flakyCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/oembed", func(w http.ResponseWriter, r *http.Request) {
		ts.oembedCalls.Add(1)
		if r.URL.Query().Get("format") != "json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"title":"Video for %s","provider_name":"YouTube"}`, r.URL.Query().Get("url"))
	})
	mux.HandleFunc("/playback/accounts/acc/videos/123", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Clip","poster":"https://img/p.jpg","duration":90000}`))
	})
	ts.Server = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(t *testing.T, ts *testServer) *Client {
	t.Helper()
	return New(Options{
		Timeout:            5 * time.Second,
		Retries:            2,
		RetryWait:          time.Millisecond,
		Concurrency:        2,
		CacheSize:          8,
		OEmbedEndpoint:     ts.URL + "/oembed",
		BrightcoveEndpoint: ts.URL + "/playback",
	}, zaptest.NewLogger(t))
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, "https://noembed.com/embed", opts.OEmbedEndpoint)
	assert.Equal(t, "https://edge.api.brightcove.com/playback/v1", opts.BrightcoveEndpoint)
	assert.Equal(t, 4, opts.Concurrency)
}

func TestClient_Probe(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts)
	ctx := context.Background()

	require.NoError(t, c.Probe(ctx, ts.URL+"/files/ok.pdf"))
	require.ErrorIs(t, c.Probe(ctx, ts.URL+"/files/missing.pdf"), ErrNotFound)

	require.NoError(t, c.Probe(ctx, ts.URL+"/files/flaky.pdf"))
	assert.Equal(t, int32(2), ts.flakyCalls.Load())
}

func TestClient_Lookup(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts)
	ctx := context.Background()

	external := &embed.External{URL: "https://www.youtube.com/watch?v=1"}
	for i := 0; i < 2; i++ {
		md, err := c.Lookup(ctx, external)
		require.NoError(t, err)
		assert.Equal(t, "Video for https://www.youtube.com/watch?v=1", md.Title)
		assert.Equal(t, "YouTube", md.ProviderName)
	}
	assert.Equal(t, int32(1), ts.oembedCalls.Load())

	md, err := c.Lookup(ctx, &embed.Brightcove{VideoID: "123", Account: "acc", Player: "p"})
	require.NoError(t, err)
	assert.Equal(t, &Metadata{
		Title:        "Clip",
		ProviderName: "Brightcove",
		ThumbnailURL: "https://img/p.jpg",
		Duration:     90 * time.Second,
	}, md)

	_, err = c.Lookup(ctx, &embed.Image{ResourceID: "1"})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestClient_Check(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts)

	files := document.NewElement(plugins.TypeFileList).WithData(&plugins.FileListData{Files: []*embed.File{
		{Type: "pdf", URL: ts.URL + "/files/ok.pdf", Title: "ok"},
		{Type: "pdf", URL: ts.URL + "/files/missing.pdf", Title: "missing"},
	}})
	video := document.NewElement(plugins.TypeEmbed).WithData(&embed.External{URL: "https://vimeo.com/1"})
	image := document.NewElement(plugins.TypeEmbed).WithData(&embed.Image{ResourceID: "1"})
	tree := document.NewTree(document.NewElement(document.TypeSection, files, video, image))

	results, err := c.Check(context.Background(), tree)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	require.ErrorIs(t, err, ErrNotFound)

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, ErrNotFound)
	assert.Equal(t, document.Path{0, 0}, results[1].Path)
	assert.Equal(t, embed.ResourceExternal, results[2].Resource)
	require.NotNil(t, results[2].Metadata)
	assert.Equal(t, "Video for https://vimeo.com/1", results[2].Metadata.Title)
}
