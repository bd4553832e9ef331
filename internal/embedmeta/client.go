// Package embedmeta looks up metadata for embeds and checks that file
// embeds point at reachable files. Results are advisory: they are shown
// to authors and never block editing.
package embedmeta

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/NDLANO/editorcore/internal/lru"
	"github.com/NDLANO/editorcore/pkg/document/embed"
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrUnsupported = errors.New("no metadata lookup for resource")
)

type Options struct {
	Timeout     time.Duration `yaml:"timeout"`
	Retries     int           `yaml:"retries" validate:"gte=0,lte=10"`
	RetryWait   time.Duration `yaml:"retryWait"`
	Concurrency int           `yaml:"concurrency" validate:"gte=0"`
	CacheSize   int           `yaml:"cacheSize" validate:"gte=0"`
	// OEmbedEndpoint answers ?url=...&format=json for external and
	// iframe embeds.
	OEmbedEndpoint string `yaml:"oembedEndpoint" validate:"omitempty,url"`
	// BrightcoveEndpoint is the playback API base URL.
	BrightcoveEndpoint string `yaml:"brightcoveEndpoint" validate:"omitempty,url"`
	BrightcovePolicy   string `yaml:"brightcovePolicy"`
}

func DefaultOptions() Options {
	return Options{
		Timeout:            10 * time.Second,
		Retries:            3,
		RetryWait:          500 * time.Millisecond,
		Concurrency:        4,
		CacheSize:          256,
		OEmbedEndpoint:     "https://noembed.com/embed",
		BrightcoveEndpoint: "https://edge.api.brightcove.com/playback/v1",
	}
}

// Metadata describes an embedded resource.
type Metadata struct {
	Title        string        `json:"title,omitempty"`
	AuthorName   string        `json:"author_name,omitempty"`
	ProviderName string        `json:"provider_name,omitempty"`
	ThumbnailURL string        `json:"thumbnail_url,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
}

type Client struct {
	http   *retryablehttp.Client
	opts   Options
	cache  *lru.Cache[string, *Metadata]
	logger *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	cl := retryablehttp.NewClient()
	cl.RetryMax = opts.Retries
	if opts.RetryWait > 0 {
		cl.RetryWaitMin = opts.RetryWait
		cl.RetryWaitMax = 4 * opts.RetryWait
	}
	cl.HTTPClient.Timeout = opts.Timeout
	cl.Logger = leveledLogger{logger.Sugar()}

	return &Client{
		http:   cl,
		opts:   opts,
		cache:  lru.NewCache[string, *Metadata](opts.CacheSize),
		logger: logger,
	}
}

// Probe sends a HEAD request to rawURL and reports ErrNotFound for any
// non-2xx answer.
func (c *Client) Probe(ctx context.Context, rawURL string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return errors.Wrapf(err, "invalid url %q", rawURL)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to probe %q", rawURL)
	}
	_ = resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Wrapf(ErrNotFound, "%s: %s", rawURL, resp.Status)
	}
	return nil
}

// Lookup returns the metadata of e. Answers are cached by resource and
// address.
func (c *Client) Lookup(ctx context.Context, e embed.Embed) (*Metadata, error) {
	switch e := e.(type) {
	case *embed.External:
		return c.cached("oembed:"+e.URL, func() (*Metadata, error) { return c.oembed(ctx, e.URL) })
	case *embed.Iframe:
		return c.cached("oembed:"+e.URL, func() (*Metadata, error) { return c.oembed(ctx, e.URL) })
	case *embed.Brightcove:
		key := "brightcove:" + e.Account + "/" + e.VideoID
		return c.cached(key, func() (*Metadata, error) { return c.brightcove(ctx, e) })
	}
	return nil, errors.Wrapf(ErrUnsupported, "%q", e.Resource())
}

func (c *Client) cached(key string, fetch func() (*Metadata, error)) (*Metadata, error) {
	return c.cache.GetOrCreate(key, func() (*Metadata, error) {
		c.logger.Debug("fetching embed metadata", zap.String("key", key))
		return fetch()
	})
}

func (c *Client) oembed(ctx context.Context, target string) (*Metadata, error) {
	if c.opts.OEmbedEndpoint == "" {
		return nil, errors.Wrap(ErrUnsupported, "no oEmbed endpoint configured")
	}
	u, err := url.Parse(c.opts.OEmbedEndpoint)
	if err != nil {
		return nil, errors.Wrap(err, "invalid oEmbed endpoint")
	}
	q := u.Query()
	q.Set("url", target)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	var result Metadata
	if err := c.getJSON(ctx, u.String(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type brightcoveVideo struct {
	Name     string `json:"name"`
	Poster   string `json:"poster"`
	Duration int64  `json:"duration"`
}

func (c *Client) brightcove(ctx context.Context, e *embed.Brightcove) (*Metadata, error) {
	if c.opts.BrightcoveEndpoint == "" {
		return nil, errors.Wrap(ErrUnsupported, "no Brightcove endpoint configured")
	}
	endpoint, err := url.JoinPath(c.opts.BrightcoveEndpoint, "accounts", e.Account, "videos", e.VideoID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid Brightcove endpoint")
	}
	header := http.Header{}
	if c.opts.BrightcovePolicy != "" {
		header.Set("Accept", "application/json;pk="+c.opts.BrightcovePolicy)
	}

	var video brightcoveVideo
	if err := c.getJSON(ctx, endpoint, header, &video); err != nil {
		return nil, err
	}
	return &Metadata{
		Title:        video.Name,
		ProviderName: "Brightcove",
		ThumbnailURL: video.Poster,
		Duration:     time.Duration(video.Duration) * time.Millisecond,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, target string, header http.Header, v any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errors.Wrapf(err, "invalid url %q", target)
	}
	for key, values := range header {
		req.Header[key] = values
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to get %q", target)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return errors.Wrapf(ErrNotFound, "%s", target)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("unexpected status %s from %q", resp.Status, target)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read body")
	}
	return errors.Wrap(json.Unmarshal(data, v), "failed to decode metadata")
}

// leveledLogger adapts zap to retryablehttp's logger interface.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...any)  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
