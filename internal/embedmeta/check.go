package embedmeta

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/embed"
	"github.com/NDLANO/editorcore/pkg/document/plugins"
)

// Result is the outcome of checking one embed. Files are probed;
// everything else with a lookup gets Metadata.
type Result struct {
	Path     document.Path
	ID       string
	Resource embed.Resource
	URL      string
	Metadata *Metadata
	Err      error
}

type job struct {
	result Result
	embed  embed.Embed
}

// Check probes every file of the tree's file lists and looks up the
// metadata of every embed that has a lookup, at most Concurrency at a
// time. The returned error combines the failures; the results are in
// document order either way.
func (c *Client) Check(ctx context.Context, tree *document.Tree) ([]Result, error) {
	jobs := collect(tree)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i := range jobs {
		j := &jobs[i]
		g.Go(func() error {
			if j.embed == nil {
				j.result.Err = c.Probe(ctx, j.result.URL)
			} else {
				j.result.Metadata, j.result.Err = c.Lookup(ctx, j.embed)
			}
			if j.result.Err != nil {
				c.logger.Debug("embed check failed", zap.Stringer("path", j.result.Path), zap.Error(j.result.Err))
			}
			// Failures stay in the result; the group is never cancelled.
			return nil
		})
	}
	_ = g.Wait()

	var (
		results = make([]Result, 0, len(jobs))
		err     error
	)
	for _, j := range jobs {
		results = append(results, j.result)
		err = multierr.Append(err, j.result.Err)
	}
	return results, err
}

func collect(tree *document.Tree) []job {
	var jobs []job
	document.Walk(tree.Root, func(n document.Node, path document.Path) bool {
		el, ok := n.(*document.Element)
		if !ok {
			return false
		}
		switch data := el.Data.(type) {
		case *plugins.FileListData:
			for _, f := range data.Files {
				jobs = append(jobs, job{result: Result{
					Path:     path.Copy(),
					ID:       el.ID,
					Resource: embed.ResourceFile,
					URL:      f.URL,
				}})
			}
		case *embed.External, *embed.Iframe, *embed.Brightcove:
			e := data.(embed.Embed)
			url, _ := embed.Get(e, "url")
			jobs = append(jobs, job{
				result: Result{Path: path.Copy(), ID: el.ID, Resource: e.Resource(), URL: url},
				embed:  e,
			})
		}
		return true
	})
	return jobs
}
