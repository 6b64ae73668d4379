// File: internal/pipeline/pipeline.go

// Package pipeline drives a document and a stylesheet through style
// resolution and block layout.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xantheum/reflow/internal/config"
	"github.com/xantheum/reflow/internal/css"
	"github.com/xantheum/reflow/internal/dom"
	"github.com/xantheum/reflow/internal/layout"
	"github.com/xantheum/reflow/internal/style"
)

// Job names one document/stylesheet pair to render.
type Job struct {
	Name  string
	Doc   *dom.Node
	Sheet *css.Stylesheet
}

// Result pairs a job name with its laid-out box tree.
type Result struct {
	Name string
	Root *layout.LayoutBox
}

// Pipeline renders documents against a fixed viewport.
type Pipeline struct {
	cfg config.RenderConfig
	log *zap.Logger
}

// New builds a pipeline. A nil logger is replaced with a no-op one.
func New(cfg config.RenderConfig, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, log: log.Named("pipeline")}
}

// Render runs the full sequence for one document: styled tree, box
// tree, block layout against the configured viewport. The returned
// root has fully resolved geometry.
func (p *Pipeline) Render(doc *dom.Node, sheet *css.Stylesheet) (*layout.LayoutBox, error) {
	start := time.Now()

	styled := style.Tree(doc, sheet)
	root, err := layout.BuildLayoutTree(styled)
	if err != nil {
		return nil, fmt.Errorf("building layout tree: %w", err)
	}

	// The viewport starts with zero content height: layout positions
	// each block below the height accumulated so far, and the root sits
	// at the top.
	viewport := layout.Dimensions{
		Content: layout.Rect{
			Width:  p.cfg.ViewportWidth,
			Height: 0,
		},
	}
	if err := root.Layout(viewport); err != nil {
		return nil, fmt.Errorf("laying out document: %w", err)
	}

	p.log.Debug("Document rendered",
		zap.Int("boxes", countBoxes(root)),
		zap.Float64("viewport_width", p.cfg.ViewportWidth),
		zap.Duration("elapsed", time.Since(start)),
	)
	return root, nil
}

// RenderAll lays out several jobs concurrently, one independent tree
// per job. The first failure cancels the remaining work.
func (p *Pipeline) RenderAll(ctx context.Context, jobs []Job) ([]Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.Concurrency, 1))

	results := make([]Result, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			root, err := p.Render(job.Doc, job.Sheet)
			if err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
			results[i] = Result{Name: job.Name, Root: root}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func countBoxes(lb *layout.LayoutBox) int {
	n := 1
	for _, child := range lb.Children {
		n += countBoxes(child)
	}
	return n
}
