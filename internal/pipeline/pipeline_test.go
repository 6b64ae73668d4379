// File: internal/pipeline/pipeline_test.go
package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/xantheum/reflow/api/schemas"
	"github.com/xantheum/reflow/internal/config"
	"github.com/xantheum/reflow/internal/css"
	"github.com/xantheum/reflow/internal/dom"
	"github.com/xantheum/reflow/internal/layout"
	"github.com/xantheum/reflow/internal/pipeline"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func renderConfig() config.RenderConfig {
	return config.RenderConfig{ViewportWidth: 800, ViewportHeight: 600, Concurrency: 4}
}

func parseJob(t *testing.T, name, htmlString, cssString string) pipeline.Job {
	t.Helper()
	doc, err := dom.ParseHTML(strings.NewReader(htmlString))
	require.NoError(t, err)
	sheet, err := css.Parse(cssString)
	require.NoError(t, err)
	return pipeline.Job{Name: name, Doc: doc, Sheet: sheet}
}

const testDoc = `<html><body>
	<div id="a" class="box"></div>
	<div id="b" class="box"></div>
</body></html>`

const testCSS = `
	html, body, div { display: block; }
	head { display: none; }
	.box { height: 40px; margin: 10px; }
`

func TestRenderEndToEnd(t *testing.T) {
	job := parseJob(t, "doc", testDoc, testCSS)

	p := pipeline.New(renderConfig(), zap.NewNop())
	root, err := p.Render(job.Doc, job.Sheet)
	require.NoError(t, err)

	dims, err := root.ComputedDimensions()
	require.NoError(t, err)
	assert.Equal(t, 800.0, dims.Content.Width)

	// html > body > two boxes, each 40px tall with 10px margins.
	body := root.Children[0]
	require.Len(t, body.Children, 2)
	assert.Equal(t, 120.0, body.Dimensions.Content.Height)

	b := body.Children[1]
	assert.Equal(t, 70.0, b.Dimensions.Content.Y)
}

func TestRenderRootDisplayNone(t *testing.T) {
	job := parseJob(t, "doc", `<html><body></body></html>`, `html { display: none; }`)

	p := pipeline.New(renderConfig(), nil)
	_, err := p.Render(job.Doc, job.Sheet)
	require.Error(t, err)

	var invErr *layout.InvariantError
	assert.ErrorAs(t, err, &invErr)
}

func TestRenderIsDeterministic(t *testing.T) {
	p := pipeline.New(renderConfig(), zap.NewNop())

	var snapshots []*schemas.BoxNode
	for i := 0; i < 2; i++ {
		job := parseJob(t, "doc", testDoc, testCSS)
		root, err := p.Render(job.Doc, job.Sheet)
		require.NoError(t, err)
		snapshots = append(snapshots, schemas.Snapshot(root))
	}

	diff := cmp.Diff(snapshots[0], snapshots[1],
		cmpopts.IgnoreFields(schemas.BoxNode{}, "ID"))
	assert.Empty(t, diff, "same input must produce the same geometry")
}

func TestRenderAll(t *testing.T) {
	jobs := []pipeline.Job{
		parseJob(t, "one", testDoc, testCSS),
		parseJob(t, "two", `<html><body><div></div></body></html>`, `html, body, div { display: block; } head { display: none; }`),
		parseJob(t, "three", testDoc, testCSS),
	}

	p := pipeline.New(renderConfig(), zap.NewNop())
	results, err := p.RenderAll(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, jobs[i].Name, res.Name, "results keep job order")
		require.NotNil(t, res.Root)
		assert.Equal(t, layout.StateHeightResolved, res.Root.State())
	}
}

func TestRenderAllPropagatesFailure(t *testing.T) {
	jobs := []pipeline.Job{
		parseJob(t, "good", testDoc, testCSS),
		parseJob(t, "bad", `<html><body></body></html>`, `html { display: none; }`),
	}

	p := pipeline.New(renderConfig(), zap.NewNop())
	_, err := p.RenderAll(context.Background(), jobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `job "bad"`)
}

func TestRenderAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []pipeline.Job{parseJob(t, "doc", testDoc, testCSS)}
	p := pipeline.New(renderConfig(), zap.NewNop())

	_, err := p.RenderAll(ctx, jobs)
	assert.ErrorIs(t, err, context.Canceled)
}
