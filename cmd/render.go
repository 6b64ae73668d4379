// -- cmd/render.go --
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xantheum/reflow/api/schemas"
	"github.com/xantheum/reflow/internal/css"
	"github.com/xantheum/reflow/internal/dom"
	"github.com/xantheum/reflow/internal/observability"
	"github.com/xantheum/reflow/internal/pipeline"
)

// newRenderCommand creates and configures the `render` command.
func newRenderCommand() *cobra.Command {
	var (
		cssFile        string
		outFile        string
		viewportWidth  float64
		viewportHeight float64
	)

	renderCmd := &cobra.Command{
		Use:   "render [documents...]",
		Short: "Computes the box tree for one or more HTML documents",
		Long: `Render parses each HTML document, resolves its styles against the
given stylesheet plus any inline <style> elements, runs block layout
against the configured viewport, and emits the box tree as JSON.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg := configFromContext(ctx)
			if cmd.Flags().Changed("viewport-width") {
				cfg.Render.ViewportWidth = viewportWidth
			}
			if cmd.Flags().Changed("viewport-height") {
				cfg.Render.ViewportHeight = viewportHeight
			}

			var external *css.Stylesheet
			if cssFile != "" {
				data, err := os.ReadFile(cssFile)
				if err != nil {
					return fmt.Errorf("reading stylesheet %s: %w", cssFile, err)
				}
				external, err = css.Parse(string(data))
				if err != nil {
					return fmt.Errorf("parsing stylesheet %s: %w", cssFile, err)
				}
			}

			jobs, err := loadJobs(args, external)
			if err != nil {
				return err
			}

			runID := uuid.New().String()
			logger.Info("Starting render",
				zap.String("runID", runID),
				zap.Int("documents", len(jobs)),
				zap.Float64("viewport_width", cfg.Render.ViewportWidth),
			)

			p := pipeline.New(cfg.Render, logger)
			results, err := p.RenderAll(ctx, jobs)
			if err != nil {
				return fmt.Errorf("rendering failed: %w", err)
			}

			return writeSnapshots(results, outFile)
		},
	}

	renderCmd.Flags().StringVar(&cssFile, "css", "", "external stylesheet applied to every document")
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "write JSON output to a file instead of stdout")
	renderCmd.Flags().Float64Var(&viewportWidth, "viewport-width", 800, "viewport width in pixels")
	renderCmd.Flags().Float64Var(&viewportHeight, "viewport-height", 600, "viewport height in pixels")
	return renderCmd
}

// loadJobs parses every document and assembles its effective
// stylesheet: external rules first, then the document's own <style>
// elements, so inline rules win source-order ties.
func loadJobs(paths []string, external *css.Stylesheet) ([]pipeline.Job, error) {
	jobs := make([]pipeline.Job, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening document %s: %w", path, err)
		}
		doc, err := dom.ParseHTML(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing document %s: %w", path, err)
		}

		sheet := &css.Stylesheet{}
		if external != nil {
			sheet.Rules = append(sheet.Rules, external.Rules...)
		}
		for _, text := range dom.StyleText(doc) {
			inline, err := css.Parse(text)
			if err != nil {
				return nil, fmt.Errorf("parsing <style> in %s: %w", path, err)
			}
			sheet.Rules = append(sheet.Rules, inline.Rules...)
		}

		jobs = append(jobs, pipeline.Job{
			Name:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Doc:   doc,
			Sheet: sheet,
		})
	}
	return jobs, nil
}

// writeSnapshots serializes each result. A single document goes to the
// named file (or stdout) as one object; multiple documents become a
// JSON array.
func writeSnapshots(results []pipeline.Result, outFile string) error {
	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("creating output file %s: %w", outFile, err)
		}
		defer f.Close()
		out = f
	}

	if len(results) == 1 {
		return schemas.Snapshot(results[0].Root).Encode(out)
	}

	if _, err := fmt.Fprintln(out, "["); err != nil {
		return err
	}
	for i, res := range results {
		if err := schemas.Snapshot(res.Root).Encode(out); err != nil {
			return fmt.Errorf("encoding snapshot for %s: %w", res.Name, err)
		}
		if i < len(results)-1 {
			if _, err := fmt.Fprintln(out, ","); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(out, "]")
	return err
}
