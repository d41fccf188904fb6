package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/model"
	"github.com/goliatone/go-lotse/pkg/orchestrator"
	"github.com/goliatone/go-lotse/pkg/render"
)

const snapshotRendererName = "page-model-snapshot"

type snapshotRenderer struct {
	path string
}

func (r *snapshotRenderer) Name() string {
	return snapshotRendererName
}

func (r *snapshotRenderer) ContentType() string {
	return "application/json"
}

func (r *snapshotRenderer) Render(_ context.Context, page model.Page, opts render.RenderOptions) ([]byte, error) {
	page = render.Prepare(page, opts)
	payload, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(r.path, payload, 0o644); err != nil {
		return nil, err
	}
	return payload, nil
}

func main() {
	var (
		answersPath = flag.String("answers", "pkg/testsupport/testdata/married_couple.yaml", "answers fixture")
		step        = flag.String("step", "familienstand", "step to snapshot")
		outputPath  = flag.String("output", "", "output path for the serialized page (default <step>_page.json)")
		statesPath  = flag.String("states", "", "also write the field states of the step to this path")
	)
	flag.Parse()

	if *outputPath == "" {
		*outputPath = *step + "_page.json"
	}

	ctx := context.Background()
	values, err := answers.LoadFile(*answersPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load answers: %v\n", err)
		os.Exit(1)
	}

	registry := render.NewRegistry()
	registry.MustRegister(&snapshotRenderer{path: *outputPath})
	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(snapshotRendererName),
	)

	page, decision, err := orch.Show(ctx, *step, values)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build page: %v\n", err)
		os.Exit(1)
	}
	if !decision.Allowed {
		fmt.Fprintf(os.Stderr, "note: %s redirects to %s (%s)\n", *step, decision.Step, decision.Reason)
	}
	if _, err := orch.Render(ctx, page, snapshotRendererName, render.RenderOptions{}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to snapshot page: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Wrote page snapshot to %s\n", *outputPath)

	if *statesPath == "" {
		return
	}
	states, err := orch.Visibility(ctx, decision.Step, values)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to evaluate states: %v\n", err)
		os.Exit(1)
	}
	payload, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode states: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*statesPath, payload, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write states: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Wrote field states to %s\n", *statesPath)
}
