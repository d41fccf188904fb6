package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/flow"
	"github.com/goliatone/go-lotse/pkg/orchestrator"
	"github.com/goliatone/go-lotse/pkg/render"
	"github.com/goliatone/go-lotse/pkg/renderers/tui"
	"github.com/goliatone/go-lotse/pkg/visibility"
)

func newWizardCmd(a *app) *cobra.Command {
	var answersPath, output, start string
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Walk the wizard on the terminal and write the collected answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stored, err := readAnswers(cmd, answersPath)
			if err != nil {
				return err
			}
			w := &terminalWizard{app: a, values: stored}
			if err := w.run(cmd.Context(), start); err != nil {
				return err
			}

			data, err := yaml.Marshal(w.values.Map())
			if err != nil {
				return fmt.Errorf("wizard: encode answers: %w", err)
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, 0o600)
		},
	}
	cmd.Flags().StringVar(&answersPath, "answers", "", "answers to resume from")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write the answers to (stdout if empty)")
	cmd.Flags().StringVar(&start, "step", flow.StartStep, "step to begin with")
	return cmd
}

// terminalWizard walks the steps with the TUI renderer until the last step
// is submitted.
type terminalWizard struct {
	app    *app
	o      *orchestrator.Orchestrator
	values answers.Store
}

func (w *terminalWizard) run(ctx context.Context, step string) error {
	renderer, err := tui.New(tui.WithStates(w.states), tui.WithTheme(tui.Theme{
		InfoPrefix:  "» ",
		ErrorPrefix: "! ",
	}))
	if err != nil {
		return err
	}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	w.o, err = w.app.orchestrator(registry)
	if err != nil {
		return err
	}
	bundle, locale, err := w.app.translator()
	if err != nil {
		return err
	}

	if step == flow.StartStep {
		step = w.o.Wizard().First()
	}
	var opts render.RenderOptions
	for step != "" {
		page, decision, err := w.o.Show(ctx, step, w.values)
		if err != nil {
			return err
		}
		step = decision.Step

		opts.Translator = bundle
		opts.Locale = locale
		output, err := w.o.Render(ctx, page, renderer.Name(), opts)
		if err != nil {
			return err
		}
		var collected map[string]any
		if err := json.Unmarshal(output, &collected); err != nil {
			return fmt.Errorf("wizard: decode answers: %w", err)
		}

		result, err := w.o.Submit(ctx, step, w.values, answers.New(collected))
		var incomplete *orchestrator.IncompleteError
		if errors.As(err, &incomplete) {
			opts = render.RenderOptions{Values: collected, Errors: incomplete.Fields}
			continue
		}
		if err != nil {
			return err
		}
		opts = render.RenderOptions{}
		if !result.Decision.Allowed {
			step = result.Decision.Step
			continue
		}
		w.values = result.Values
		w.app.logger.Debug("wizard: step submitted", zap.String("step", step), zap.String("next", result.Next))
		step = result.Next
	}
	return nil
}

// states evaluates visibility on the stored answers overlaid with what was
// entered on the current page.
func (w *terminalWizard) states(ctx context.Context, step string, values map[string]any) (visibility.States, error) {
	s, err := w.o.Wizard().Step(step)
	if err != nil {
		return nil, err
	}
	current := w.values.Without(s.FieldNames()...).Merge(answers.New(values))
	return w.o.Visibility(ctx, step, current)
}
