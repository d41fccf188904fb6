package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/lotse"
	"github.com/goliatone/go-lotse/pkg/openapi"
	"github.com/goliatone/go-lotse/pkg/render"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// decisionReport is the YAML shape printed by `lotse resolve`.
type decisionReport struct {
	Requested    string   `yaml:"requested"`
	Step         string   `yaml:"step"`
	Allowed      bool     `yaml:"allowed"`
	Reason       string   `yaml:"reason,omitempty"`
	Message      string   `yaml:"message,omitempty"`
	Prerequisite string   `yaml:"prerequisite,omitempty"`
	Chain        []string `yaml:"chain,omitempty"`
	Next         string   `yaml:"next,omitempty"`
	Prev         string   `yaml:"prev,omitempty"`
}

func newResolveCmd(a *app) *cobra.Command {
	var step, answersPath string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print where a request for a step would lead for a set of answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wizard, values, err := a.load(cmd, answersPath)
			if err != nil {
				return err
			}
			decision, err := wizard.Resolve(step, values)
			if err != nil {
				return err
			}
			report := decisionReport{
				Requested:    decision.Requested,
				Step:         decision.Step,
				Allowed:      decision.Allowed,
				Reason:       decision.Reason,
				Prerequisite: decision.Prerequisite,
				Chain:        decision.Chain,
			}
			if decision.Reason != "" {
				bundle, locale, err := a.translator()
				if err != nil {
					return err
				}
				if message, err := bundle.Translate(locale, decision.Reason); err == nil {
					report.Message = message
				}
			}
			if next, ok, err := wizard.Next(decision.Step, values); err == nil && ok {
				report.Next = next
			}
			if prev, ok, err := wizard.Prev(decision.Step, values); err == nil && ok {
				report.Prev = prev
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("resolve: encode: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&step, "step", "", "step to request")
	cmd.Flags().StringVar(&answersPath, "answers", "", "YAML or JSON answers file (- for stdin)")
	_ = cmd.MarkFlagRequired("step")
	return cmd
}

func newVisibilityCmd(a *app) *cobra.Command {
	var step, answersPath string
	cmd := &cobra.Command{
		Use:   "visibility",
		Short: "Print the field states of a step for a set of answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := render.NewRegistry()
			o, err := a.orchestrator(registry)
			if err != nil {
				return err
			}
			values, err := readAnswers(cmd, answersPath)
			if err != nil {
				return err
			}
			states, err := o.Visibility(cmd.Context(), step, values)
			if err != nil {
				return err
			}
			return writeIndented(cmd.OutOrStdout(), states)
		},
	}
	cmd.Flags().StringVar(&step, "step", lotse.StepFamilienstand, "step to evaluate")
	cmd.Flags().StringVar(&answersPath, "answers", "", "YAML or JSON answers file (- for stdin)")
	return cmd
}

func newOpenAPICmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document of the HTTP interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wizard, err := a.wizard()
			if err != nil {
				return err
			}
			doc, err := openapi.Build(wizard.Graph, openapi.Info{
				Title:   "Lotse",
				Version: version,
			})
			if err != nil {
				return err
			}
			if output == "" {
				return writeIndented(cmd.OutOrStdout(), doc)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("openapi: %w", err)
			}
			if err := writeIndented(f, doc); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (a *app) load(cmd *cobra.Command, path string) (*lotse.Wizard, answers.Store, error) {
	wizard, err := a.wizard()
	if err != nil {
		return nil, answers.Store{}, err
	}
	values, err := readAnswers(cmd, path)
	if err != nil {
		return nil, answers.Store{}, err
	}
	if a.cfg.DebugData {
		values = lotse.DebugData().Merge(values)
	}
	return wizard, values, nil
}

// readAnswers reads the answers file at path, stdin for "-", or nothing when
// path is empty.
func readAnswers(cmd *cobra.Command, path string) (answers.Store, error) {
	switch path {
	case "":
		return answers.New(nil), nil
	case "-":
		return answers.Load(cmd.InOrStdin())
	default:
		return answers.LoadFile(path)
	}
}

func writeIndented(w io.Writer, payload any) error {
	if payload == nil {
		return errors.New("nothing to write")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
