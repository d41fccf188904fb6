package flow

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-lotse/pkg/visibility"
	"github.com/goliatone/go-lotse/pkg/visibility/expr"
)

// LoadOption customises LoadFS.
type LoadOption func(*loadConfig)

type loadConfig struct {
	predicates map[string]Predicate
	rules      map[string]visibility.Rules
	graphOpts  []Option
	extras     expr.ExtrasFunc
}

// WithPredicate registers a Go predicate that definitions reference with
// `predicate: name`.
func WithPredicate(name string, p Predicate) LoadOption {
	return func(cfg *loadConfig) {
		cfg.predicates[strings.TrimSpace(name)] = p
	}
}

// WithNamedRules registers visibility rules that definitions reference with
// `rules: name`.
func WithNamedRules(name string, r visibility.Rules) LoadOption {
	return func(cfg *loadConfig) {
		cfg.rules[strings.TrimSpace(name)] = r
	}
}

// WithLoadExtras supplies derived facts to expressions in prerequisites and
// field rules.
func WithLoadExtras(fn expr.ExtrasFunc) LoadOption {
	return func(cfg *loadConfig) {
		cfg.extras = fn
	}
}

// WithGraphOptions forwards options to New.
func WithGraphOptions(options ...Option) LoadOption {
	return func(cfg *loadConfig) {
		cfg.graphOpts = append(cfg.graphOpts, options...)
	}
}

type definitionFile struct {
	Steps []stepFile `json:"steps" yaml:"steps"`
}

type stepFile struct {
	Name          string             `json:"name" yaml:"name"`
	Title         string             `json:"title" yaml:"title"`
	Intro         string             `json:"intro" yaml:"intro"`
	Section       string             `json:"section" yaml:"section"`
	Owns          []string           `json:"owns" yaml:"owns"`
	Rules         string             `json:"rules" yaml:"rules"`
	Prerequisites []prerequisiteFile `json:"prerequisites" yaml:"prerequisites"`
	Fields        []fieldFile        `json:"fields" yaml:"fields"`
}

type prerequisiteFile struct {
	Name      string `json:"name" yaml:"name"`
	When      string `json:"when" yaml:"when"`
	Predicate string `json:"predicate" yaml:"predicate"`
	Redirect  string `json:"redirect" yaml:"redirect"`
	Reason    string `json:"reason" yaml:"reason"`
}

type fieldFile struct {
	Name        string   `json:"name" yaml:"name"`
	Kind        string   `json:"kind" yaml:"kind"`
	Label       string   `json:"label" yaml:"label"`
	Help        string   `json:"help" yaml:"help"`
	Placeholder string   `json:"placeholder" yaml:"placeholder"`
	Choices     []Choice `json:"choices" yaml:"choices"`
	Required    bool     `json:"required" yaml:"required"`
	VisibleWhen string   `json:"visibleWhen" yaml:"visibleWhen"`
}

// LoadFS reads every JSON/YAML definition in fsys, in lexical path order,
// and builds a graph from the concatenated steps.
func LoadFS(fsys fs.FS, options ...LoadOption) (*Graph, error) {
	cfg := &loadConfig{
		predicates: make(map[string]Predicate),
		rules:      make(map[string]visibility.Rules),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if fsys == nil {
		return nil, fmt.Errorf("%w: no definition filesystem", ErrInvalidGraph)
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() && isDefinitionFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("flow: walk definitions: %w", err)
	}
	sort.Strings(paths)

	var steps []Step
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("flow: read %s: %w", path, err)
		}
		doc, err := parseDefinition(data, path)
		if err != nil {
			return nil, err
		}
		for _, raw := range doc.Steps {
			step, err := normaliseStep(raw, path, cfg)
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
		}
	}

	graphOpts := append([]Option{WithExtras(cfg.extras)}, cfg.graphOpts...)
	return New(steps, graphOpts...)
}

func parseDefinition(data []byte, source string) (definitionFile, error) {
	var doc definitionFile
	if strings.TrimSpace(string(data)) == "" {
		return definitionFile{}, fmt.Errorf("%w: file %s is empty", ErrInvalidGraph, source)
	}
	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return definitionFile{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidGraph, source, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return definitionFile{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidGraph, source, err)
	}
	return doc, nil
}

func normaliseStep(raw stepFile, source string, cfg *loadConfig) (Step, error) {
	name := strings.TrimSpace(raw.Name)
	step := Step{
		Name:    name,
		Title:   strings.TrimSpace(raw.Title),
		Intro:   strings.TrimSpace(raw.Intro),
		Section: strings.TrimSpace(raw.Section),
		Owns:    trimAll(raw.Owns),
	}

	if ruleName := strings.TrimSpace(raw.Rules); ruleName != "" {
		rules, ok := cfg.rules[ruleName]
		if !ok {
			return Step{}, fmt.Errorf("%w: step %q (file %s) references unknown rules %q", ErrInvalidGraph, name, source, ruleName)
		}
		step.Rules = rules
	}

	for idx, p := range raw.Prerequisites {
		prereq, err := normalisePrerequisite(p, cfg)
		if err != nil {
			return Step{}, fmt.Errorf("%w: step %q (file %s) prerequisite %d: %v", ErrInvalidGraph, name, source, idx, err)
		}
		step.Prerequisites = append(step.Prerequisites, prereq)
	}

	for _, f := range raw.Fields {
		kind := FieldKind(strings.TrimSpace(f.Kind))
		if kind == "" {
			kind = KindText
		}
		step.Fields = append(step.Fields, Field{
			Name:        strings.TrimSpace(f.Name),
			Kind:        kind,
			Label:       f.Label,
			Help:        f.Help,
			Placeholder: f.Placeholder,
			Choices:     append([]Choice(nil), f.Choices...),
			Required:    f.Required,
			VisibleWhen: strings.TrimSpace(f.VisibleWhen),
		})
	}
	return step, nil
}

func normalisePrerequisite(raw prerequisiteFile, cfg *loadConfig) (Prerequisite, error) {
	prereq := Prerequisite{
		Name:     strings.TrimSpace(raw.Name),
		Redirect: strings.TrimSpace(raw.Redirect),
		Reason:   strings.TrimSpace(raw.Reason),
	}
	when := strings.TrimSpace(raw.When)
	named := strings.TrimSpace(raw.Predicate)

	switch {
	case when != "" && named != "":
		return Prerequisite{}, fmt.Errorf("declare either when or predicate, not both")
	case named != "":
		p, ok := cfg.predicates[named]
		if !ok {
			return Prerequisite{}, fmt.Errorf("unknown predicate %q", named)
		}
		prereq.Check = p
		if prereq.Name == "" {
			prereq.Name = named
		}
	case when != "":
		p, err := When(when, cfg.extras)
		if err != nil {
			return Prerequisite{}, err
		}
		prereq.Check = p
		if prereq.Name == "" {
			prereq.Name = when
		}
	default:
		return Prerequisite{}, fmt.Errorf("missing when or predicate")
	}
	return prereq, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
