package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/flow"
)

const (
	contentForm = "application/x-www-form-urlencoded"
	contentJSON = "application/json"
	contentHTML = "text/html"

	// StepPath is the route pattern pages are served and submitted on.
	StepPath = "/lotse/step/{step}"
	// VisibilityPath is the route field states are evaluated on.
	VisibilityPath = "/lotse/visibility/{step}"
	// HealthPath answers liveness checks.
	HealthPath = "/healthz"

	eurPattern = `^-?[0-9]{1,3}(\.?[0-9]{3})*(,[0-9]{1,2})?$|^-?[0-9]+(\.[0-9]{1,2})?$`
)

// Info carries the document metadata.
type Info struct {
	Title       string
	Version     string
	Description string
	// ServerURL is advertised under servers when set.
	ServerURL string
}

// Build returns the OpenAPI document for graph. The document is validated
// before it is returned.
func Build(graph *flow.Graph, info Info) (*openapi3.T, error) {
	if graph == nil {
		return nil, errors.New("openapi: graph is nil")
	}
	if info.Title == "" {
		info.Title = "Lotse"
	}
	if info.Version == "" {
		info.Version = "1.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
		},
	}
	if info.ServerURL != "" {
		doc.Servers = openapi3.Servers{{URL: info.ServerURL}}
	}

	states := stateSchemas(doc)
	errorRef := componentRef(doc, "Error", openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()))

	stepParam := &openapi3.ParameterRef{Value: openapi3.NewPathParameter("step").
		WithDescription("Step name, or start for the first step.").
		WithSchema(openapi3.NewStringSchema().WithEnum(stepEnum(graph, true)...))}

	show := openapi3.NewOperation()
	show.OperationID = "showStep"
	show.Summary = "Show the page of a step, redirecting when it is not accessible."
	show.Parameters = openapi3.Parameters{stepParam}
	show.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("The rendered page.").
			WithContent(openapi3.Content{
				contentHTML: openapi3.NewMediaType().WithSchema(openapi3.NewStringSchema()),
				contentJSON: openapi3.NewMediaType().WithSchema(openapi3.NewObjectSchema()),
			})}),
		openapi3.WithStatus(http.StatusSeeOther, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Redirect to the step the filer has to complete first.")}),
		openapi3.WithStatus(http.StatusNotFound, errorResponse("Unknown step.", errorRef)),
	)
	doc.Paths.Set(StepPath, &openapi3.PathItem{Get: show})

	for _, step := range graph.Steps() {
		if len(step.Fields) == 0 {
			continue
		}
		doc.Paths.Set("/lotse/step/"+step.Name, &openapi3.PathItem{Post: submitOperation(step, errorRef)})
	}

	visibilityParam := &openapi3.ParameterRef{Value: openapi3.NewPathParameter("step").
		WithSchema(openapi3.NewStringSchema().WithEnum(stepEnum(graph, false)...))}
	visibility := openapi3.NewOperation()
	visibility.OperationID = "fieldVisibility"
	visibility.Summary = "Evaluate which fields of a step are visible and required for in-progress answers."
	visibility.Parameters = openapi3.Parameters{visibilityParam}
	visibility.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithDescription("Answers entered so far.").
		WithContent(openapi3.Content{
			contentForm: openapi3.NewMediaType().WithSchema(openapi3.NewObjectSchema()),
			contentJSON: openapi3.NewMediaType().WithSchema(openapi3.NewObjectSchema()),
		})}
	visibility.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Field states keyed by field name.").
			WithJSONSchemaRef(states)}),
		openapi3.WithStatus(http.StatusNotFound, errorResponse("Unknown step.", errorRef)),
	)
	doc.Paths.Set(VisibilityPath, &openapi3.PathItem{Post: visibility})

	health := openapi3.NewOperation()
	health.OperationID = "health"
	health.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("The service is up.").
			WithJSONSchema(openapi3.NewObjectSchema().WithProperty("status", openapi3.NewStringSchema()))}),
	)
	doc.Paths.Set(HealthPath, &openapi3.PathItem{Get: health})

	if err := doc.Validate(context.Background(), openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

// Load parses and validates a serialised document, for example the output of
// `lotse openapi`.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

func submitOperation(step flow.Step, errorRef *openapi3.SchemaRef) *openapi3.Operation {
	body := openapi3.NewObjectSchema()
	for _, field := range step.Fields {
		body.WithPropertyRef(field.Name, &openapi3.SchemaRef{Value: FieldSchema(field)})
		// Requirements that depend on other answers are enforced on submit.
		if field.Required && field.VisibleWhen == "" && step.Rules == nil {
			body.Required = append(body.Required, field.Name)
		}
	}
	body.WithPropertyRef("_csrf", &openapi3.SchemaRef{Value: openapi3.NewStringSchema()})

	op := openapi3.NewOperation()
	op.OperationID = step.Name
	op.Summary = "Submit the answers of " + step.Name + "."
	if step.Title != "" {
		op.Description = step.Title
	}
	if step.Section != "" {
		op.Tags = []string{step.Section}
	}
	op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.Content{contentForm: openapi3.NewMediaType().WithSchema(body)})}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusSeeOther, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Answers stored; Location names the next step.")}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Required answers are missing; the page is shown again with errors.").
			WithContent(openapi3.Content{contentHTML: openapi3.NewMediaType().WithSchema(openapi3.NewStringSchema())})}),
		openapi3.WithStatus(http.StatusForbidden, errorResponse("Missing or invalid CSRF token.", errorRef)),
	)
	return op
}

// FieldSchema maps a step field onto the schema of its form value.
func FieldSchema(field flow.Field) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Kind {
	case flow.KindDate:
		schema = openapi3.NewStringSchema().WithFormat("date")
	case flow.KindEuro:
		schema = openapi3.NewStringSchema().WithPattern(eurPattern)
	case flow.KindInteger:
		schema = openapi3.NewIntegerSchema()
	case flow.KindCheckbox:
		schema = openapi3.NewStringSchema().WithEnum("on", "yes", "true")
	case flow.KindYesNo:
		schema = openapi3.NewStringSchema().WithEnum(answers.Yes, answers.No)
	case flow.KindRadio, flow.KindSelect:
		values := make([]any, 0, len(field.Choices))
		for _, choice := range field.Choices {
			values = append(values, choice.Value)
		}
		schema = openapi3.NewStringSchema().WithEnum(values...)
	case flow.KindEntries:
		schema = openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	default:
		schema = openapi3.NewStringSchema()
	}
	schema.Title = field.Label
	if field.VisibleWhen != "" {
		schema.Extensions = map[string]any{"x-visible-when": field.VisibleWhen}
	}
	return schema
}

func stateSchemas(doc *openapi3.T) *openapi3.SchemaRef {
	state := componentRef(doc, "FieldState", openapi3.NewObjectSchema().
		WithProperty("visible", openapi3.NewBoolSchema()).
		WithProperty("required", openapi3.NewBoolSchema()))
	return componentRef(doc, "Visibility", openapi3.NewObjectSchema().
		WithPropertyRef("fields", &openapi3.SchemaRef{Value: openapi3.NewObjectSchema().
			WithAdditionalProperties(state.Value)}))
}

func componentRef(doc *openapi3.T, name string, schema *openapi3.Schema) *openapi3.SchemaRef {
	doc.Components.Schemas[name] = &openapi3.SchemaRef{Value: schema}
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name, Value: schema}
}

func errorResponse(description string, schema *openapi3.SchemaRef) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(description).
		WithJSONSchemaRef(schema)}
}

func stepEnum(graph *flow.Graph, withStart bool) []any {
	names := graph.Names()
	out := make([]any, 0, len(names)+1)
	if withStart {
		out = append(out, flow.StartStep)
	}
	for _, name := range names {
		out = append(out, name)
	}
	return out
}
