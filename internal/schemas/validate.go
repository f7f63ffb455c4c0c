// Package schemas provides JSON Schema validation functionality for structured data artifacts.
package schemas

import (
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/lightwalker/dailydo/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// Names of the embedded schemas
const (
	DailyDoResponse      = "daily_do_response"
	DailyDoItem          = "daily_do_item"
	DailyDoItems         = "daily_do_items"
	RoleModelEnhancement = "role_model_enhancement"
)

var (
	compiled   = make(map[string]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Schema != "" {
		fmt.Fprintf(&sb, "validation against %s failed:\n", ve.Schema)
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// Load returns the compiled embedded schema with the given name.
// Every other embedded schema is registered so $ref between them resolves.
func Load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}

	file := name + ".schema.json"
	main, err := fs.ReadFile(schemas.FS, file)
	if err != nil {
		return nil, &SchemaLoadError{Path: file, Message: "schema not embedded", Cause: err}
	}

	files, err := fs.Glob(schemas.FS, "*.schema.json")
	if err != nil {
		return nil, &SchemaLoadError{Path: file, Message: "failed to list embedded schemas", Cause: err}
	}

	sl := gojsonschema.NewSchemaLoader()
	for _, other := range files {
		if other == file {
			continue
		}
		data, err := fs.ReadFile(schemas.FS, other)
		if err != nil {
			return nil, &SchemaLoadError{Path: other, Message: "failed to read referenced schema", Cause: err}
		}
		if err := sl.AddSchemas(gojsonschema.NewBytesLoader(data)); err != nil {
			return nil, &SchemaLoadError{Path: other, Message: "failed to register referenced schema", Cause: err}
		}
	}

	s, err := sl.Compile(gojsonschema.NewBytesLoader(main))
	if err != nil {
		return nil, &SchemaLoadError{Path: file, Message: "schema failed to compile", Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// Validate checks a JSON document against the named embedded schema
func Validate(name string, document []byte) error {
	s, err := Load(name)
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &SchemaLoadError{Path: name, Message: "document could not be loaded", Cause: err}
	}
	return toValidationError(name, result)
}

// ValidateValue marshals v and checks it against the named embedded schema
func ValidateValue(name string, v any) error {
	s, err := Load(name)
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(v))
	if err != nil {
		return &SchemaLoadError{Path: name, Message: "value could not be loaded", Cause: err}
	}
	return toValidationError(name, result)
}

func toValidationError(name string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
