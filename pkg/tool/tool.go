// Package tool defines the schema-validated callables an agent may invoke.
// A tool runs at most once per agent call and only reads the task input.
package tool

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jllopis/agentlink/pkg/errors"
)

// FieldType enumerates the argument types a tool schema may declare.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldBool   FieldType = "boolean"
)

// Field describes a single schema entry.
type Field struct {
	Type     FieldType
	Required bool
}

// Schema maps argument names to their expected field definitions.
type Schema map[string]Field

// Handler executes the tool against validated arguments.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Tool is a named callable with an input schema. Tools are registered once
// per agent at construction time.
type Tool struct {
	Name        string
	Description string
	InputSchema Schema
	Handler     Handler
}

// New creates a tool. The handler is required.
func New(name, description string, schema Schema, handler Handler) (*Tool, error) {
	if name == "" {
		return nil, errors.New(errors.CodeInvalidInput, "tool name is required", nil)
	}
	if handler == nil {
		return nil, errors.New(errors.CodeInvalidInput, "tool handler is required", nil)
	}
	return &Tool{Name: name, Description: description, InputSchema: schema, Handler: handler}, nil
}

// Validate checks args against the schema and returns a normalized copy
// with values coerced to the declared types. String inputs are accepted for
// number and boolean fields because directive arguments arrive as text.
func (t *Tool) Validate(args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for name, field := range t.InputSchema {
		value, ok := args[name]
		if !ok {
			if field.Required {
				return nil, errors.New(errors.CodeToolArgument, "missing required argument", nil).
					WithContext("tool", t.Name).
					WithContext("argument", name)
			}
			continue
		}
		coerced, err := coerce(value, field.Type)
		if err != nil {
			return nil, errors.New(errors.CodeToolArgument, "argument has wrong type", err).
				WithContext("tool", t.Name).
				WithContext("argument", name)
		}
		out[name] = coerced
	}
	for name := range args {
		if _, ok := t.InputSchema[name]; !ok {
			return nil, errors.New(errors.CodeToolArgument, "unknown argument", nil).
				WithContext("tool", t.Name).
				WithContext("argument", name)
		}
	}
	return out, nil
}

// Call validates args and executes the handler.
func (t *Tool) Call(ctx context.Context, args map[string]any) (string, error) {
	validated, err := t.Validate(args)
	if err != nil {
		return "", err
	}
	return t.Handler(ctx, validated)
}

func coerce(value any, fieldType FieldType) (any, error) {
	switch fieldType {
	case FieldString:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("expected string, got %T", value)
	case FieldNumber:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case string:
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("expected number, got %q", v)
			}
			return parsed, nil
		default:
			return nil, fmt.Errorf("expected number, got %T", value)
		}
	case FieldBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("expected boolean, got %q", v)
			}
			return parsed, nil
		default:
			return nil, fmt.Errorf("expected boolean, got %T", value)
		}
	default:
		return nil, fmt.Errorf("unknown field type %q", fieldType)
	}
}
