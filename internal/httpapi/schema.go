package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"task-manager/internal/task"
)

const createTaskSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"title":       {"type": "string"},
		"description": {"type": ["string", "null"]},
		"priority":    {"type": ["string", "null"]},
		"completed":   {"type": "boolean"}
	}
}`

// Title may be blank here; the service does not re-check it on update.
const updateTaskSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"title":       {"type": "string"},
		"description": {"type": ["string", "null"]},
		"priority":    {"type": ["string", "null"]},
		"completed":   {"type": "boolean"}
	}
}`

var (
	createSchema = mustCompile("create_task.json", createTaskSchema)
	updateSchema = mustCompile("update_task.json", updateTaskSchema)
)

func mustCompile(url, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", url, err))
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", url, err))
	}
	return schema
}

// validateBody checks a raw request body against schema. Schema violations
// come back as *task.ValidationError naming the offending field.
func validateBody(schema *jsonschema.Schema, body []byte) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	err := schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	return firstSchemaViolation(ve)
}

func firstSchemaViolation(ve *jsonschema.ValidationError) *task.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	field := strings.TrimPrefix(strings.TrimPrefix(ve.InstanceLocation, "#"), "/")
	return &task.ValidationError{Field: field, Message: ve.Message}
}
