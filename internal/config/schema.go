package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

// ErrSchemaViolation is returned when a config file does not match the schema.
var ErrSchemaViolation = errors.New("config file does not match schema")

// ValidateFile checks the raw YAML of a config file against the embedded
// schema. Unknown keys and wrongly typed values are reported together.
func ValidateFile(data []byte) error {
	var settings map[string]any

	err := yaml.Unmarshal(data, &settings)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if settings == nil {
		return nil
	}

	return ValidateSettings(settings)
}

// ValidateSettings checks decoded settings against the embedded schema.
func ValidateSettings(settings map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(settings),
	)
	if err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(problems, "; "))
}
