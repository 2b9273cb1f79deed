package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ginjaninja78/invoice-report-importer/internal/validation"
	"github.com/ginjaninja78/invoice-report-importer/internal/xlsxparser"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// rowSchemaShape describes a valid row_schema list.
var rowSchemaShape = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":                 "object",
		"required":             []string{"name"},
		"additionalProperties": false,
		"properties": map[string]any{
			"name":     map[string]any{"type": "string", "minLength": 1},
			"required": map[string]any{"type": "boolean"},
			"kind": map[string]any{
				"type": "string",
				"enum": kindNames(),
			},
		},
	},
}

func kindNames() []string {
	names := make([]string, len(validation.Kinds))
	for i, k := range validation.Kinds {
		names[i] = string(k)
	}
	return names
}

// checkRowSchemaDocument validates the row_schema section of a raw config
// file, if there is one.
func checkRowSchemaDocument(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	section, ok := doc["row_schema"]
	if !ok || section == nil {
		return nil
	}

	raw, err := json.Marshal(section)
	if err != nil {
		return fmt.Errorf("marshal row_schema: %w", err)
	}
	return validateJSONAgainstSchema(rowSchemaShape, raw)
}

func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("row_schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("row_schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("does not match schema: %w", err)
	}
	return nil
}

// ResolveSchema returns the schema invoice rows are validated against: the
// template workbook when configured, else the row_schema list, else the
// built-in invoice schema.
func (c *MainConfig) ResolveSchema() (validation.Schema, error) {
	if c.SchemaTemplate != "" {
		schema, err := xlsxparser.ParseSchemaTemplate(c.SchemaTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema template: %w", err)
		}
		return schema, nil
	}

	if len(c.RowSchema) == 0 {
		return validation.DefaultInvoiceSchema(), nil
	}

	schema := make(validation.Schema, 0, len(c.RowSchema))
	for _, rule := range c.RowSchema {
		kind := validation.KindTextOrNumber
		if rule.Kind != "" {
			k, err := validation.ParseKind(rule.Kind)
			if err != nil {
				return nil, fmt.Errorf("row_schema field %q: %w", rule.Name, err)
			}
			kind = k
		}
		schema = append(schema, validation.Field{Name: rule.Name, Required: rule.Required, Kind: kind})
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("row_schema: %w", err)
	}
	return schema, nil
}
