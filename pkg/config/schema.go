package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// configSchema constrains loaded configuration before a run starts, so
// a typo like a negative worker count or an unknown format fails fast.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "vacuum": {
      "type": "object",
      "properties": {
        "root": {"type": "string", "minLength": 1},
        "ignore": {"type": "array", "items": {"type": "string"}},
        "workers": {"type": "integer", "minimum": 0},
        "max_file_size": {"type": "integer", "minimum": 0}
      }
    },
    "exclude": {
      "type": "object",
      "properties": {
        "patterns": {"type": "array", "items": {"type": "string"}},
        "dirs": {"type": "array", "items": {"type": "string"}},
        "gitignore": {"type": "boolean"}
      }
    },
    "output": {
      "type": "object",
      "properties": {
        "format": {"enum": ["text", "json", "markdown", "toon", "yaml"]},
        "color": {"type": "boolean"},
        "verbose": {"type": "boolean"}
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchema))
	if err != nil {
		panic(err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("solvac-config.json", doc); err != nil {
		panic(err)
	}
	sch, err := c.Compile("solvac-config.json")
	if err != nil {
		panic(err)
	}
	return sch
}

// Validate checks a config against the embedded schema.
func Validate(cfg *Config) error {
	raw, err := toJSONValue(cfg)
	if err != nil {
		return err
	}
	if err := compiledSchema.Validate(raw); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// toJSONValue round-trips the config through JSON so the schema sees
// the same shape a config file would have.
func toJSONValue(cfg *Config) (any, error) {
	data, err := json.Marshal(map[string]any{
		"vacuum": map[string]any{
			"root":          cfg.Vacuum.Root,
			"ignore":        cfg.Vacuum.Ignore,
			"workers":       cfg.Vacuum.Workers,
			"max_file_size": cfg.Vacuum.MaxFileSize,
		},
		"exclude": map[string]any{
			"patterns":  cfg.Exclude.Patterns,
			"dirs":      cfg.Exclude.Dirs,
			"gitignore": cfg.Exclude.Gitignore,
		},
		"output": map[string]any{
			"format":  cfg.Output.Format,
			"color":   cfg.Output.Color,
			"verbose": cfg.Output.Verbose,
		},
	})
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}
