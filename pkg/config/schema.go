package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema is the JSON Schema every loaded Config is checked against, in
// addition to validateConfig's Go-level checks. This mirrors the teacher's
// tools/schemagen pattern, redirected at this module's own config shape
// instead of analyzer metrics.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["server", "snapshot", "observability", "index"],
  "properties": {
    "server": {
      "type": "object",
      "required": ["port"],
      "properties": {
        "host": {"type": "string"},
        "port": {"type": "integer", "minimum": 1, "maximum": 65535},
        "enabled": {"type": "boolean"},
        "read_timeout": {"type": "integer", "minimum": 0},
        "write_timeout": {"type": "integer", "minimum": 0},
        "idle_timeout": {"type": "integer", "minimum": 0}
      }
    },
    "snapshot": {
      "type": "object",
      "required": ["codec"],
      "properties": {
        "directory": {"type": "string"},
        "codec": {"type": "string", "enum": ["json", "gob", "lz4"]},
        "max_age": {"type": "integer", "minimum": 0},
        "max_size": {"type": "integer", "minimum": 1}
      }
    },
    "observability": {
      "type": "object",
      "properties": {
        "log_level": {"type": "string", "enum": ["debug", "info", "warn", "error"]},
        "log_format": {"type": "string", "enum": ["json", "text"]},
        "log_output": {"type": "string"},
        "service_name": {"type": "string"},
        "otlp_endpoint": {"type": "string"},
        "metrics_enabled": {"type": "boolean"}
      }
    },
    "index": {
      "type": "object",
      "properties": {
        "max_markers": {"type": "integer", "minimum": 0},
        "warn_rotations_per_splice": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

// ValidateSchema checks cfg against configSchema using gojsonschema, on top
// of validateConfig's hand-written checks. The two overlap deliberately:
// the Go checks give precise sentinel errors for the common mistakes, the
// schema catches anything a field-by-field check would miss (wrong enum
// value, wrong JSON type from a malformed override).
func ValidateSchema(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config for schema check: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("run schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		messages = append(messages, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}

	return fmt.Errorf("%w", errSchemaInvalid(strings.Join(messages, "; ")))
}

type errSchemaInvalid string

func (e errSchemaInvalid) Error() string { return "config failed schema validation: " + string(e) }
