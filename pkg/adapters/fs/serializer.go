package fs

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Serializer defines how a value stored under a key is encoded.
type Serializer interface {
	// Name is the format identifier ("json", "yaml").
	Name() string
	// Marshal encodes v.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// DefaultSerializers returns the supported formats keyed by name.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		"json": NewJSONSerializer(),
		"yaml": NewYAMLSerializer(),
		"yml":  NewYAMLSerializer(),
	}
}

// SerializerFor resolves a format name. An empty name selects JSON.
func SerializerFor(format string) (Serializer, error) {
	if format == "" {
		format = "json"
	}
	s, ok := DefaultSerializers()[format]
	if !ok {
		return nil, fmt.Errorf("unsupported fallback format: %s", format)
	}
	return s, nil
}

// --- JSON Serializer ---

// JSONSerializer stores values as compact JSON, the same shape the export file uses.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Name() string { return "json" }

func (s *JSONSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (s *JSONSerializer) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// --- YAML Serializer ---

// YAMLSerializer stores values as YAML documents, easier to inspect by hand.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Name() string { return "yaml" }

func (s *YAMLSerializer) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (s *YAMLSerializer) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	return nil
}
