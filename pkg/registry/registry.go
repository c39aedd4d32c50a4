package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// Pipeline describes one registered pipeline: its identity, the mode tag
// its envelopes carry, the JSON schema its requests must satisfy, and the
// error codes it can emit.
type Pipeline struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"display_name"`
	Mode        string          `json:"mode"`
	InputSchema json.RawMessage `json:"input_schema"`
	ErrorCodes  []string        `json:"error_codes"`

	schema *gojsonschema.Schema
}

// Registry holds the pipeline descriptors loaded at startup.
type Registry struct {
	pipelines map[string]*Pipeline
	order     []string
}

type registryFile struct {
	Pipelines []*Pipeline `json:"pipelines"`
}

// Load reads a registry file and compiles every input schema.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return Parse(data)
}

// Parse builds a Registry from raw JSON.
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	r := &Registry{pipelines: make(map[string]*Pipeline)}
	for _, p := range file.Pipelines {
		if p.ID == "" {
			return nil, fmt.Errorf("registry entry missing id")
		}
		if _, exists := r.pipelines[p.ID]; exists {
			return nil, fmt.Errorf("duplicate pipeline id %q", p.ID)
		}
		if len(p.InputSchema) > 0 {
			schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(p.InputSchema))
			if err != nil {
				return nil, fmt.Errorf("compile schema for %q: %w", p.ID, err)
			}
			p.schema = schema
		}
		r.pipelines[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r, nil
}

// Get returns the pipeline registered under id, if any.
func (r *Registry) Get(id string) (*Pipeline, bool) {
	p, ok := r.pipelines[id]
	return p, ok
}

// IDs returns the registered pipeline IDs in file order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// ValidateInput checks a request body against the pipeline's input schema.
// Pipelines without a schema accept everything.
func (p *Pipeline) ValidateInput(body []byte) error {
	if p.schema == nil {
		return nil
	}
	result, err := p.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("VALIDATION_FAILED: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("VALIDATION_FAILED: %s: %s", first.Field(), first.Description())
	}
	return nil
}
