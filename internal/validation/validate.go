// Package validation compiles the request-body JSON Schemas embedded under
// schemas/ and checks mutating request bodies before any side effect runs.
package validation

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// ErrValidation can be matched with errors.Is to detect schema failures.
var ErrValidation = errors.New("validation failed")

// Schema names, one per mutating endpoint body.
const (
	SchemaCreateSession = "create_session"
	SchemaUpdateSession = "update_session"
	SchemaCreateReview  = "create_review"
	SchemaPurchase      = "purchase_credits"
	SchemaCreateContent = "create_content"
	SchemaAddUserSkill  = "add_user_skill"
)

type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles every embedded schema, keyed by file name without extension.
func New() (*Validator, error) {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read embedded schemas: %w", err)
	}
	schemas := make(map[string]*jsonschema.Schema, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		data, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read schema %q: %w", e.Name(), err)
		}
		id := "https://skillswap.dev/schemas/" + name
		schemas[name], err = jsonschema.CompileString(id, string(data))
		if err != nil {
			return nil, fmt.Errorf("compile schema %q: %w", name, err)
		}
	}
	return &Validator{schemas: schemas}, nil
}

// Validate checks body against the named schema. A schema violation wraps
// ErrValidation so handlers can map it to a 400.
func (v *Validator) Validate(name string, body []byte) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%w: invalid JSON", ErrValidation)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
