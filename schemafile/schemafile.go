// Package schemafile loads data-only schema definitions from YAML or JSON
// documents. Function hooks cannot be expressed in a document; the one
// declarative exception is a param group's join separator, which becomes a
// generated parse hook. Anything needing real code (custom validators, parse
// hooks) is attached in Go after loading.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	brannigan "github.com/ido50/Brannigan"
)

// document is the on-disk shape of one schema definition.
type document struct {
	Name          string               `yaml:"name" json:"name"`
	Inherits      []string             `yaml:"inherits" json:"inherits"`
	IgnoreMissing bool                 `yaml:"ignore_missing" json:"ignore_missing"`
	Params        map[string]*fieldDoc `yaml:"params" json:"params"`
	Patterns      map[string]*fieldDoc `yaml:"patterns" json:"patterns"`
	ParamGroups   map[string]*groupDoc `yaml:"param_groups" json:"param_groups"`
}

type fieldDoc struct {
	Rules       map[string]any       `yaml:"rules" json:"rules"`
	Default     any                  `yaml:"default" json:"default"`
	Array       bool                 `yaml:"array" json:"array"`
	Hash        bool                 `yaml:"hash" json:"hash"`
	Values      *fieldDoc            `yaml:"values" json:"values"`
	Keys        map[string]*fieldDoc `yaml:"keys" json:"keys"`
	KeyPatterns map[string]*fieldDoc `yaml:"key_patterns" json:"key_patterns"`
}

type groupDoc struct {
	Fields []string `yaml:"fields" json:"fields"`
	Join   string   `yaml:"join" json:"join"`
}

// Load parses every schema document from r. YAML being a superset of JSON,
// the stream may carry either format.
func Load(r io.Reader) ([]*brannigan.Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return LoadYAML(data)
}

// LoadYAML parses every document in a (possibly multi-document) YAML stream.
// Unknown document keys are errors.
func LoadYAML(data []byte) ([]*brannigan.Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var schemas []*brannigan.Schema
	for {
		var doc document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("schemafile: %w", err)
		}
		s, err := build(&doc)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	if len(schemas) == 0 {
		return nil, errors.New("schemafile: no schema documents found")
	}
	return schemas, nil
}

// LoadJSON parses a single JSON schema document. Unknown document keys are
// errors.
func LoadJSON(data []byte) (*brannigan.Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return build(&doc)
}

// LoadFile loads schema documents from path, dispatching on the file
// extension: .yaml/.yml for YAML streams, .json for a single JSON document.
func LoadFile(path string) ([]*brannigan.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(data)
	case ".json":
		s, err := LoadJSON(data)
		if err != nil {
			return nil, err
		}
		return []*brannigan.Schema{s}, nil
	}
	return nil, fmt.Errorf("schemafile: unsupported extension in %q", path)
}

func build(doc *document) (*brannigan.Schema, error) {
	if doc.Name == "" {
		return nil, errors.New("schemafile: schema document missing name")
	}
	s := &brannigan.Schema{
		Name:          doc.Name,
		Inherits:      doc.Inherits,
		IgnoreMissing: doc.IgnoreMissing,
	}
	var err error
	if s.Params, err = buildFieldMap(doc.Name, doc.Params); err != nil {
		return nil, err
	}
	if s.Patterns, err = buildFieldMap(doc.Name, doc.Patterns); err != nil {
		return nil, err
	}
	if len(doc.ParamGroups) > 0 {
		s.Groups = make(map[string]*brannigan.GroupSpec, len(doc.ParamGroups))
		for name, g := range doc.ParamGroups {
			if len(g.Fields) == 0 {
				return nil, fmt.Errorf("schemafile: schema %q group %q has no fields", doc.Name, name)
			}
			s.Groups[name] = &brannigan.GroupSpec{
				Fields: g.Fields,
				Parse:  joinParse(name, g.Join),
			}
		}
	}
	return s, nil
}

func buildFieldMap(schema string, docs map[string]*fieldDoc) (map[string]*brannigan.FieldSpec, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make(map[string]*brannigan.FieldSpec, len(docs))
	for name, fd := range docs {
		spec, err := buildField(schema, name, fd)
		if err != nil {
			return nil, err
		}
		out[name] = spec
	}
	return out, nil
}

func buildField(schema, field string, doc *fieldDoc) (*brannigan.FieldSpec, error) {
	if doc == nil {
		return &brannigan.FieldSpec{}, nil
	}
	spec := &brannigan.FieldSpec{Default: doc.Default}
	if len(doc.Rules) > 0 {
		spec.Rules = make(brannigan.Rules, len(doc.Rules))
		for name, raw := range doc.Rules {
			spec.Rules[name] = ruleArgs(raw)
		}
	}
	switch {
	case doc.Array && doc.Hash:
		return nil, fmt.Errorf("schemafile: schema %q field %q is marked both array and hash", schema, field)
	case doc.Array:
		if doc.Values == nil {
			return nil, fmt.Errorf("schemafile: schema %q array field %q missing values", schema, field)
		}
		values, err := buildField(schema, field+" values", doc.Values)
		if err != nil {
			return nil, err
		}
		spec.Kind = brannigan.KindArray
		spec.Values = values
	case doc.Hash:
		if len(doc.Keys) == 0 && len(doc.KeyPatterns) == 0 {
			return nil, fmt.Errorf("schemafile: schema %q hash field %q missing keys", schema, field)
		}
		params, err := buildFieldMap(schema, doc.Keys)
		if err != nil {
			return nil, err
		}
		patterns, err := buildFieldMap(schema, doc.KeyPatterns)
		if err != nil {
			return nil, err
		}
		spec.Kind = brannigan.KindHash
		spec.Keys = &brannigan.KeySet{Params: params, Patterns: patterns}
	default:
		if doc.Values != nil || len(doc.Keys) > 0 || len(doc.KeyPatterns) > 0 {
			return nil, fmt.Errorf("schemafile: schema %q field %q nests values/keys without an array or hash marker", schema, field)
		}
	}
	return spec, nil
}

// ruleArgs normalizes a document rule value: lists stay argument lists,
// scalars become a single argument, and a bare key (null value) is an
// enabled flag.
func ruleArgs(raw any) []any {
	switch t := raw.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

// joinParse builds the one hook a document can declare: join the group's
// values with a separator under the group's own name. It returns nothing
// when any field is missing so the group is skipped, not defaulted.
func joinParse(target, sep string) func(values ...any) map[string]any {
	return func(values ...any) map[string]any {
		parts := make([]string, 0, len(values))
		for _, v := range values {
			if v == nil {
				return nil
			}
			parts = append(parts, fmt.Sprint(v))
		}
		return map[string]any{target: strings.Join(parts, sep)}
	}
}
