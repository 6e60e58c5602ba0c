package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is a gqlmock endpoint configuration.
type File struct {
	// Addr is the listen address for the serve command.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
	// Path is the URL path the GraphQL endpoint is served at.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Schema is an inline GraphQL SDL schema definition.
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`
	// SchemaFile is the path to a file containing the SDL schema.
	SchemaFile string `json:"schemaFile,omitempty" yaml:"schemaFile,omitempty"`
	// SchemaGlob is a glob pattern (with ** support) matching SDL files
	// that together form the schema.
	SchemaGlob string `json:"schemaGlob,omitempty" yaml:"schemaGlob,omitempty"`

	// Introspection toggles __schema and __type queries. Defaults to
	// enabled when omitted.
	Introspection *bool `json:"introspection,omitempty" yaml:"introspection,omitempty"`
	// Seed makes all synthesis deterministic when set.
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
	// Lists overrides the default length range for synthesized lists.
	Lists *ListSpec `json:"lists,omitempty" yaml:"lists,omitempty"`

	// Mocks maps type names to their mock configuration.
	Mocks map[string]TypeEntry `json:"mocks,omitempty" yaml:"mocks,omitempty"`

	// Subscriptions configures event streaming for subscription fields.
	Subscriptions *SubscriptionSpec `json:"subscriptions,omitempty" yaml:"subscriptions,omitempty"`
}

// IntrospectionEnabled reports the effective introspection setting.
func (f *File) IntrospectionEnabled() bool {
	return f.Introspection == nil || *f.Introspection
}

// ListSpec is an inclusive list length range.
type ListSpec struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// SubscriptionSpec controls synthesized subscription event streams.
type SubscriptionSpec struct {
	// Interval is the delay between events (e.g. "500ms"). Defaults to 1s.
	Interval string `json:"interval,omitempty" yaml:"interval,omitempty"`
	// Count is the number of events to send before completing the
	// subscription. 0 means stream until the client disconnects.
	Count int `json:"count,omitempty" yaml:"count,omitempty"`
}

// TypeEntry configures mocks for one named type. In YAML it is either a
// bare literal (the type-level value) or a mapping of field names to field
// entries. A mapping whose only keys are "value" and/or "expr" is treated
// as a type-level entry rather than a field map.
type TypeEntry struct {
	// Value is a literal returned for every field declaring this type.
	Value interface{}
	// HasValue distinguishes an explicit null literal from an absent one.
	HasValue bool
	// Expr is an expr-lang expression evaluated against {args, source}.
	Expr string
	// Fields maps field names to their entries.
	Fields map[string]FieldEntry
}

// FieldEntry configures the mock for one field. In YAML it is either a bare
// literal, or a mapping with one of the keys "value", "expr", or "list".
type FieldEntry struct {
	// Value is a literal value for the field.
	Value interface{}
	// HasValue distinguishes an explicit null literal from an absent one.
	HasValue bool
	// Expr is an expr-lang expression evaluated against {args, source}.
	Expr string
	// List is a length spec for a synthesized list.
	List *ListSpec
}

// UnmarshalYAML implements the polymorphic type entry format.
func (t *TypeEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.SequenceNode:
		var v interface{}
		if err := node.Decode(&v); err != nil {
			return err
		}
		t.Value = v
		t.HasValue = true
		return nil

	case yaml.MappingNode:
		if mappingKeysSubset(node, "value", "expr") {
			var raw struct {
				Value interface{} `yaml:"value"`
				Expr  string      `yaml:"expr"`
			}
			if err := node.Decode(&raw); err != nil {
				return err
			}
			t.Value = raw.Value
			t.HasValue = mappingHasKey(node, "value")
			t.Expr = raw.Expr
			return nil
		}

		var fields map[string]FieldEntry
		if err := node.Decode(&fields); err != nil {
			return err
		}
		t.Fields = fields
		return nil
	}

	return fmt.Errorf("line %d: type mock must be a literal or a mapping", node.Line)
}

// UnmarshalYAML implements the polymorphic field entry format.
func (f *FieldEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode && mappingKeysSubset(node, "value", "expr", "list") {
		var raw struct {
			Value interface{} `yaml:"value"`
			Expr  string      `yaml:"expr"`
			List  *ListSpec   `yaml:"list"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		f.Value = raw.Value
		f.HasValue = mappingHasKey(node, "value")
		f.Expr = raw.Expr
		f.List = raw.List
		return nil
	}

	var v interface{}
	if err := node.Decode(&v); err != nil {
		return err
	}
	f.Value = v
	f.HasValue = true
	return nil
}

// mappingKeysSubset reports whether every key of a mapping node is among
// the allowed set. Empty mappings report false so they decode as field maps.
func mappingKeysSubset(node *yaml.Node, allowed ...string) bool {
	if len(node.Content) == 0 {
		return false
	}
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		found := false
		for _, a := range allowed {
			if key == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// mappingHasKey reports whether a mapping node contains a key.
func mappingHasKey(node *yaml.Node, key string) bool {
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
