package classify

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML rule file. An empty path returns the default rules.
func Load(path string) (*RuleSet, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // rule file path is chosen by the local user
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	rs, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// Decode parses and validates a YAML rule set.
func Decode(r io.Reader) (*RuleSet, error) {
	var rs RuleSet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if len(rs.Rules) == 0 {
		return nil, fmt.Errorf("parsing rules: no rules defined")
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Encode writes the rule set as YAML.
func (rs *RuleSet) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rs); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return enc.Close()
}
