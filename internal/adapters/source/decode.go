// Package source reads Cricsheet-style YAML scorecards from disk into record trees.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/okian/scorecard/internal/domain/extract"
	"github.com/okian/scorecard/internal/domain/record"
)

// Decode parses one YAML document into a record tree. The root must be a mapping.
func Decode(data []byte) (record.Map, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("%w: %w", extract.ErrMalformedSource, err)
	}

	b := builder{
		active: make(map[*yaml.Node]bool),
		budget: expansionFactor*len(data) + minExpansion,
	}
	tree, err := b.build(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", extract.ErrMalformedSource, err)
	}
	switch root := tree.(type) {
	case nil:
		return nil, ErrEmptyDocument
	case record.Map:
		return root, nil
	default:
		return nil, fmt.Errorf("%w: root is %T, want a mapping", extract.ErrMalformedSource, root)
	}
}

// Alias expansion may grow a tree to at most expansionFactor nodes per input
// byte, plus minExpansion.
const (
	expansionFactor = 4
	minExpansion    = 1024
)

// builder converts a node tree into Map, List and scalar leaves. active holds
// the collections under construction so a self-referencing alias is caught;
// budget bounds the nodes produced when aliases fan out.
type builder struct {
	active map[*yaml.Node]bool
	budget int
}

// build converts one node. Mapping keys are taken verbatim from the scalar
// text, so "16.10" never collapses into 16.1.
func (b *builder) build(n *yaml.Node) (any, error) {
	if b.budget--; b.budget < 0 {
		return nil, fmt.Errorf("line %d: %w", n.Line, ErrAliasExpansion)
	}
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		if b.active[n] {
			return nil, fmt.Errorf("line %d: %w", n.Line, ErrAliasCycle)
		}
		b.active[n] = true
		defer delete(b.active, n)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return b.build(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unresolved alias %q", n.Line, n.Value)
		}
		return b.build(n.Alias)
	case yaml.MappingNode:
		m := make(record.Map, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
				if err := b.merge(m, v); err != nil {
					return nil, err
				}
				continue
			}
			val, err := b.build(v)
			if err != nil {
				return nil, err
			}
			m[k.Value] = val
		}
		return m, nil
	case yaml.SequenceNode:
		l := make(record.List, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := b.build(c)
			if err != nil {
				return nil, err
			}
			l = append(l, val)
		}
		return l, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

// merge applies a "<<" merge key. Explicit keys already set take precedence.
func (b *builder) merge(dst record.Map, v *yaml.Node) error {
	src, err := b.build(v)
	if err != nil {
		return err
	}
	for _, item := range record.AsList(src) {
		m, ok := item.(record.Map)
		if !ok {
			return fmt.Errorf("line %d: merge value is not a mapping", v.Line)
		}
		for k, val := range m {
			if _, set := dst[k]; !set {
				dst[k] = val
			}
		}
	}
	return nil
}
