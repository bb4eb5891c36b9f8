package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/payload/value"
)

// maxYAMLDepth bounds nesting while reading.
const maxYAMLDepth = 1000

// yamlReader converts a parsed document to a value tree. Nodes produced
// while expanding aliases are counted, and a document whose output is
// dominated by alias expansion is rejected, with the same thresholds the
// yaml.v3 decoder applies to its own alias expansion.
type yamlReader struct {
	decodeCount int
	aliasCount  int
	aliasDepth  int
}

// allowedAliasRatio is the largest share of produced nodes that may come
// from alias expansion: 99% for small documents, falling to 10% at 4M nodes.
func allowedAliasRatio(decodeCount int) float64 {
	switch {
	case decodeCount <= 400_000:
		return 0.99
	case decodeCount >= 4_000_000:
		return 0.10
	}
	return 0.99 - 0.89*(float64(decodeCount-400_000)/3_600_000)
}

func (r *yamlReader) count(n *yaml.Node) error {
	r.decodeCount++
	if r.aliasDepth > 0 {
		r.aliasCount++
	}
	if r.aliasCount > 100 && r.decodeCount > 1000 &&
		float64(r.aliasCount)/float64(r.decodeCount) > allowedAliasRatio(r.decodeCount) {
		return fmt.Errorf("yaml: document contains excessive aliasing at line %d", n.Line)
	}
	return nil
}

// YAML writes and reads YAML through yaml.Node so mapping order is kept.
type YAML struct{}

// Marshal encodes the tree to a YAML document.
func (YAML) Marshal(v value.Value) ([]byte, error) {
	return yaml.Marshal(toNode(v))
}

// Unmarshal parses the first YAML document in data. An empty document is
// null.
func (YAML) Unmarshal(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return value.Null{}, nil
	}
	r := &yamlReader{}
	return r.fromNode(&doc, 0)
}

// Name returns "yaml".
func (YAML) Name() string { return "yaml" }

func toNode(v value.Value) *yaml.Node {
	switch x := v.(type) {
	case value.Bool:
		return scalar("!!bool", strconv.FormatBool(bool(x)))
	case value.Int:
		return scalar("!!int", strconv.FormatInt(int64(x), 10))
	case value.Float:
		return scalar("!!float", formatFloat(float64(x)))
	case value.String:
		return scalar("!!str", string(x))
	case value.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			n.Content = append(n.Content, toNode(e))
		}
		return n
	case *value.Object:
		if x == nil {
			break
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		x.Range(func(k string, e value.Value) bool {
			n.Content = append(n.Content, scalar("!!str", k), toNode(e))
			return true
		})
		return n
	}
	return scalar("!!null", "null")
}

func scalar(tag, v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (r *yamlReader) fromNode(n *yaml.Node, depth int) (value.Value, error) {
	if depth > maxYAMLDepth {
		return nil, fmt.Errorf("yaml: nesting exceeds %d levels at line %d", maxYAMLDepth, n.Line)
	}
	if err := r.count(n); err != nil {
		return nil, err
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}, nil
		}
		return r.fromNode(n.Content[0], depth)
	case yaml.AliasNode:
		r.aliasDepth++
		defer func() { r.aliasDepth-- }()
		return r.fromNode(n.Alias, depth+1)
	case yaml.SequenceNode:
		out := make(value.Array, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := r.fromNode(c, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		return r.fromMapping(n, depth)
	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return nil, fmt.Errorf("yaml: unexpected node kind %d at line %d", n.Kind, n.Line)
}

// fromMapping keeps document order. Keys merged with "<<" never override
// keys written explicitly in the mapping.
func (r *yamlReader) fromMapping(n *yaml.Node, depth int) (value.Value, error) {
	explicit := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := n.Content[i]; k.ShortTag() != "!!merge" {
			explicit[k.Value] = struct{}{}
		}
	}
	obj := value.NewObject(len(n.Content) / 2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("yaml: non-scalar mapping key at line %d", k.Line)
		}
		if k.ShortTag() == "!!merge" {
			if err := r.merge(obj, v, explicit, depth); err != nil {
				return nil, err
			}
			continue
		}
		ev, err := r.fromNode(v, depth+1)
		if err != nil {
			return nil, err
		}
		obj.Set(k.Value, ev)
	}
	return obj, nil
}

// merge expands a "<<" value through fromNode, so aliased sources are
// counted like any other alias.
func (r *yamlReader) merge(dst *value.Object, src *yaml.Node, explicit map[string]struct{}, depth int) error {
	target := src
	for target.Kind == yaml.AliasNode {
		target = target.Alias
	}
	sources := []*yaml.Node{src}
	if target.Kind == yaml.SequenceNode {
		sources = target.Content
	}
	for _, s := range sources {
		v, err := r.fromNode(s, depth+1)
		if err != nil {
			return err
		}
		m, ok := v.(*value.Object)
		if !ok {
			return fmt.Errorf("yaml: merge value must be a mapping at line %d", s.Line)
		}
		m.Range(func(k string, e value.Value) bool {
			if _, ok := explicit[k]; ok {
				return true
			}
			if _, ok := dst.Get(k); !ok {
				dst.Set(k, e)
			}
			return true
		})
	}
	return nil
}

func fromScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return value.Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return value.Null{}, nil
		}
		return value.Float(f), nil
	}
	return value.String(n.Value), nil
}
