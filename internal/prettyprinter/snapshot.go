package prettyprinter

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/elimc/internal/core"
	"github.com/funvibe/elimc/internal/elim"
	"github.com/funvibe/elimc/internal/pipeline"
)

// Snapshot is the serialized outcome of one definition. It is stored in
// the cache and returned by the checking service.
type Snapshot struct {
	Name      string    `yaml:"name"`
	Status    string    `yaml:"status"`
	Tree      *TreeNode `yaml:"tree,omitempty"`
	Missing   []string  `yaml:"missing,omitempty"`
	Truncated bool      `yaml:"truncated,omitempty"`
	Redundant []int     `yaml:"redundant,omitempty"`
	Error     string    `yaml:"error,omitempty"`
}

// Status values.
const (
	StatusOK         = "ok"
	StatusIncomplete = "incomplete"
	StatusFailed     = "failed"
)

type TreeNode struct {
	Kind    string      `yaml:"kind"`
	Param   string      `yaml:"param,omitempty"`
	Clause  *int        `yaml:"clause,omitempty"`
	Vars    []string    `yaml:"vars,omitempty"`
	Body    string      `yaml:"body,omitempty"`
	Failed  bool        `yaml:"failed,omitempty"`
	Cases   []*CaseNode `yaml:"cases,omitempty"`
	Default *TreeNode   `yaml:"default,omitempty"`
}

type CaseNode struct {
	Constructor string    `yaml:"constructor"`
	Params      []string  `yaml:"params,omitempty"`
	Child       *TreeNode `yaml:"child"`
}

func NewSnapshot(def *pipeline.Definition) *Snapshot {
	s := &Snapshot{Name: def.Name, Status: StatusOK}

	var mce *elim.MissingClausesError
	switch {
	case errors.As(def.Err, &mce):
		s.Status = StatusIncomplete
	case def.Err != nil:
		s.Status = StatusFailed
		s.Error = def.Err.Error()
	case def.Result == nil || def.Result.HasErrors:
		s.Status = StatusFailed
	}

	if r := def.Result; r != nil {
		s.Tree = treeNode(r.Tree)
		for _, w := range r.Missing {
			s.Missing = append(s.Missing, w.String())
		}
		s.Truncated = r.Truncated
		for _, c := range r.Redundant {
			s.Redundant = append(s.Redundant, c.Index)
		}
	}
	return s
}

func treeNode(t elim.Tree) *TreeNode {
	switch n := t.(type) {
	case *elim.Leaf:
		index := n.Clause.Index
		node := &TreeNode{Kind: "leaf", Clause: &index, Failed: n.Failed}
		for _, v := range n.Vars {
			node.Vars = append(node.Vars, v.Name+" := "+exprString(v.Value))
		}
		if !n.Failed && n.Body != nil {
			node.Body = n.Body.String()
		}
		return node

	case *elim.Absurd:
		return &TreeNode{Kind: "absurd", Param: n.Param.String()}

	case *elim.Branch:
		node := &TreeNode{Kind: "branch", Param: n.Param.String()}
		for _, c := range n.Cases {
			node.Cases = append(node.Cases, &CaseNode{
				Constructor: c.Con.Name,
				Params:      names(c.Fresh, c.Params),
				Child:       treeNode(c.Child),
			})
		}
		if n.Default != nil {
			node.Default = treeNode(n.Default)
		}
		return node
	}
	return nil
}

func names(teles ...core.Telescope) []string {
	var out []string
	for _, t := range teles {
		for _, b := range t {
			out = append(out, bindingName(b))
		}
	}
	return out
}

// MarshalSnapshot encodes s as YAML.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", s.Name, err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes a snapshot produced by MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
