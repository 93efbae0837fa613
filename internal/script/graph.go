// Package script models the branching call script as a static directed
// graph and a per-session navigator over it. The graph is built once at
// startup, validated, and shared read-only across every call session.
package script

import (
	"errors"
	"fmt"
)

// StartNodeID is the entry node every navigator begins at.
const StartNodeID = "start"

// Option is one selectable agent response on a node.
type Option struct {
	Label string `json:"label"`
	Next  string `json:"next"`
}

// Node is a single prompt in the dialogue graph. Text may contain the
// {name} placeholder, substituted with the customer's name at render time.
type Node struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options,omitempty"`
}

// Terminal reports whether the node ends the scripted dialogue.
func (n Node) Terminal() bool { return len(n.Options) == 0 }

// Graph is an immutable dialogue graph keyed by node id.
type Graph struct {
	nodes map[string]Node
}

var (
	ErrInvalidTransition = errors.New("script: invalid transition")
	ErrNoHistory         = errors.New("script: no history")
)

// NewGraph builds and validates a graph. Every option target must resolve
// to an existing node and every node must be reachable from StartNodeID;
// violations are construction errors, not runtime conditions.
func NewGraph(nodes []Node) (*Graph, error) {
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			return nil, errors.New("script: node with empty id")
		}
		if _, dup := byID[n.ID]; dup {
			return nil, fmt.Errorf("script: duplicate node id %q", n.ID)
		}
		byID[n.ID] = n
	}
	if _, ok := byID[StartNodeID]; !ok {
		return nil, fmt.Errorf("script: missing %q node", StartNodeID)
	}

	for _, n := range byID {
		for _, opt := range n.Options {
			if _, ok := byID[opt.Next]; !ok {
				return nil, fmt.Errorf("script: node %q option %q targets unknown node %q", n.ID, opt.Label, opt.Next)
			}
		}
	}

	reachable := map[string]bool{StartNodeID: true}
	stack := []string{StartNodeID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, opt := range byID[id].Options {
			if !reachable[opt.Next] {
				reachable[opt.Next] = true
				stack = append(stack, opt.Next)
			}
		}
	}
	for id := range byID {
		if !reachable[id] {
			return nil, fmt.Errorf("script: node %q unreachable from %q", id, StartNodeID)
		}
	}

	return &Graph{nodes: byID}, nil
}

// MustGraph panics on validation failure; for static graphs wired at startup.
func MustGraph(nodes []Node) *Graph {
	g, err := NewGraph(nodes)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Graph) node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }
