package script

import (
	"fmt"
	"strings"
)

// Navigator tracks one call session's position in the dialogue graph:
// a cursor plus a history stack of visited node ids for back-navigation.
// It never mutates the shared graph.
type Navigator struct {
	graph        *Graph
	customerName string

	cursor  string
	history []string
}

func NewNavigator(g *Graph, customerName string) *Navigator {
	return &Navigator{
		graph:        g,
		customerName: customerName,
		cursor:       StartNodeID,
		history:      []string{StartNodeID},
	}
}

// Choose follows the option at idx from the current node, pushing the
// target onto the history stack.
func (n *Navigator) Choose(idx int) error {
	node, ok := n.graph.node(n.cursor)
	if !ok {
		return fmt.Errorf("%w: cursor %q not in graph", ErrInvalidTransition, n.cursor)
	}
	if node.Terminal() {
		return fmt.Errorf("%w: node %q is terminal", ErrInvalidTransition, n.cursor)
	}
	if idx < 0 || idx >= len(node.Options) {
		return fmt.Errorf("%w: option %d out of range on node %q", ErrInvalidTransition, idx, n.cursor)
	}
	next := node.Options[idx].Next
	n.history = append(n.history, next)
	n.cursor = next
	return nil
}

// Back pops the current node off the history stack and moves the cursor
// to the previous one. Fails without mutating state when the navigator is
// still on the start node.
func (n *Navigator) Back() error {
	if len(n.history) <= 1 {
		return ErrNoHistory
	}
	n.history = n.history[:len(n.history)-1]
	n.cursor = n.history[len(n.history)-1]
	return nil
}

// Reset unconditionally returns to the start node with a fresh history.
func (n *Navigator) Reset() {
	n.cursor = StartNodeID
	n.history = []string{StartNodeID}
}

// Current returns a rendered copy of the cursor's node with the {name}
// placeholder substituted. The underlying graph node is untouched.
func (n *Navigator) Current() Node {
	node, ok := n.graph.node(n.cursor)
	if !ok {
		// Only possible with a hand-rolled graph that bypassed validation.
		return Node{ID: n.cursor}
	}
	rendered := node
	rendered.Text = strings.ReplaceAll(node.Text, "{name}", n.customerName)
	rendered.Options = make([]Option, len(node.Options))
	copy(rendered.Options, node.Options)
	return rendered
}

// History returns a copy of the visited node id stack, oldest first.
func (n *Navigator) History() []string {
	out := make([]string, len(n.history))
	copy(out, n.history)
	return out
}

// Cursor returns the current node id.
func (n *Navigator) Cursor() string { return n.cursor }
