package arbor

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// debugLogger receives tree warnings while debug mode is on.
var debugLogger = log.Default()

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. In release mode callers skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("arbor debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("tree depth exceeds threshold",
			"node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLogger.Warn("child count exceeds threshold",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}

// DumpTree returns an indented outline of n's subtree: one line per node with
// its tag, name, classes and world row bounds. Handy in test failures.
func DumpTree(n *Node) string {
	var b []byte
	var walk func(*Node, int)
	walk = func(n *Node, depth int) {
		for range depth {
			b = append(b, "  "...)
		}
		b = append(b, describeNode(n)...)
		if r, ok := n.WorldBounds(); ok {
			b = fmt.Appendf(b, " [%.0f,%.0f %.0fx%.0f]", r.X, r.Y, r.Width, r.Height)
		}
		if !n.Visible {
			b = append(b, " (hidden)"...)
		}
		b = append(b, '\n')
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	return string(b)
}

// describeNode renders a node as tag#name.class1.class2.
func describeNode(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	s := n.Tag
	if s == "" {
		s = "node"
	}
	if n.Name != "" {
		s += "#" + n.Name
	}
	for _, c := range n.Classes {
		s += "." + c
	}
	return s
}
