package bramble

import (
	"fmt"
	"time"
)

// debugStats holds per-frame timing and tree metrics.
// Only populated when the director is in debug mode.
type debugStats struct {
	tickTime   time.Duration
	drawTime   time.Duration
	targets    int
	drawnNodes int
}

// debugLog writes timing and tree stats at debug level.
func (d *Director) debugLog(stats debugStats) {
	if !d.debug || d.logger == nil {
		return
	}
	d.logger.Debug("frame",
		"frame", d.totalFrames,
		"tick", stats.tickTime,
		"draw", stats.drawTime,
		"targets", stats.targets,
		"drawn", stats.drawnNodes,
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// handed to the director.
func debugCheckDisposed(n *Node, op string) {
	if n != nil && n.disposed {
		panic(fmt.Sprintf("bramble debug: %s on disposed node %q", op, n.Name))
	}
}

// debugMaxTreeDepth is the depth past which AddChild warns in debug mode.
const debugMaxTreeDepth = 32

func (s *Scheduler) debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth && s.logger != nil {
		s.logger.Warn("tree depth exceeds threshold",
			"node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugMaxChildCount is the child count past which AddChild warns in debug mode.
const debugMaxChildCount = 1000

func (s *Scheduler) debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount && s.logger != nil {
		s.logger.Warn("node has too many children",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
