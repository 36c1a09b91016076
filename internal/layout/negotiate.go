package layout

// Width negotiation is ephemeral presentation state: dragging a block's left
// or right edge steals horizontal space from the adjacent column in the same
// cluster. It never touches a task's stored times, which is why it lives in
// its own type instead of the time-resize path.

// Width bounds for a negotiated block, percent of the day container.
const (
	MinWidthPct = 10.0
	MaxWidthPct = 90.0
)

// Edge identifies which side of a block a horizontal resize grabs.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
)

// Negotiation accumulates per-task width overrides on top of the base slots
// computed by Compute. Zero value is ready to use.
type Negotiation struct {
	widthDelta map[string]float64
	leftDelta  map[string]float64
}

// NewNegotiation creates an empty negotiation state.
func NewNegotiation() *Negotiation {
	return &Negotiation{
		widthDelta: make(map[string]float64),
		leftDelta:  make(map[string]float64),
	}
}

// Neighbor returns the id of the block in the adjacent column of the same
// cluster whose interval overlaps the given task, or ok=false if the block
// sits at the cluster boundary on that side.
func Neighbor(slots map[string]Slot, id string, edge Edge) (string, bool) {
	s, found := slots[id]
	if !found {
		return "", false
	}
	want := s.Column - 1
	if edge == EdgeRight {
		want = s.Column + 1
	}
	for otherID, other := range slots {
		if otherID == id {
			continue
		}
		if other.Cluster == s.Cluster && other.Column == want && other.Overlaps(s) {
			return otherID, true
		}
	}
	return "", false
}

// HasNeighbor reports whether a block can steal width on the given side.
func HasNeighbor(slots map[string]Slot, id string, edge Edge) bool {
	_, ok := Neighbor(slots, id, edge)
	return ok
}

// Resize applies a horizontal edge drag of deltaPct (positive = pointer
// moving right) to the block and its neighbor. The dragged block's width is
// clamped to [MinWidthPct, MaxWidthPct] and the neighbor shrinks or grows by
// the complementary amount. Without a neighbor on that side the drag is a
// no-op: there is no column to negotiate with.
func (n *Negotiation) Resize(slots map[string]Slot, id string, edge Edge, deltaPct float64) bool {
	neighborID, ok := Neighbor(slots, id, edge)
	if !ok {
		return false
	}
	if n.widthDelta == nil {
		n.widthDelta = make(map[string]float64)
		n.leftDelta = make(map[string]float64)
	}

	base := n.applied(slots[id], id)
	neighbor := n.applied(slots[neighborID], neighborID)

	// Growth of the dragged block for this delta. A right-edge drag to the
	// right grows the block; a left-edge drag to the right shrinks it.
	grow := deltaPct
	if edge == EdgeLeft {
		grow = -deltaPct
	}

	grow = clampGrow(grow, base.WidthPct)
	// The neighbor gives up exactly what the dragged block gains.
	grow = -clampGrow(-grow, neighbor.WidthPct)
	if grow == 0 {
		return false
	}

	n.widthDelta[id] += grow
	n.widthDelta[neighborID] -= grow
	if edge == EdgeLeft {
		// Left edge moved: the block's own origin shifts.
		n.leftDelta[id] -= grow
	} else {
		// Right edge moved into the neighbor: the neighbor's origin shifts.
		n.leftDelta[neighborID] += grow
	}
	return true
}

// clampGrow limits a width increase (or decrease, when negative) so the
// resulting width stays within bounds.
func clampGrow(grow, width float64) float64 {
	if width+grow > MaxWidthPct {
		grow = MaxWidthPct - width
	}
	if width+grow < MinWidthPct {
		grow = MinWidthPct - width
	}
	return grow
}

// applied returns the slot with this negotiation's overrides folded in.
func (n *Negotiation) applied(s Slot, id string) Slot {
	s.WidthPct += n.widthDelta[id]
	s.LeftPct += n.leftDelta[id]
	return s
}

// Apply returns a copy of the slot map with all accumulated overrides
// applied. The input map is not modified.
func (n *Negotiation) Apply(slots map[string]Slot) map[string]Slot {
	result := make(map[string]Slot, len(slots))
	for id, s := range slots {
		result[id] = n.applied(s, id)
	}
	return result
}

// Reset drops the overrides for one task. Use Clear when cluster membership
// changes, since complements may be stranded otherwise.
func (n *Negotiation) Reset(id string) {
	delete(n.widthDelta, id)
	delete(n.leftDelta, id)
}

// Clear drops all accumulated overrides.
func (n *Negotiation) Clear() {
	n.widthDelta = make(map[string]float64)
	n.leftDelta = make(map[string]float64)
}
