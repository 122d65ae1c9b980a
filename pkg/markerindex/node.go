package markerindex

// node is a distinguished buffer position inside the splay tree. Every node
// is the start or end of at least one live marker; Index.unplace deletes a
// node once it no longer is.
//
// Absolute position is never stored directly (it would have to be rewritten
// across an entire subtree on every splay). Instead each node stores
// distanceFromLeftAncestor, a delta resolved by walking the parent chain
// (see tree.positionOf); this keeps every rotation a constant number of
// Point operations.
//
// markersToLeftAncestor and markersToRightAncestor are the "blanket" tags
// from §4.3: once a marker's start/end nodes are materialized, the set of
// markers that merely cross a given node's entire subtree is recorded once,
// on that subtree's root, instead of on every node inside it. A node's
// blanket (the union of both fields, see node.blanket) is only meaningful
// as "covers this node and everything beneath it" immediately after that
// node has been splayed to the root (tree.splay resolves every ancestor's
// pending tag onto the splayed node first, see tree.pushDownPathAbove); at
// any other time a node's own fields may still be holding tags meant for
// its descendants that simply haven't been pushed down yet. Which of the
// two fields a given tag lands in only reflects which side of the splay it
// arrived from; composing them is always just their union.
type node struct {
	parent, left, right *node

	distanceFromLeftAncestor Point

	startingMarkers        markerSet
	endingMarkers          markerSet
	markersToLeftAncestor  markerSet
	markersToRightAncestor markerSet
}

func newNode(parent *node, distanceFromLeftAncestor Point) *node {
	return &node{
		parent:                   parent,
		distanceFromLeftAncestor: distanceFromLeftAncestor,
		startingMarkers:          newMarkerSet(),
		endingMarkers:            newMarkerSet(),
		markersToLeftAncestor:    newMarkerSet(),
		markersToRightAncestor:   newMarkerSet(),
	}
}

// isMarkerEndpoint reports whether this node is still the start or end of
// at least one marker, i.e. whether §3 invariant 3 still requires it.
func (n *node) isMarkerEndpoint() bool {
	return !n.startingMarkers.isEmpty() || !n.endingMarkers.isEmpty()
}

// blanket returns the union of the two ancestor summary sets: every marker
// id tagged as covering this node's entire subtree.
func (n *node) blanket() markerSet {
	return n.markersToLeftAncestor.unionInto(n.markersToRightAncestor)
}

// clearBlanket empties both ancestor summary sets, used once their
// contents have been pushed down to this node's children.
func (n *node) clearBlanket() {
	n.markersToLeftAncestor = newMarkerSet()
	n.markersToRightAncestor = newMarkerSet()
}
