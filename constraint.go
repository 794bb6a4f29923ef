package arbor

// Rejection reasons reported by rejectReason, in evaluation order.
const (
	rejectAncestry  = "ancestry"
	rejectMaxLevels = "max-levels"
	rejectGroup     = "group"
	rejectNestLevel = "nest-level"
	rejectIgnored   = "ignored"
	rejectIsAllowed = "is-allowed"
)

// rejectReason runs the placement rules in order and returns the first one
// that fails, or "" when c is legal. IsAllowed is only consulted when every
// structural rule passed.
func (s *Sortable) rejectReason(c candidate) string {
	ss := s.session
	p := c.Placement

	if p.Parent != nil && isAncestor(ss.element, p.Parent) {
		return rejectAncestry
	}
	if s.opts.MaxLevels > 0 {
		depth := 0
		if p.Parent != nil {
			depth = s.levelOf(p.Parent)
		}
		if depth+s.subtreeLevels(ss.element) > s.opts.MaxLevels {
			return rejectMaxLevels
		}
	}
	if !s.opts.ConnectGroups && p.Group != ss.originGroup {
		return rejectGroup
	}
	if !s.opts.Nest && p.Parent != ss.originParent {
		return rejectNestLevel
	}
	if c.anchor != nil && s.opts.Ignore != nil && s.opts.Ignore.Match(c.anchor) {
		return rejectIgnored
	}
	if s.opts.IsAllowed != nil && !s.opts.IsAllowed(p) {
		return rejectIsAllowed
	}
	return ""
}

// ignoredPath reports whether any node from target up to and including
// element matches the Ignore selector.
func (s *Sortable) ignoredPath(target, element *Node) bool {
	if s.opts.Ignore == nil {
		return false
	}
	for p := target; p != nil; p = p.Parent {
		if s.opts.Ignore.Match(p) {
			return true
		}
		if p == element {
			break
		}
	}
	return false
}
