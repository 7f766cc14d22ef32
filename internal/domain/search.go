package domain

// Search is a stepped binary search over a fixed topological ordering of
// the strict preference relation, expressed as an explicit state object
// rather than a coroutine. The driver repeatedly reads the current probe
// node, decides whether its query belongs after the probe in the
// ordering, and calls Resume with the answer; exactly one probe is
// consumed per resume.
//
// The search holds no external resources and may be abandoned at any
// point with no cleanup obligation.
type Search struct {
	// ordering is the topological order being searched; it is fixed at
	// construction and unaffected by later graph mutation.
	ordering []string
	// lo and hi are the standard half-open binary-search bounds [lo, hi).
	lo, hi int
}

// Done reports whether the search has converged. Once Done returns true,
// Index holds the final insertion position and Probe returns no node.
func (s *Search) Done() bool { return s.lo >= s.hi }

// Probe returns the node the driver must compare its query against.
// ok is false once the search is done.
func (s *Search) Probe() (node string, ok bool) {
	if s.Done() {
		return "", false
	}
	return s.ordering[(s.lo+s.hi)/2], true
}

// Resume advances the search with the driver's answer to "does the query
// belong after the current probe". An affirmative answer moves the lower
// bound past the pivot; otherwise the upper bound closes onto it. Resume
// is a no-op once the search is done.
func (s *Search) Resume(greater bool) {
	if s.Done() {
		return
	}
	pivot := (s.lo + s.hi) / 2
	if greater {
		s.lo = pivot + 1
	} else {
		s.hi = pivot
	}
}

// Index returns the insertion position found by the search. It is only
// meaningful once Done reports true.
func (s *Search) Index() int { return s.lo }
