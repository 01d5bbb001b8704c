package ecs

// IntersectEntities returns entity slots present in every set, in the order
// of the smallest set. A missing set yields nil.
func IntersectEntities(sets ...*SparseSet) []entityID {
	if len(sets) == 0 {
		return nil
	}
	smallest := sets[0]
	for _, s := range sets {
		if s == nil {
			return nil
		}
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}
	out := make([]entityID, 0, smallest.Len())
	for _, id := range smallest.ids() {
		inAll := true
		for _, s := range sets {
			if s != smallest && !s.Has(id) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, id)
		}
	}
	return out
}
