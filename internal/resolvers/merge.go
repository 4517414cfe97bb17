package resolvers

type edgeKey struct {
	src string
	dst string
}

// MergeEdges reconciles edges from a fallback strategy and a preferred
// strategy into a single list with at most one entry per (src, dst) key.
//
// Fallback edges are inserted first. A preferred edge whose key already
// exists overwrites the Internal flag and retags the entry with upgraded;
// otherwise it is appended as-is. Output order is first-appearance order,
// so the result is deterministic regardless of how the inputs were
// produced. Merging a list with itself leaves it unchanged.
func MergeEdges(fallback, preferred []ResolvedEdge, upgraded Method) []ResolvedEdge {
	index := make(map[edgeKey]int, len(fallback)+len(preferred))
	merged := make([]ResolvedEdge, 0, len(fallback)+len(preferred))

	for _, e := range fallback {
		k := edgeKey{e.Src, e.Dst}
		if _, seen := index[k]; seen {
			continue
		}
		index[k] = len(merged)
		merged = append(merged, e)
	}

	for _, e := range preferred {
		k := edgeKey{e.Src, e.Dst}
		i, seen := index[k]
		if !seen {
			index[k] = len(merged)
			merged = append(merged, e)
			continue
		}
		if merged[i].Method == e.Method {
			// Same strategy re-merged; nothing to upgrade.
			continue
		}
		merged[i].Internal = e.Internal
		merged[i].Method = upgraded
	}

	return merged
}

// DedupeEdges collapses duplicate (src, dst) keys within one strategy's
// output, keeping the first occurrence.
func DedupeEdges(edges []ResolvedEdge) []ResolvedEdge {
	seen := make(map[edgeKey]struct{}, len(edges))
	out := edges[:0:0]
	for _, e := range edges {
		k := edgeKey{e.Src, e.Dst}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}
