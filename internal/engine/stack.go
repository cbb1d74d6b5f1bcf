package engine

// ResolveStack splits m incoming units against a pile holding qd of maxStack.
// merged units join the pile; leftover units form a new pile.
func ResolveStack(qd, m, maxStack int32) (merged, leftover int32) {
	merged = max(min(maxStack-qd, m), 0)
	return merged, m - merged
}
