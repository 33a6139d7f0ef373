package main

// Sibling ordering is kept dense: after any insert, move or delete every
// surviving sibling is renumbered to its 0-based position. The helpers below
// work on identity sequences; the store persists the resulting positions
// inside the same transaction as the structural change.

func clampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}

func removeID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func insertAt(ids []int64, id int64, idx int) []int64 {
	idx = clampIndex(idx, len(ids))
	out := make([]int64, 0, len(ids)+1)
	out = append(out, ids[:idx]...)
	out = append(out, id)
	out = append(out, ids[idx:]...)
	return out
}

// moveWithin removes id from the sequence and reinserts it at idx. The index
// is interpreted against the sequence with the moved element already removed,
// which is how drag targets arrive from the client.
func moveWithin(ids []int64, id int64, idx int) []int64 {
	return insertAt(removeID(ids, id), id, idx)
}
