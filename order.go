package fquuid

import "slices"

// Compare is the ordering function for UUIDs, suitable for slices.SortFunc
// and ordered containers. It is equivalent to a.Compare(b).
func Compare(a, b UUID) int {
	return a.Compare(b)
}

// Less reports whether a sorts before b.
func Less(a, b UUID) bool {
	return a.Compare(b) < 0
}

// Hash is the hash function for UUIDs, for hash containers that take an
// explicit hasher. It is equivalent to u.Hash().
func Hash(u UUID) uint64 {
	return u.Hash()
}

// Sort sorts ids in ascending order. For v7 values this is creation order
// to millisecond precision.
func Sort(ids []UUID) {
	slices.SortFunc(ids, Compare)
}
