package fquuid

// fixed returns buf[:n] with its capacity clipped to n, or false when buf
// holds fewer than n elements. Codecs take their windows through fixed so
// a short buffer is reported before anything is read or written.
func fixed[T any](buf []T, n int) ([]T, bool) {
	if len(buf) < n {
		return nil, false
	}
	return buf[:n:n], true
}

// exact is like fixed but requires len(buf) == n.
func exact[T any](buf []T, n int) ([]T, bool) {
	if len(buf) != n {
		return nil, false
	}
	return buf[:n:n], true
}
