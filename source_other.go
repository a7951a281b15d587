//go:build !linux

package fquuid

func (SystemSource) Uint64() (uint64, error) {
	return DefaultSource.Uint64()
}
