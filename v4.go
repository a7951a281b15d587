package fquuid

// GenerateV4 builds a random UUIDv4 from two 64-bit draws of src. Apart
// from the version and variant fields all 122 bits are random.
func GenerateV4(src Source) (UUID, error) {
	upper, err := Bits(src, 64)
	if err != nil {
		return Nil, err
	}
	lower, err := Bits(src, 64)
	if err != nil {
		return Nil, err
	}
	u := UUID{upper: upper, lower: lower}
	return u.withVersion(VersionRandom).withRFCVariant(), nil
}
