package common

// WipeByteArray zeroes a sensitive byte slice in place. Callers should defer
// it as soon as the slice is obtained.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
