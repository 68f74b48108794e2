// Package shared holds small helpers used by both command line tools.
package shared

// WipeByteArray overwrites b with zeros. Use it to drop passwords from memory
// once they have been sent or hashed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
