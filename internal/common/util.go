// Package common contains small helpers shared across client components.
package common

// WipeByteArray overwrites the buffer with zeros. Safe on nil slices.
// Use it on password buffers once they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
