package enoch

// clear overwrites x with zeroes, used to scrub the encoded PAK
// Diffie-Hellman value from memory once it is no longer needed.
func clear(x []byte) {
	for i := range x {
		x[i] = 0
	}
}
