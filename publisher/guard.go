package publisher

// admit reports whether the record fits within the single-message size
// ceiling. Zero-length payloads are admitted; only the size is checked
// here.
func admit(r Record, maxMessageBytes int) bool {
	return r.Size() <= maxMessageBytes
}
