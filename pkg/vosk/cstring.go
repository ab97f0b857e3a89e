package vosk

// NullTerminated returns a new buffer holding the UTF-8 bytes of s followed by
// a single zero byte, the layout the native layer expects for const char*.
// The result never aliases s and is len(s)+1 bytes long.
func NullTerminated(s string) []byte {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return buf
}
