package midi

// maxVLQBytes is fixed by the SMF spec: a delta-time or meta length never
// encodes to more than 4 bytes (28 bits of payload).
const maxVLQBytes = 4

// decodeVLQ reads one variable-length quantity from data starting at cursor.
// Groups are big-endian base 128; the high bit of each byte flags a
// continuation. Returns the decoded value and the number of bytes consumed.
// The offset argument is only used to report absolute positions in errors.
func decodeVLQ(data []byte, cursor int, offset int) (value uint32, consumed int, err *ParseError) {
	for {
		if cursor+consumed >= len(data) {
			return 0, 0, errVLQ(offset+cursor+consumed, "input ended inside a variable-length quantity")
		}
		c := data[cursor+consumed]
		consumed++
		value = value<<7 | uint32(c&0x7f)
		if c&0x80 == 0 {
			return value, consumed, nil
		}
		if consumed >= maxVLQBytes {
			return 0, 0, errVLQ(offset+cursor, "variable-length quantity exceeds 4 bytes")
		}
	}
}
