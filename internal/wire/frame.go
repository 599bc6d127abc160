package wire

// Records returns every top level balanced brace region in b, in order.
// A closing brace with no matching opener is skipped, and a region still
// open at the end of b is dropped: it is the head of a record whose tail has
// not arrived yet.
//
// Braces are counted without regard to JSON strings, so a payload must
// never carry an unbalanced brace inside a string value.
func Records(b []byte) [][]byte {
	var records [][]byte
	depth := 0
	start := -1
	for i, c := range b {
		switch c {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				records = append(records, b[start:i+1])
				start = -1
			}
		}
	}
	return records
}

// LastRecord returns the newest complete record in b. Earlier records were
// coalesced in the socket buffer and are already stale.
func LastRecord(b []byte) ([]byte, error) {
	records := Records(b)
	if len(records) == 0 {
		return nil, ErrNoRecord
	}
	return records[len(records)-1], nil
}
