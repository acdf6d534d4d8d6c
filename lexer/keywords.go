package lexer

// upperASCII writes the uppercased form of raw into scratch, when raw fits
// in scratch, and returns a string copy of that part of scratch. This is
// the fast path used to classify identifiers against a dialect.Profile's
// keyword table, which is keyed by uppercase spelling. Longer identifiers
// fall back to an allocating uppercase (they cannot be keywords anyway,
// since no keyword in the table exceeds scratchLen bytes, but they still
// need an Upper form for case-insensitive identifier comparisons).
const scratchLen = 64

func upperASCII(scratch *[scratchLen]byte, raw []byte) string {
	if len(raw) > len(scratch) {
		return upperASCIIAlloc(raw)
	}
	for i, c := range raw {
		if c >= 'a' && c <= 'z' {
			scratch[i] = c - 32
		} else {
			scratch[i] = c
		}
	}
	return string(scratch[:len(raw)])
}

func upperASCIIAlloc(raw []byte) string {
	out := make([]byte, len(raw))
	for i, c := range raw {
		if c >= 'a' && c <= 'z' {
			out[i] = c - 32
		} else {
			out[i] = c
		}
	}
	return string(out)
}
