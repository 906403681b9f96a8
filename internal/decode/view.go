package decode

import "encoding/binary"

// View is a read-only window over a captured frame. Every accessor checks
// the requested range against the slice length and reports ok=false
// instead of reading past the end.
type View []byte

// Len returns the number of captured bytes.
func (v View) Len() int {
	return len(v)
}

// Uint16 reads a big-endian 16-bit value at off.
func (v View) Uint16(off int) (uint16, bool) {
	b, ok := v.Bytes(off, 2)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint16(b), true
}

// Bytes returns the n bytes starting at off.
func (v View) Bytes(off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(v) || n > len(v)-off {
		return nil, false
	}
	return v[off : off+n : off+n], true
}

// Tail returns at most max bytes starting at off, clamped to the end of
// the view. off itself must lie within the view.
func (v View) Tail(off, max int) ([]byte, bool) {
	if off < 0 || max < 0 || off > len(v) {
		return nil, false
	}
	if rest := len(v) - off; max > rest {
		max = rest
	}
	return v[off : off+max : off+max], true
}
