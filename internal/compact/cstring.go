package compact

// CString is a compact-memory UTF-8 string, modeled on kay's CString
// wrapping a CVec<u8>.
type CString struct {
	bytes *CVec[byte]
}

// NewCString returns an empty compact string.
func NewCString() *CString {
	return &CString{bytes: NewCVec(ByteCodec)}
}

// NewCStringFrom returns a compact string initialized with s.
func NewCStringFrom(s string) *CString {
	cs := NewCString()
	cs.PushStr(s)
	return cs
}

// IsStillCompact implements Value.
func (s *CString) IsStillCompact() bool { return s.bytes.IsStillCompact() }

// DynamicSizeBytes implements Value.
func (s *CString) DynamicSizeBytes() int { return s.bytes.DynamicSizeBytes() }

// PushStr appends s's bytes.
func (s *CString) PushStr(str string) {
	s.bytes.ExtendFromCopySlice([]byte(str))
}

// String returns the string's current contents (deref to string slice, in
// kay's terms).
func (s *CString) String() string {
	buf := make([]byte, 0, s.bytes.Len())
	s.bytes.Iterate(func(b byte) { buf = append(buf, b) })
	return string(buf)
}

// Compact serializes the string into dst and returns bytes written.
func (s *CString) Compact(dst []byte) int {
	return s.bytes.Compact(dst)
}

// Decompact returns an independent, free copy of the string.
func (s *CString) Decompact() *CString {
	return &CString{bytes: s.bytes.Decompact()}
}
