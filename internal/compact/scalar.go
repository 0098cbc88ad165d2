package compact

import "encoding/binary"

// ByteCodec, Uint32Codec and Uint64Codec are the scalar codecs
// CVec and CHashMap use for element/key types with no dynamic part of
// their own (kay's "trivially-copyable types are compact with empty
// dynamic part").

// ByteCodec is the element codec CString and byte-oriented CVecs use.
var ByteCodec = Codec[byte]{
	StaticSize:   1,
	EncodeStatic: func(v byte, dst []byte) { dst[0] = v },
	DynamicSize:  func(byte) int { return 0 },
	EncodeDyn:    func(byte, []byte) int { return 0 },
	Decode:       func(static, _ []byte) (byte, int) { return static[0], 0 },
}

// Uint32Codec is the element codec for fixed-width 32-bit values.
var Uint32Codec = Codec[uint32]{
	StaticSize:   4,
	EncodeStatic: func(v uint32, dst []byte) { binary.BigEndian.PutUint32(dst, v) },
	DynamicSize:  func(uint32) int { return 0 },
	EncodeDyn:    func(uint32, []byte) int { return 0 },
	Decode:       func(static, _ []byte) (uint32, int) { return binary.BigEndian.Uint32(static), 0 },
}

// Uint64Codec is the element codec for fixed-width 64-bit values.
var Uint64Codec = Codec[uint64]{
	StaticSize:   8,
	EncodeStatic: func(v uint64, dst []byte) { binary.BigEndian.PutUint64(dst, v) },
	DynamicSize:  func(uint64) int { return 0 },
	EncodeDyn:    func(uint64, []byte) int { return 0 },
	Decode:       func(static, _ []byte) (uint64, int) { return binary.BigEndian.Uint64(static), 0 },
}

// TrivialCodec builds a codec for any fixed-size Go value that has no
// dynamic part at all, given functions to copy it to/from a byte slice of
// exactly staticSize bytes. Use this for structs like RawID.
func TrivialCodec[T any](staticSize int, encode func(T, []byte), decode func([]byte) T) Codec[T] {
	return Codec[T]{
		StaticSize:   staticSize,
		EncodeStatic: encode,
		DynamicSize:  func(T) int { return 0 },
		EncodeDyn:    func(T, []byte) int { return 0 },
		Decode:       func(static, _ []byte) (T, int) { return decode(static), 0 },
	}
}
