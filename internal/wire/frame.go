// Package wire implements the peer-to-peer frame format: a u64
// big-endian length prefix, a 2-byte ShortTypeId, and the compact packet
// bytes that follow (spec.md §4.5). Byte packing is done by hand with
// encoding/binary rather than a serialization library, in the same
// manual-packing idiom the teacher pack's utils/wrappers.Packer uses for
// its own wire structures.
package wire

import (
	"encoding/binary"
	"fmt"
)

// LengthPrefixSize is the size in bytes of a frame's length prefix.
const LengthPrefixSize = 8

// TypeIDSize is the size in bytes of a frame payload's leading
// ShortTypeId.
const TypeIDSize = 2

// EncodeFrame packs msgType and payload into a single frame: an 8-byte
// big-endian length (covering the type id plus payload), the 2-byte
// type id, then payload.
func EncodeFrame(msgType uint16, payload []byte) []byte {
	bodyLen := TypeIDSize + len(payload)
	frame := make([]byte, LengthPrefixSize+bodyLen)
	binary.BigEndian.PutUint64(frame[0:LengthPrefixSize], uint64(bodyLen))
	binary.BigEndian.PutUint16(frame[LengthPrefixSize:LengthPrefixSize+TypeIDSize], msgType)
	copy(frame[LengthPrefixSize+TypeIDSize:], payload)
	return frame
}

// DecodeLength reads the 8-byte big-endian length prefix from buf.
func DecodeLength(buf []byte) (uint64, error) {
	if len(buf) < LengthPrefixSize {
		return 0, fmt.Errorf("wire: length prefix needs %d bytes, got %d", LengthPrefixSize, len(buf))
	}
	return binary.BigEndian.Uint64(buf[:LengthPrefixSize]), nil
}

// DecodeBody splits a frame body (the bytes after the length prefix)
// into its message type id and remaining payload.
func DecodeBody(body []byte) (msgType uint16, payload []byte, err error) {
	if len(body) < TypeIDSize {
		return 0, nil, fmt.Errorf("wire: frame body needs %d bytes for a type id, got %d", TypeIDSize, len(body))
	}
	return binary.BigEndian.Uint16(body[:TypeIDSize]), body[TypeIDSize:], nil
}
