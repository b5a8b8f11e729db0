package wire

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrVarlenTooLarge is returned by WriteVarlen when the value to encode
// does not fit the documented [0, 2^31) range (spec.md §4.8, §8).
var ErrVarlenTooLarge = errors.New("wire: varlen value exceeds 2^31-1")

// varlenHighBit marks the 4-byte encoding: bytes 0x80..0xff are the
// first byte of a big-endian uint32 whose top bit is set and whose
// remaining 31 bits hold the value.
const varlenHighBit = 0x80000000

// WriteVarlen encodes n using the spec's three-shape varlen prefix:
// 0x00 for zero, a single byte for [1, 0x7f], or a 4-byte big-endian
// word with the top bit set for anything larger. n must be < 2^31.
func WriteVarlen(w io.Writer, n uint32) error {
	if n >= varlenHighBit {
		return ErrVarlenTooLarge
	}

	if n == 0 {
		_, err := w.Write([]byte{0x00})
		return err
	}
	if n <= 0x7f {
		_, err := w.Write([]byte{byte(n)})
		return err
	}

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n|varlenHighBit)
	_, err := w.Write(buf[:])
	return err
}

// ReadVarlen decodes a varlen-prefixed value from r, reading either 1 or
// 4 bytes depending on the leading byte.
func ReadVarlen(r io.Reader) (uint32, error) {
	var first [1]byte
	if _, err := io.ReadFull(r, first[:]); err != nil {
		return 0, err
	}

	b := first[0]
	if b == 0x00 {
		return 0, nil
	}
	if b <= 0x7f {
		return uint32(b), nil
	}

	rest := make([]byte, 3)
	if _, err := io.ReadFull(r, rest); err != nil {
		return 0, err
	}

	full := binary.BigEndian.Uint32([]byte{b, rest[0], rest[1], rest[2]})
	return full &^ varlenHighBit, nil
}

// KeyOrHash is either an opaque vertex key or a pre-computed 64-bit
// vertex hash, as used by the edges/getResultsByVertices endpoints
// (spec.md §4.8). Exactly one of Key (non-nil) or Hash applies.
type KeyOrHash struct {
	Key  []byte
	Hash uint64
}

// HasHash reports whether this field carries a precomputed hash rather
// than a literal key.
func (kh KeyOrHash) HasHash() bool { return kh.Key == nil }

// WriteKeyOrHash encodes kh: a varlen=0 sentinel followed by an 8-byte
// big-endian hash when kh carries a hash, or a varlen length followed
// by the literal key bytes otherwise.
func WriteKeyOrHash(w io.Writer, kh KeyOrHash) error {
	if kh.HasHash() {
		if _, err := w.Write([]byte{0x00}); err != nil {
			return err
		}
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], kh.Hash)
		_, err := w.Write(buf[:])
		return err
	}

	if err := WriteVarlen(w, uint32(len(kh.Key))); err != nil {
		return err
	}
	_, err := w.Write(kh.Key)
	return err
}

// ReadKeyOrHash decodes a KeyOrHash field from r.
func ReadKeyOrHash(r io.Reader) (KeyOrHash, error) {
	n, err := ReadVarlen(r)
	if err != nil {
		return KeyOrHash{}, err
	}

	if n == 0 {
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return KeyOrHash{}, err
		}
		return KeyOrHash{Hash: binary.BigEndian.Uint64(buf[:])}, nil
	}

	key := make([]byte, n)
	if _, err := io.ReadFull(r, key); err != nil {
		return KeyOrHash{}, err
	}
	return KeyOrHash{Key: key}, nil
}
