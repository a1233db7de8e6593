// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixedpoint

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

var (
	_ rlp.Encoder      = Q64x128{}
	_ rlp.Decoder      = (*Q64x128)(nil)
	_ json.Marshaler   = Q64x128{}
	_ json.Unmarshaler = (*Q64x128)(nil)
)

// Bytes returns the 24 byte little-endian encoding, words ordered lo, mid, hi.
func (q Q64x128) Bytes() []byte {
	b := make([]byte, ByteLength)
	binary.LittleEndian.PutUint64(b[0:], q.v[0])
	binary.LittleEndian.PutUint64(b[8:], q.v[1])
	binary.LittleEndian.PutUint64(b[16:], q.v[2])
	return b
}

// SetBytes decodes the 24 byte little-endian encoding.
func (q *Q64x128) SetBytes(b []byte) error {
	if len(b) != ByteLength {
		return fmt.Errorf("fixedpoint: invalid encoding length %d", len(b))
	}
	*q = FromWords(
		binary.LittleEndian.Uint64(b[0:]),
		binary.LittleEndian.Uint64(b[8:]),
		binary.LittleEndian.Uint64(b[16:]),
	)
	return nil
}

// EncodeRLP implements rlp.Encoder.
func (q Q64x128) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, q.Bytes())
}

// DecodeRLP implements rlp.Decoder.
func (q *Q64x128) DecodeRLP(s *rlp.Stream) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	return q.SetBytes(b)
}

type jsonQ64x128 struct {
	Raw   string `json:"raw"`
	Value string `json:"value"`
}

// MarshalJSON encodes the exact magnitude next to a readable decimal form.
func (q Q64x128) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonQ64x128{Raw: q.Raw(), Value: q.String()})
}

// UnmarshalJSON decodes from the raw magnitude, the readable form is ignored.
func (q *Q64x128) UnmarshalJSON(data []byte) error {
	var obj jsonQ64x128
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	parsed, err := ParseRaw(obj.Raw)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
