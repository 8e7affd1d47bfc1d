package sysexproto

import "fmt"

// RawChunkSize is the fixed size of a raw (pre-encoding) file chunk
// (spec.md §4.5.3).
const RawChunkSize = 256

// Encode7Bit packs 7-bit-safe MIDI data: every 7 input bytes become 8
// output bytes — byte 0 is a mask holding the top bit of each of the
// following 7 bytes, bytes 1..7 carry the low 7 bits. The final partial
// block is zero-padded.
func Encode7Bit(data []byte) []byte {
	out := make([]byte, 0, (len(data)/7+1)*8)
	for i := 0; i < len(data); i += 7 {
		end := i + 7
		if end > len(data) {
			end = len(data)
		}
		block := data[i:end]

		var mask byte
		encoded := make([]byte, 7)
		for j, b := range block {
			if b&0x80 != 0 {
				mask |= 1 << uint(j)
			}
			encoded[j] = b & 0x7F
		}
		out = append(out, mask)
		out = append(out, encoded...)
	}
	return out
}

// Decode7Bit reverses Encode7Bit. totalSize, if >= 0, truncates the
// decoded output to that many bytes (the announced total size covers the
// zero-padding in the last block).
func Decode7Bit(encoded []byte, totalSize int) ([]byte, error) {
	if len(encoded)%8 != 0 {
		return nil, fmt.Errorf("sysexproto: encoded length %d is not a multiple of 8", len(encoded))
	}

	out := make([]byte, 0, len(encoded)/8*7)
	for i := 0; i < len(encoded); i += 8 {
		mask := encoded[i]
		for j := 0; j < 7; j++ {
			b := encoded[i+1+j]
			if mask&(1<<uint(j)) != 0 {
				b |= 0x80
			}
			out = append(out, b)
		}
	}

	if totalSize >= 0 {
		if totalSize > len(out) {
			return nil, fmt.Errorf("sysexproto: announced total size %d exceeds decoded length %d", totalSize, len(out))
		}
		out = out[:totalSize]
	}
	return out, nil
}
