package sysexproto

import "fmt"

// FxEnableBit indices within FxState.EnableFlags (bit0..4).
const (
	FxEnableBitDistortion = 0
	FxEnableBitFilter     = 1
	FxEnableBitEQ         = 2
	FxEnableBitCompressor = 3
	FxEnableBitDelay      = 4
)

// FxState is the decoded form of an FX_STATE_RESPONSE body (spec.md
// §4.5.2): program_id, version, fx_route, enable_flags, then each stage's
// 7-bit parameter bytes, padded to the fixed 32-byte body.
type FxState struct {
	ProgramID   byte
	Version     byte
	FxRoute     byte
	EnableFlags byte
	Distortion  [2]byte
	Filter      [2]byte
	EQ          [3]byte
	Compressor  [5]byte
	Delay       [3]byte
}

// EnabledStage reports whether bit is set in EnableFlags.
func (s FxState) EnabledStage(bit int) bool {
	return s.EnableFlags&(1<<uint(bit)) != 0
}

// EncodeFxState serializes s into the fixed 32-byte FX_STATE_RESPONSE body.
func EncodeFxState(s FxState) [FxStateBodySize]byte {
	var body [FxStateBodySize]byte
	body[0] = s.ProgramID
	body[1] = s.Version
	body[2] = s.FxRoute
	body[3] = s.EnableFlags
	i := 4
	i += copy(body[i:], s.Distortion[:])
	i += copy(body[i:], s.Filter[:])
	i += copy(body[i:], s.EQ[:])
	i += copy(body[i:], s.Compressor[:])
	i += copy(body[i:], s.Delay[:])
	// remaining 13 bytes are reserved and stay zero.
	return body
}

// DecodeFxState parses a 32-byte FX_STATE_RESPONSE body.
func DecodeFxState(body []byte) (FxState, error) {
	if len(body) != FxStateBodySize {
		return FxState{}, fmt.Errorf("sysexproto: fx state body is %d bytes, want %d", len(body), FxStateBodySize)
	}
	var s FxState
	s.ProgramID = body[0]
	s.Version = body[1]
	s.FxRoute = body[2]
	s.EnableFlags = body[3]
	i := 4
	i += copy(s.Distortion[:], body[i:i+2])
	i += copy(s.Filter[:], body[i:i+2])
	i += copy(s.EQ[:], body[i:i+3])
	i += copy(s.Compressor[:], body[i:i+5])
	copy(s.Delay[:], body[i:i+3])
	return s, nil
}
