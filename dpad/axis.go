package dpad

import (
	"encoding/binary"
	"io"
	"math"
)

// Raw stick range of the gamepad state.
const (
	AxisMin uint16 = 0
	AxisMid uint16 = 0x7FFF
	AxisMax uint16 = 0xFFFF
)

// NormalizeAxis maps a raw axis reading to [-1, 1] around AxisMid.
func NormalizeAxis(raw uint16) float64 {
	return (float64(raw) - float64(AxisMid)) / float64(AxisMax-AxisMid)
}

// DenormalizeAxis is the inverse of NormalizeAxis. v is clamped to [-1, 1].
func DenormalizeAxis(v float64) uint16 {
	if math.IsNaN(v) {
		return AxisMid
	}
	v = math.Max(-1, math.Min(1, v))
	r := math.Round(v*float64(AxisMax-AxisMid) + float64(AxisMid))
	if r < 0 {
		return AxisMin
	}
	return uint16(r)
}

// SampleFromRaw converts raw lx/ly readings into a Sample.
func SampleFromRaw(lx, ly uint16) Sample {
	return Sample{X: NormalizeAxis(lx), Y: NormalizeAxis(ly)}
}

// InputFrame is the wire format for one raw stick reading sent from client
// to server on a stream.
// Layout (little-endian):
//
//	0-1: LX
//	2-3: LY
type InputFrame struct {
	LX, LY uint16
}

// InputFrameSize is the encoded size of an InputFrame.
const InputFrameSize = 4

// Sample converts the frame into a normalized Sample.
func (f InputFrame) Sample() Sample { return SampleFromRaw(f.LX, f.LY) }

// MarshalBinary encodes InputFrame to 4 bytes.
func (f *InputFrame) MarshalBinary() ([]byte, error) {
	b := make([]byte, InputFrameSize)
	binary.LittleEndian.PutUint16(b[0:2], f.LX)
	binary.LittleEndian.PutUint16(b[2:4], f.LY)
	return b, nil
}

// UnmarshalBinary decodes 4 bytes into InputFrame.
func (f *InputFrame) UnmarshalBinary(data []byte) error {
	if len(data) < InputFrameSize {
		return io.ErrUnexpectedEOF
	}
	f.LX = binary.LittleEndian.Uint16(data[0:2])
	f.LY = binary.LittleEndian.Uint16(data[2:4])
	return nil
}

// OutputFrame is the 1-byte d-pad bitmask sent back for every InputFrame.
type OutputFrame struct {
	Dpad Direction
}

// MarshalBinary encodes OutputFrame to 1 byte.
func (f *OutputFrame) MarshalBinary() ([]byte, error) {
	return []byte{byte(f.Dpad)}, nil
}

// UnmarshalBinary decodes 1 byte into OutputFrame.
func (f *OutputFrame) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return io.ErrUnexpectedEOF
	}
	f.Dpad = Direction(data[0])
	return nil
}
