package comm

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrWrongLength      = errors.New("wrong frame length")
	ErrInvalidTag       = errors.New("invalid variant tag")
	ErrUnknownActuator  = errors.New("unknown actuator")
	ErrInvalidDirection = errors.New("invalid direction value")
)

// Wire identifiers. Decoding goes through the reverse tables so that an
// unknown byte is rejected instead of being cast into an enum value.
var (
	actuatorIDs  = map[Actuator]byte{Lift: 0, Bucket: 1}
	directionIDs = map[Direction]byte{Forward: 0, Backward: 1}

	actuatorsByID  = map[byte]Actuator{0: Lift, 1: Bucket}
	directionsByID = map[byte]Direction{0: Forward, 1: Backward}
)

func actuatorID(a Actuator) byte {
	if id, ok := actuatorIDs[a]; ok {
		return id
	}
	// out-of-range values are written as-is so Decode rejects them
	return byte(a)
}

func directionID(d Direction) byte {
	if id, ok := directionIDs[d]; ok {
		return id
	}
	return byte(d)
}

// Encode returns the wire frame for cmd.
func Encode(cmd Command) Frame {
	var f Frame
	f[0] = byte(cmd.kind)
	switch cmd.kind {
	case setDirection:
		f[1] = directionID(cmd.direction)
	default:
		f[0] = byte(setSpeed)
		binary.LittleEndian.PutUint16(f[1:3], cmd.speed)
	}
	f[3] = actuatorID(cmd.actuator)
	return f
}

// Decode parses a wire frame. The length is checked first, then the
// actuator id, then the tag and its payload. Byte 2 of a SetDirection frame
// is reserved and ignored.
func Decode(b []byte) (Command, error) {
	if len(b) != FrameSize {
		return Command{}, fmt.Errorf("%w: got %d bytes, want %d", ErrWrongLength, len(b), FrameSize)
	}
	actuator, ok := actuatorsByID[b[3]]
	if !ok {
		return Command{}, fmt.Errorf("%w: 0x%02x", ErrUnknownActuator, b[3])
	}
	switch commandKind(b[0]) {
	case setSpeed:
		return NewSetSpeedCommand(binary.LittleEndian.Uint16(b[1:3]), actuator), nil
	case setDirection:
		direction, ok := directionsByID[b[1]]
		if !ok {
			return Command{}, fmt.Errorf("%w: 0x%02x", ErrInvalidDirection, b[1])
		}
		return NewSetDirectionCommand(direction, actuator), nil
	default:
		return Command{}, fmt.Errorf("%w: 0x%02x", ErrInvalidTag, b[0])
	}
}
