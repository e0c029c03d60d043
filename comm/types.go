package comm

import "fmt"

type Actuator uint8
type Direction uint8
type commandKind uint8

// Actuator values
const (
	Lift Actuator = iota
	Bucket
)

// Direction values
const (
	Forward Direction = iota
	Backward
)

// commandKind values, doubling as the frame tag
const (
	setSpeed commandKind = iota
	setDirection
)

const (
	FrameSize = 4
	MaxSpeed  = 65535

	CommandQueueSize = 100
	StatusQueueSize  = 100
)

// Frame is the wire encoding of one command:
// [tag, payload lo, payload hi or 0, actuator id].
type Frame [FrameSize]byte

// Command is one actuator command. Build it with NewSetSpeedCommand or
// NewSetDirectionCommand; the zero value is SetSpeed(0, Lift).
type Command struct {
	kind      commandKind
	speed     uint16
	direction Direction
	actuator  Actuator
}

func (c Command) IsSetSpeed() bool     { return c.kind == setSpeed }
func (c Command) IsSetDirection() bool { return c.kind == setDirection }
func (c Command) Speed() uint16        { return c.speed }
func (c Command) Direction() Direction { return c.direction }
func (c Command) Actuator() Actuator   { return c.actuator }

func (c Command) String() string {
	if c.kind == setDirection {
		return fmt.Sprintf("SetDirection(%v, %v)", c.direction, c.actuator)
	}
	return fmt.Sprintf("SetSpeed(%d, %v)", c.speed, c.actuator)
}

func (a Actuator) String() string {
	switch a {
	case Lift:
		return "Lift"
	case Bucket:
		return "Bucket"
	default:
		return fmt.Sprintf("Actuator(%d)", uint8(a))
	}
}

// Other returns the actuator that is not a.
func (a Actuator) Other() Actuator {
	if a == Lift {
		return Bucket
	}
	return Lift
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}
