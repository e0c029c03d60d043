package main

import (
	"context"

	"github.com/thiefmaster/actuatorpanel/comm"
)

const maxSpeed uint32 = comm.MaxSpeed

type commandSink interface {
	Enqueue(ctx context.Context, cmd comm.Command) error
}

// controlState is the operator-facing state. It is owned by the input loop;
// every mutation enqueues exactly one command describing the new state.
type controlState struct {
	speed     uint32
	direction comm.Direction
	actuator  comm.Actuator
	status    string
	sink      commandSink
}

func newControlState(sink commandSink) *controlState {
	return &controlState{
		direction: comm.Forward,
		actuator:  comm.Lift,
		status:    "Ready",
		sink:      sink,
	}
}

func (s *controlState) increaseSpeed(ctx context.Context, amount uint32) error {
	if amount > maxSpeed-s.speed {
		s.speed = maxSpeed
	} else {
		s.speed += amount
	}
	return s.sendSpeed(ctx)
}

func (s *controlState) decreaseSpeed(ctx context.Context, amount uint32) error {
	if amount > s.speed {
		s.speed = 0
	} else {
		s.speed -= amount
	}
	return s.sendSpeed(ctx)
}

func (s *controlState) setDirection(ctx context.Context, d comm.Direction) error {
	s.direction = d
	return s.sink.Enqueue(ctx, comm.NewSetDirectionCommand(d, s.actuator))
}

func (s *controlState) stop(ctx context.Context) error {
	s.speed = 0
	return s.sendSpeed(ctx)
}

// switchActuator zeroes the actuator being left before selecting the other
// one, so it is never left running unattended.
func (s *controlState) switchActuator(ctx context.Context) error {
	departing := s.actuator
	s.speed = 0
	s.actuator = departing.Other()
	s.status = "Switched to " + s.actuator.String()
	return s.sink.Enqueue(ctx, comm.NewStopCommand(departing))
}

func (s *controlState) sendSpeed(ctx context.Context) error {
	return s.sink.Enqueue(ctx, comm.NewSetSpeedCommand(uint16(s.speed), s.actuator))
}
