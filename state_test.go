package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiefmaster/actuatorpanel/comm"
)

type fakeSink struct {
	cmds []comm.Command
	err  error
}

func (f *fakeSink) Enqueue(_ context.Context, cmd comm.Command) error {
	if f.err != nil {
		return f.err
	}
	f.cmds = append(f.cmds, cmd)
	return nil
}

func TestSpeedClamping(t *testing.T) {
	ctx := context.Background()
	sink := &fakeSink{}
	s := newControlState(sink)

	require.NoError(t, s.increaseSpeed(ctx, 60000))
	require.NoError(t, s.increaseSpeed(ctx, 5000))
	assert.Equal(t, maxSpeed, s.speed)
	require.NoError(t, s.increaseSpeed(ctx, 1<<31))
	assert.Equal(t, maxSpeed, s.speed)

	require.NoError(t, s.decreaseSpeed(ctx, 65000))
	assert.Equal(t, uint32(535), s.speed)
	require.NoError(t, s.decreaseSpeed(ctx, 1000))
	assert.Equal(t, uint32(0), s.speed)

	assert.Equal(t, []comm.Command{
		comm.NewSetSpeedCommand(60000, comm.Lift),
		comm.NewSetSpeedCommand(65535, comm.Lift),
		comm.NewSetSpeedCommand(65535, comm.Lift),
		comm.NewSetSpeedCommand(535, comm.Lift),
		comm.NewSetSpeedCommand(0, comm.Lift),
	}, sink.cmds)
}

func TestSetDirectionAndStop(t *testing.T) {
	ctx := context.Background()
	sink := &fakeSink{}
	s := newControlState(sink)

	require.NoError(t, s.increaseSpeed(ctx, 3000))
	require.NoError(t, s.setDirection(ctx, comm.Backward))
	require.NoError(t, s.stop(ctx))

	assert.Equal(t, comm.Backward, s.direction)
	assert.Equal(t, uint32(0), s.speed)
	assert.Equal(t, []comm.Command{
		comm.NewSetSpeedCommand(3000, comm.Lift),
		comm.NewSetDirectionCommand(comm.Backward, comm.Lift),
		comm.NewStopCommand(comm.Lift),
	}, sink.cmds)
}

func TestSwitchActuatorZeroesDepartingActuator(t *testing.T) {
	ctx := context.Background()
	sink := &fakeSink{}
	s := newControlState(sink)

	require.NoError(t, s.increaseSpeed(ctx, 20000))
	require.NoError(t, s.switchActuator(ctx))
	assert.Equal(t, comm.Bucket, s.actuator)
	assert.Equal(t, uint32(0), s.speed)
	assert.Equal(t, "Switched to Bucket", s.status)

	require.NoError(t, s.increaseSpeed(ctx, 1000))
	require.NoError(t, s.switchActuator(ctx))
	assert.Equal(t, comm.Lift, s.actuator)

	assert.Equal(t, []comm.Command{
		comm.NewSetSpeedCommand(20000, comm.Lift),
		comm.NewStopCommand(comm.Lift),
		comm.NewSetSpeedCommand(1000, comm.Bucket),
		comm.NewStopCommand(comm.Bucket),
	}, sink.cmds)
}

func TestEnqueueErrorIsReturned(t *testing.T) {
	sink := &fakeSink{err: comm.ErrDispatcherClosed}
	s := newControlState(sink)
	assert.ErrorIs(t, s.stop(context.Background()), comm.ErrDispatcherClosed)
}
