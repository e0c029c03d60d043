package comm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const MinPacing = 50 * time.Millisecond

var ErrDispatcherClosed = errors.New("dispatcher closed")

// Dispatcher is the only writer to the serial link. Commands are written in
// the order they were enqueued, one at a time, with at least MinPacing
// between the end of one and the next dequeue. It waits only for the next
// command and for the pacing timer; a link that cannot take a frame right
// away fails that command.
type Dispatcher struct {
	link     Link
	status   *StatusQueue
	commands chan Command
	pacing   time.Duration
	log      logrus.FieldLogger

	mu     sync.RWMutex
	closed bool
}

type DispatcherOption func(*Dispatcher)

// WithPacing raises the pause between commands. Values below MinPacing are
// ignored.
func WithPacing(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		if d > MinPacing {
			disp.pacing = d
		}
	}
}

func WithLogger(l logrus.FieldLogger) DispatcherOption {
	return func(disp *Dispatcher) {
		disp.log = l
	}
}

func NewDispatcher(link Link, status *StatusQueue, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		link:     link,
		status:   status,
		commands: make(chan Command, CommandQueueSize),
		pacing:   MinPacing,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Enqueue adds cmd to the command queue, waiting for space if it is full.
func (d *Dispatcher) Enqueue(ctx context.Context, cmd Command) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting commands. Run returns once the queue is drained.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.commands)
	}
}

// Run processes commands until the queue is closed and drained or ctx is
// done. Commands still queued when ctx ends are not written.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case cmd, ok := <-d.commands:
			if !ok {
				return nil
			}
			d.dispatch(cmd)
		case <-ctx.Done():
			return ctx.Err()
		}

		timer := time.NewTimer(d.pacing)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

func (d *Dispatcher) dispatch(cmd Command) {
	frame := Encode(cmd)
	log := d.log.WithFields(logrus.Fields{
		"command":  cmd.String(),
		"actuator": cmd.Actuator().String(),
		"frame":    fmt.Sprintf("% x", frame[:]),
	})
	if err := d.write(frame); err != nil {
		log.WithError(err).Warn("serial write failed")
		d.status.Push(fmt.Sprintf("Serial error: %v", err))
		return
	}
	log.Debug("frame written")
	d.status.Push(describe(cmd))
}

func (d *Dispatcher) write(frame Frame) error {
	n, err := d.link.TryWrite(frame[:])
	if err != nil {
		return err
	}
	if n != len(frame) {
		return io.ErrShortWrite
	}
	return nil
}

func describe(cmd Command) string {
	if cmd.IsSetDirection() {
		return fmt.Sprintf("Set direction to %v on %v", cmd.Direction(), cmd.Actuator())
	}
	return fmt.Sprintf("Set speed to %d on %v", cmd.Speed(), cmd.Actuator())
}
