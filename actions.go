package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/thiefmaster/actuatorpanel/comm"
)

type action string

// action names, shared by the keymap and the remote panel
const (
	actionNone         action = ""
	actionFaster       action = "faster"
	actionSlower       action = "slower"
	actionFasterCoarse action = "faster-coarse"
	actionSlowerCoarse action = "slower-coarse"
	actionForward      action = "forward"
	actionBackward     action = "backward"
	actionStop         action = "stop"
	actionSwitch       action = "switch"
	actionQuit         action = "quit"
)

type key int

const (
	keyNone key = iota
	keyUp
	keyDown
	keyLeft
	keyRight
	keyRune
	keyInterrupt
)

type keyEvent struct {
	key key
	r   rune
}

func keyAction(ev keyEvent) action {
	switch ev.key {
	case keyUp:
		return actionFaster
	case keyDown:
		return actionSlower
	case keyLeft:
		return actionBackward
	case keyRight:
		return actionForward
	case keyInterrupt:
		return actionQuit
	case keyRune:
		switch ev.r {
		case 'q':
			return actionQuit
		case 's':
			return actionStop
		case '+':
			return actionFasterCoarse
		case '-':
			return actionSlowerCoarse
		case 'a':
			return actionSwitch
		}
	}
	return actionNone
}

func parseAction(name string) (action, error) {
	switch a := action(name); a {
	case actionFaster, actionSlower, actionFasterCoarse, actionSlowerCoarse,
		actionForward, actionBackward, actionStop, actionSwitch:
		return a, nil
	default:
		return actionNone, fmt.Errorf("unknown action %q", name)
	}
}

// applyAction mutates state for a. Quit is handled by the caller.
func applyAction(ctx context.Context, state *controlState, a action, cfg *appConfig) error {
	var err error
	switch a {
	case actionFaster:
		err = state.increaseSpeed(ctx, cfg.FineStep)
	case actionSlower:
		err = state.decreaseSpeed(ctx, cfg.FineStep)
	case actionFasterCoarse:
		err = state.increaseSpeed(ctx, cfg.CoarseStep)
	case actionSlowerCoarse:
		err = state.decreaseSpeed(ctx, cfg.CoarseStep)
	case actionForward:
		err = state.setDirection(ctx, comm.Forward)
	case actionBackward:
		err = state.setDirection(ctx, comm.Backward)
	case actionStop:
		err = state.stop(ctx)
	case actionSwitch:
		err = state.switchActuator(ctx)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"action":   string(a),
		"speed":    state.speed,
		"actuator": state.actuator.String(),
	}).Debug("applied action")
	return nil
}
