package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/thiefmaster/actuatorpanel/comm"
)

const helpText = "↑/↓: Change speed | ←/→: Switch Direction | q: Quit\n" +
	"s: Stop motor | +/-: Increase/decrease speed by %d | a: Change actuator (bucket or lift)"

var errTerminalClosed = errors.New("terminal closed")

// screenTerminal draws the panel with tcell and turns its events into key
// events for the input loop.
type screenTerminal struct {
	screen tcell.Screen
	events chan tcell.Event
}

func openTerminal() (*screenTerminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("could not open terminal: %w", err)
	}
	return newScreenTerminal(s)
}

func newScreenTerminal(s tcell.Screen) (*screenTerminal, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("could not initialize terminal: %w", err)
	}
	s.HideCursor()
	t := &screenTerminal{screen: s, events: make(chan tcell.Event, 16)}
	go t.pump()
	return t, nil
}

// pump feeds events to poll until the screen is finalized.
func (t *screenTerminal) pump() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			close(t.events)
			return
		}
		t.events <- ev
	}
}

func (t *screenTerminal) restore() {
	t.screen.Fini()
}

// poll waits up to timeout for the first event, then takes whatever else is
// already pending.
func (t *screenTerminal) poll(timeout time.Duration) ([]keyEvent, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var keys []keyEvent
	select {
	case ev, ok := <-t.events:
		if !ok {
			return nil, errTerminalClosed
		}
		keys = t.handle(ev, keys)
	case <-timer.C:
		return nil, nil
	}
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return keys, nil
			}
			keys = t.handle(ev, keys)
		default:
			return keys, nil
		}
	}
}

func (t *screenTerminal) handle(ev tcell.Event, keys []keyEvent) []keyEvent {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		if k, ok := translateKey(ev); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func translateKey(ev *tcell.EventKey) (keyEvent, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return keyEvent{key: keyUp}, true
	case tcell.KeyDown:
		return keyEvent{key: keyDown}, true
	case tcell.KeyLeft:
		return keyEvent{key: keyLeft}, true
	case tcell.KeyRight:
		return keyEvent{key: keyRight}, true
	case tcell.KeyCtrlC:
		return keyEvent{key: keyInterrupt}, true
	case tcell.KeyRune:
		return keyEvent{key: keyRune, r: ev.Rune()}, true
	}
	return keyEvent{}, false
}

// draw lays out four stacked panes: speed, direction, status and help.
func (t *screenTerminal) draw(s *controlState, cfg *appConfig) error {
	t.screen.Clear()
	w, h := t.screen.Size()
	const margin = 1
	paneH := (h - 2*margin) / 4
	if paneH < 3 {
		paneH = 3
	}

	dirStr := "Forward"
	if s.direction == comm.Backward {
		dirStr = "Backward"
	}
	panes := []struct{ title, body string }{
		{"Motor Speed", fmt.Sprintf("Speed: %d / %d", s.speed, maxSpeed)},
		{"Motor Direction", "Direction: " + dirStr},
		{"Status", fmt.Sprintf("Status: %s | %v", s.status, s.actuator)},
		{"Controls", fmt.Sprintf(helpText, cfg.CoarseStep)},
	}
	for i, p := range panes {
		drawBox(t.screen, margin, margin+i*paneH, w-2*margin, paneH, p.title, p.body)
	}
	t.screen.Show()
	return nil
}

func drawBox(s tcell.Screen, x, y, w, h int, title, body string) {
	if w < 2 || h < 2 {
		return
	}
	style := tcell.StyleDefault
	right, bottom := x+w-1, y+h-1
	for cx := x + 1; cx < right; cx++ {
		s.SetContent(cx, y, tcell.RuneHLine, nil, style)
		s.SetContent(cx, bottom, tcell.RuneHLine, nil, style)
	}
	for cy := y + 1; cy < bottom; cy++ {
		s.SetContent(x, cy, tcell.RuneVLine, nil, style)
		s.SetContent(right, cy, tcell.RuneVLine, nil, style)
	}
	s.SetContent(x, y, tcell.RuneULCorner, nil, style)
	s.SetContent(right, y, tcell.RuneURCorner, nil, style)
	s.SetContent(x, bottom, tcell.RuneLLCorner, nil, style)
	s.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)

	drawText(s, x+1, y, right, title, style.Bold(true))
	for i, line := range strings.Split(body, "\n") {
		if y+1+i >= bottom {
			break
		}
		drawText(s, x+1, y+1+i, right, line, style)
	}
}

// drawText writes text from x, clipped before maxX.
func drawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if x+rw > maxX {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
}
