package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	keyboardbehavior "github.com/baditaflorin/go_keyboard_behavior"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/textbuffer"
)

// Terminals auto-repeat a held key as a stream of events. Backspace events
// closer together than this are treated as one hold.
const repeatGap = 250 * time.Millisecond

type playground struct {
	screen  tcell.Screen
	session *keyboardbehavior.Session
	buffer  *textbuffer.Buffer

	last    keyboardbehavior.Decision
	lastKey string

	holdStart time.Time
	holdLast  time.Time
}

func runInteractive(ctx context.Context, opts []keyboardbehavior.Option) error {
	session, err := keyboardbehavior.New(append(opts, keyboardbehavior.WithWarmUp(true))...)
	if err != nil {
		return err
	}
	defer session.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault)

	buf := textbuffer.New("", "")
	buf.SetAutocapitalizationHint(keyboardbehavior.HintSentences)
	p := &playground{screen: screen, session: session, buffer: buf}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	p.draw()
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
			return nil
		case *tcell.EventKey:
			if !p.handleKey(ev) {
				return nil
			}
		case nil:
			return nil
		}
		p.draw()
	}
}

// handleKey maps a terminal key to a keyboard action. It returns false
// when the user quits.
func (p *playground) handleKey(ev *tcell.EventKey) bool {
	now := time.Now()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		g, hold := keyboardbehavior.GestureTap, time.Duration(0)
		if !p.holdLast.IsZero() && now.Sub(p.holdLast) < repeatGap {
			g, hold = keyboardbehavior.GestureRepeatPress, now.Sub(p.holdStart)
		} else {
			p.holdStart = now
		}
		p.holdLast = now
		p.handle(g, keyboardbehavior.Backspace(), hold, "backspace")
		return true
	case tcell.KeyTab:
		casing := p.session.KeyboardType().Casing
		p.handle(keyboardbehavior.GestureTap, keyboardbehavior.Shift(casing), 0, "shift")
	case tcell.KeyCtrlN:
		target := keyboardbehavior.Numeric()
		if !p.session.KeyboardType().IsAlphabetic() {
			target = keyboardbehavior.Alphabetic(keyboardbehavior.CasingAuto)
		}
		p.handle(keyboardbehavior.GestureTap, keyboardbehavior.SwitchKeyboardType(target), 0, "keyboard "+target.String())
	case tcell.KeyEnter:
		p.handle(keyboardbehavior.GestureTap, keyboardbehavior.Character("\n"), 0, "enter")
	case tcell.KeyLeft:
		p.buffer.MoveCursor(-1)
	case tcell.KeyRight:
		p.buffer.MoveCursor(1)
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			p.handle(keyboardbehavior.GestureTap, keyboardbehavior.Space(), 0, "space")
		} else {
			p.handle(keyboardbehavior.GestureTap, keyboardbehavior.Character(string(r)), 0, string(r))
		}
	}
	p.holdLast = time.Time{}
	return true
}

func (p *playground) handle(g keyboardbehavior.Gesture, a keyboardbehavior.KeyboardAction, hold time.Duration, label string) {
	p.last = p.session.Handle(p.buffer, g, a, hold)
	p.lastKey = label
}

func (p *playground) draw() {
	s := p.screen
	s.Clear()
	bold := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Dim(true)

	header := fmt.Sprintf("kbsim  locale=%s  keyboard=%s", p.session.Locale().ID, p.session.KeyboardType())
	drawString(s, 0, 0, header, bold)
	if p.lastKey != "" {
		status := fmt.Sprintf("last=%s  range=%s  end-sentence=%t  caps-lock=%t",
			p.lastKey, p.last.DeleteRange, p.last.ShouldEndSentence, p.last.ShouldCapsLock)
		drawString(s, 0, 1, status, tcell.StyleDefault)
	}
	drawString(s, 0, 2, "Tab shift  Ctrl-N numeric  Esc quit", dim)

	before, _ := p.buffer.TextBeforeCursor()
	after, _ := p.buffer.TextAfterCursor()
	lines := strings.Split(before+after, "\n")
	for i, line := range lines {
		drawString(s, 0, 4+i, line, tcell.StyleDefault)
	}

	beforeLines := strings.Split(before, "\n")
	row := 4 + len(beforeLines) - 1
	col := uniseg.StringWidth(beforeLines[len(beforeLines)-1])
	s.ShowCursor(col, row)
	s.Show()
}

// drawString draws text one grapheme cluster per cell run.
func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += g.Width()
	}
}
