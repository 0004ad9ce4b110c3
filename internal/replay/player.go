package replay

import (
	"context"
	"fmt"
	"io"
	"time"

	keyboardbehavior "github.com/baditaflorin/go_keyboard_behavior"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/clock"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/textbuffer"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
)

// Epoch is where the player's clock starts.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Result is the outcome of one decision. A pressed step yields one result
// per button fire.
type Result struct {
	Step         int
	Gesture      domain.Gesture
	Action       domain.KeyboardAction
	Decision     domain.Decision
	Text         string
	KeyboardType domain.KeyboardType
}

func (r Result) String() string {
	return fmt.Sprintf("%3d %-11s %-22s range=%-9s end=%-5t caps=%-5t type=%-22s text=%q",
		r.Step, r.Gesture, r.Action, r.Decision.DeleteRange, r.Decision.ShouldEndSentence,
		r.Decision.ShouldCapsLock, r.KeyboardType, r.Text)
}

// Player runs one script against its own session, buffer and clock.
type Player struct {
	script  *Script
	session *keyboardbehavior.Session
	buffer  *textbuffer.Buffer
	clock   *clock.Manual
}

// NewPlayer creates a session for sc. opts are applied after the script's
// locale and keyboard type, so they win.
func NewPlayer(sc *Script, opts ...keyboardbehavior.Option) (*Player, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	c := clock.NewManual(Epoch)
	base := []keyboardbehavior.Option{keyboardbehavior.WithClock(c)}
	if sc.Locale != "" {
		base = append(base, keyboardbehavior.WithLocale(sc.Locale))
	}
	if sc.KeyboardType != "" {
		t, _ := ParseKeyboardType(sc.KeyboardType)
		base = append(base, keyboardbehavior.WithKeyboardType(t))
	}
	s, err := keyboardbehavior.New(append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	hint, _ := ParseHint(sc.Hint)
	buf := textbuffer.New(sc.Before, sc.After)
	buf.SetAutocapitalizationHint(hint)
	return &Player{script: sc, session: s, buffer: buf, clock: c}, nil
}

// Session returns the session the script runs against.
func (p *Player) Session() *keyboardbehavior.Session { return p.session }

// Text returns the buffer's current contents.
func (p *Player) Text() string { return p.buffer.Text() }

// Run plays every step, writing one line per result to w when w is not
// nil. It stops early when ctx is done.
func (p *Player) Run(ctx context.Context, w io.Writer) ([]Result, error) {
	var results []Result
	emit := func(r Result) {
		results = append(results, r)
		if w != nil {
			fmt.Fprintln(w, r)
		}
	}

	for i, st := range p.script.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		p.clock.Advance(st.Advance.Duration)

		ev, err := st.KeyEvent()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if ev.Action.IsShift() {
			ev.Action.Casing = p.session.KeyboardType().Casing
		}

		switch {
		case st.IsSuggestion():
			p.session.InsertSuggestion(p.buffer, st.Text)
			emit(Result{
				Step:         i + 1,
				Gesture:      ev.Gesture,
				Action:       ev.Action,
				Decision:     domain.Decision{PreferredType: p.session.KeyboardType()},
				Text:         p.buffer.Text(),
				KeyboardType: p.session.KeyboardType(),
			})
		case st.Press:
			if err := p.press(i+1, ev.Action, st.Hold.Duration, emit); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		default:
			d := p.session.Handle(p.buffer, ev.Gesture, ev.Action, ev.HoldDuration)
			emit(Result{
				Step:         i + 1,
				Gesture:      ev.Gesture,
				Action:       ev.Action,
				Decision:     d,
				Text:         p.buffer.Text(),
				KeyboardType: p.session.KeyboardType(),
			})
		}
	}
	return results, nil
}

func (p *Player) press(step int, a domain.KeyboardAction, hold time.Duration, emit func(Result)) error {
	b, err := p.session.NewButton(a, p.buffer)
	if err != nil {
		return err
	}
	defer b.Close()

	gesture := domain.GestureTap
	b.OnDecision(func(d domain.Decision) {
		emit(Result{
			Step:         step,
			Gesture:      gesture,
			Action:       a,
			Decision:     d,
			Text:         p.buffer.Text(),
			KeyboardType: p.session.KeyboardType(),
		})
		gesture = domain.GestureRepeatPress
	})

	b.TouchesBegan()
	p.clock.Advance(hold)
	b.TouchesEnded()
	return nil
}

// Close releases the session.
func (p *Player) Close() error { return p.session.Close() }
