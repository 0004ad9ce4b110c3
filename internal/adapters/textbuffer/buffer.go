// Package textbuffer provides an in-memory ports.TextContext, used by tests,
// the simulator and hosts without a native text proxy.
package textbuffer

import (
	"strings"
	"sync"

	"github.com/rivo/uniseg"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
)

// Buffer is a text document with a cursor. Offsets and counts are in
// grapheme clusters.
type Buffer struct {
	mu       sync.Mutex
	before   []string
	after    []string
	selected string
	hint     domain.AutocapitalizationHint
	hasHint  bool
	// noContext makes the query methods report unavailable values, like a
	// host that denies access to the document.
	noContext bool
}

var _ ports.TextContext = (*Buffer)(nil)

// New creates a buffer holding before+after with the cursor between them.
func New(before, after string) *Buffer {
	return &Buffer{
		before: clusters(before),
		after:  clusters(after),
	}
}

// NewUnavailable creates a buffer whose host provides no context.
func NewUnavailable() *Buffer {
	return &Buffer{noContext: true}
}

func clusters(s string) []string {
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// SetAutocapitalizationHint sets the hint reported to the keyboard.
func (b *Buffer) SetAutocapitalizationHint(h domain.AutocapitalizationHint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hint = h
	b.hasHint = true
}

// Select marks text as the current selection. It is replaced by the next
// insertion.
func (b *Buffer) Select(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = text
}

func (b *Buffer) TextBeforeCursor() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.noContext {
		return "", false
	}
	return strings.Join(b.before, ""), true
}

func (b *Buffer) TextAfterCursor() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.noContext {
		return "", false
	}
	return strings.Join(b.after, ""), true
}

func (b *Buffer) SelectedText() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.noContext || b.selected == "" {
		return "", false
	}
	return b.selected, true
}

func (b *Buffer) AutocapitalizationHint() (domain.AutocapitalizationHint, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hint, b.hasHint
}

func (b *Buffer) Insert(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = ""
	// Re-segment the tail so a combining mark joins the preceding cluster.
	joined := strings.Join(b.before, "") + text
	b.before = clusters(joined)
}

func (b *Buffer) DeleteBackward(count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if count <= 0 {
		return
	}
	if b.selected != "" {
		b.selected = ""
		count--
	}
	if count > len(b.before) {
		count = len(b.before)
	}
	b.before = b.before[:len(b.before)-count]
}

func (b *Buffer) MoveCursor(offset int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case offset > 0:
		if offset > len(b.after) {
			offset = len(b.after)
		}
		b.before = append(b.before, b.after[:offset]...)
		b.after = append([]string(nil), b.after[offset:]...)
	case offset < 0:
		n := -offset
		if n > len(b.before) {
			n = len(b.before)
		}
		moved := b.before[len(b.before)-n:]
		b.after = append(append([]string(nil), moved...), b.after...)
		b.before = b.before[:len(b.before)-n]
	}
}

// Text returns the whole document.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.before, "") + strings.Join(b.after, "")
}

// Cursor returns the cursor position in grapheme clusters.
func (b *Buffer) Cursor() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.before)
}

// String renders the document with a bar at the cursor.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.before, "") + "|" + strings.Join(b.after, "")
}
