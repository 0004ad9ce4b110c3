package pool

import (
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CaseKind selects the casing transformation a pooled Caser performs.
type CaseKind int

const (
	Upper CaseKind = iota
	Lower
	Title
)

// CaserPool implements a pool of cases.Caser values for one language and
// transformation. A Caser keeps state between calls, so it must not be
// shared between goroutines; the pool hands each caller its own.
type CaserPool struct {
	pool sync.Pool
	tag  language.Tag
	kind CaseKind
}

// NewCaserPool creates a new pool of casers for the given language and kind
func NewCaserPool(tag language.Tag, kind CaseKind) *CaserPool {
	return &CaserPool{
		pool: sync.Pool{
			New: func() interface{} {
				c := newCaser(tag, kind)
				return &c
			},
		},
		tag:  tag,
		kind: kind,
	}
}

func newCaser(tag language.Tag, kind CaseKind) cases.Caser {
	switch kind {
	case Lower:
		return cases.Lower(tag)
	case Title:
		return cases.Title(tag)
	default:
		return cases.Upper(tag)
	}
}

// Get retrieves a Caser from the pool or creates a new one if none are available
func (cp *CaserPool) Get() *cases.Caser {
	return cp.pool.Get().(*cases.Caser)
}

// Put returns a Caser to the pool for reuse
func (cp *CaserPool) Put(c *cases.Caser) {
	c.Reset()
	cp.pool.Put(c)
}

// String transforms s with a pooled Caser.
func (cp *CaserPool) String(s string) string {
	c := cp.Get()
	defer cp.Put(c)
	return c.String(s)
}

// Tag returns the language the pool cases for.
func (cp *CaserPool) Tag() language.Tag {
	return cp.tag
}

// CaserSet groups the upper, lower and title pools of one language.
type CaserSet struct {
	Upper *CaserPool
	Lower *CaserPool
	Title *CaserPool
}

// NewCaserSet creates the three pools for tag.
func NewCaserSet(tag language.Tag) *CaserSet {
	return &CaserSet{
		Upper: NewCaserPool(tag, Upper),
		Lower: NewCaserPool(tag, Lower),
		Title: NewCaserPool(tag, Title),
	}
}
