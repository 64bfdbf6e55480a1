// Package mirror holds the client-side copies of server collections.
//
// Each collection is replaced wholesale by a successful refresh. Readers
// always see one complete snapshot: either the previous one or the new one,
// never a mix.
package mirror

import (
	"sync/atomic"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
)

type snapshot[T any] struct {
	items []T
	index map[int64]int
}

// Collection is an ordered, id-indexed snapshot of one server collection.
// Items go in and come out through clone, so the snapshot is never shared
// with callers.
type Collection[T any] struct {
	id    func(T) int64
	clone func(T) T
	snap  atomic.Pointer[snapshot[T]]
}

// NewCollection returns an empty collection keyed by id. clone must return
// a copy sharing no memory with its argument.
func NewCollection[T any](id func(T) int64, clone func(T) T) *Collection[T] {
	c := &Collection[T]{id: id, clone: clone}
	c.snap.Store(&snapshot[T]{index: map[int64]int{}})
	return c
}

// ReplaceAll swaps the whole snapshot for items, keeping their order.
// When items repeats an id, the later entry wins the index.
func (c *Collection[T]) ReplaceAll(items []T) {
	s := &snapshot[T]{
		items: make([]T, len(items)),
		index: make(map[int64]int, len(items)),
	}
	for i, it := range items {
		s.items[i] = c.clone(it)
		s.index[c.id(it)] = i
	}
	c.snap.Store(s)
}

// All returns a copy of the snapshot in server order.
func (c *Collection[T]) All() []T {
	s := c.snap.Load()
	out := make([]T, len(s.items))
	for i, it := range s.items {
		out[i] = c.clone(it)
	}
	return out
}

func (c *Collection[T]) Get(id int64) (T, bool) {
	s := c.snap.Load()
	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.clone(s.items[i]), true
}

func (c *Collection[T]) Len() int {
	return len(c.snap.Load().items)
}

// Mirror groups the three mirrored collections.
type Mirror struct {
	Users      *Collection[models.User]
	Projects   *Collection[models.Project]
	SkillSwaps *Collection[models.SkillSwap]
}

func New() *Mirror {
	return &Mirror{
		Users:      NewCollection(func(u models.User) int64 { return u.ID }, models.User.Clone),
		Projects:   NewCollection(func(p models.Project) int64 { return p.ID }, models.Project.Clone),
		SkillSwaps: NewCollection(func(s models.SkillSwap) int64 { return s.ID }, models.SkillSwap.Clone),
	}
}
