package memory

import (
	"sync"
)

// collection is an insertion-ordered map with its own id sequence.
// Ids start at 1 and are never reused, even after delete.
type collection[T any] struct {
	mu     sync.RWMutex
	lastID int64
	order  []int64
	items  map[int64]*T
	clone  func(*T) *T
}

func newCollection[T any](clone func(*T) *T) *collection[T] {
	return &collection[T]{
		items: make(map[int64]*T),
		clone: clone,
	}
}

// insert assigns the next id through assign and stores a copy of v
func (c *collection[T]) insert(v *T, assign func(v *T, id int64)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastID++
	assign(v, c.lastID)
	c.items[c.lastID] = c.clone(v)
	c.order = append(c.order, c.lastID)
}

func (c *collection[T]) get(id int64) (*T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return c.clone(v), true
}

// update runs fn on a copy of the stored value and stores the result.
// fn may reject the change by returning an error.
func (c *collection[T]) update(id int64, fn func(v *T) error) (*T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.items[id]
	if !ok {
		return nil, false, nil
	}
	next := c.clone(cur)
	if err := fn(next); err != nil {
		return nil, true, err
	}
	c.items[id] = next
	return c.clone(next), true, nil
}

// updateWhere applies fn to every matching value
func (c *collection[T]) updateWhere(match func(v *T) bool, fn func(v *T)) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, id := range c.order {
		cur := c.items[id]
		if !match(cur) {
			continue
		}
		next := c.clone(cur)
		fn(next)
		c.items[id] = next
		n++
	}
	return n
}

func (c *collection[T]) remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// filter scans the collection in insertion order. A nil match returns everything.
func (c *collection[T]) filter(match func(v *T) bool) []*T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*T, 0)
	for _, id := range c.order {
		v := c.items[id]
		if match == nil || match(v) {
			out = append(out, c.clone(v))
		}
	}
	return out
}

// find returns the first match in insertion order
func (c *collection[T]) find(match func(v *T) bool) (*T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range c.order {
		if v := c.items[id]; match(v) {
			return c.clone(v), true
		}
	}
	return nil, false
}

func (c *collection[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
