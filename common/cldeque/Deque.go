package cldeque

import (
	"fmt"
	"io"
	"strings"

	"github.com/juju/errors"
)

// AddFront inserts v before the current front link.
func (c *CircularList) AddFront(v Value) error {
	c.mustValid()
	return c.insertAfter(sentinel, v)
}

// AddBack inserts v after the current back link.
func (c *CircularList) AddBack(v Value) error {
	c.mustValid()
	return c.insertAfter(c.links[sentinel].prev, v)
}

// Front returns the value of the front link. The list must not be empty.
func (c *CircularList) Front() Value {
	c.mustNotEmpty()
	return c.links[c.links[sentinel].next].value
}

// Back returns the value of the back link. The list must not be empty.
func (c *CircularList) Back() Value {
	c.mustNotEmpty()
	return c.links[c.links[sentinel].prev].value
}

// RemoveFront unlinks the front link. The list must not be empty.
func (c *CircularList) RemoveFront() {
	c.mustNotEmpty()
	c.unlink(c.links[sentinel].next)
}

// RemoveBack unlinks the back link. The list must not be empty.
func (c *CircularList) RemoveBack() {
	c.mustNotEmpty()
	c.unlink(c.links[sentinel].prev)
}

// IsEmpty reports whether the list holds no links. Both sentinel relations
// must agree with the size, otherwise the chain is corrupt and IsEmpty panics.
func (c *CircularList) IsEmpty() bool {
	c.mustValid()
	s := c.links[sentinel]
	selfNext, selfPrev := s.next == sentinel, s.prev == sentinel
	if selfNext != selfPrev || selfNext != (c.size == 0) {
		panic(ErrCorrupt)
	}
	return selfNext
}

func (c *CircularList) Len() int {
	c.mustValid()
	return c.size
}

// Reverse reverses the order of the links in place. Starting at the
// sentinel, each link gets its next and prev swapped and the walk steps to
// what used to be the previous link, until the sentinel comes round again.
// The list must not be empty.
func (c *CircularList) Reverse() {
	c.mustNotEmpty()
	cur := sentinel
	for {
		l := &c.links[cur]
		l.next, l.prev = l.prev, l.next
		cur = l.next
		if cur == sentinel {
			break
		}
	}
}

// Values returns the values from front to back.
func (c *CircularList) Values() []Value {
	c.mustValid()
	values := make([]Value, 0, c.size)
	for ref := c.links[sentinel].next; ref != sentinel; ref = c.links[ref].next {
		values = append(values, c.links[ref].value)
	}
	return values
}

// Print writes the values from front to back on one line, or a fixed
// message when the list is empty.
func (c *CircularList) Print(w io.Writer) error {
	_, err := io.WriteString(w, c.String()+"\n")
	return err
}

func (c *CircularList) String() string {
	if c.IsEmpty() {
		return "CircularList is empty"
	}
	var sb strings.Builder
	sb.WriteString("CircularList:")
	for ref := c.links[sentinel].next; ref != sentinel; ref = c.links[ref].next {
		sb.WriteByte(' ')
		fmt.Fprintf(&sb, c.Format, c.links[ref].value)
	}
	return sb.String()
}

// verify walks the chain in both directions and checks that each walk takes
// exactly size steps to return to the sentinel and that every neighbor
// relation is mirrored.
func (c *CircularList) verify() error {
	c.mustValid()
	steps := 0
	for ref := c.links[sentinel].next; ref != sentinel; ref = c.links[ref].next {
		l := c.links[ref]
		switch {
		case !l.live:
			return errors.Errorf("dead link %d reachable from sentinel", ref)
		case l.next == ref || l.prev == ref:
			return errors.Errorf("link %d points to itself", ref)
		case c.links[l.next].prev != ref:
			return errors.Errorf("link %d: next.prev is %d", ref, c.links[l.next].prev)
		}
		if steps++; steps > c.size {
			return errors.Errorf("forward walk longer than size %d", c.size)
		}
	}
	if steps != c.size {
		return errors.Errorf("forward walk took %d steps, size is %d", steps, c.size)
	}
	steps = 0
	for ref := c.links[sentinel].prev; ref != sentinel; ref = c.links[ref].prev {
		if steps++; steps > c.size {
			return errors.Errorf("backward walk longer than size %d", c.size)
		}
	}
	if steps != c.size {
		return errors.Errorf("backward walk took %d steps, size is %d", steps, c.size)
	}
	if live := len(c.links) - len(c.free) - 1; live != c.size {
		return errors.Errorf("%d live slots, size is %d", live, c.size)
	}
	return nil
}
