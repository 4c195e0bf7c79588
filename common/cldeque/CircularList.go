package cldeque

import (
	"github.com/juju/errors"
)

// Value is the element type held by every CircularList. It is fixed at
// build time; change the alias to store another scalar type.
type Value = float64

const (
	ErrNilList   = errors.ConstError("cldeque: nil circular list")
	ErrDestroyed = errors.ConstError("cldeque: circular list is destroyed")
	ErrEmpty     = errors.ConstError("cldeque: circular list is empty")
	ErrBadLink   = errors.ConstError("cldeque: link is not part of the chain")
	ErrCorrupt   = errors.ConstError("cldeque: sentinel relations disagree")
	ErrFull      = errors.ConstError("cldeque: circular list is full")
)

const (
	DefaultFormat = "%.2f"
)

// linkRef addresses a slot in the link arena. The sentinel is always slot 0.
type linkRef int32

const sentinel linkRef = 0

type (
	// link is one arena slot. next and prev are arena indices, so a removed
	// slot can be reused without leaving dangling references behind.
	link struct {
		value Value
		next  linkRef
		prev  linkRef
		live  bool
	}

	Config struct {
		Capacity int    // max number of real links, 0 means unbounded
		Format   string // fmt verb used by Print for each value
	}

	// CircularList is a deque kept as a circular doubly linked chain with a
	// single sentinel. sentinel.next is the front link and sentinel.prev the
	// back link; both point back at the sentinel when the list is empty.
	//
	// A CircularList is not safe for concurrent use.
	CircularList struct {
		Config
		links []link
		free  []linkRef
		size  int
	}
)

// New returns an empty unbounded list.
func New() *CircularList {
	return NewConf(Config{})
}

func NewConf(conf Config) *CircularList {
	if conf.Capacity < 0 {
		conf.Capacity = 0
	}
	if conf.Format == "" {
		conf.Format = DefaultFormat
	}
	c := &CircularList{Config: conf}
	return c.init()
}

// init allocates the sentinel and points both of its relations at itself.
func (c *CircularList) init() *CircularList {
	c.links = make([]link, 1, 16)
	c.links[sentinel] = link{next: sentinel, prev: sentinel, live: true}
	c.free = c.free[:0]
	c.size = 0
	return c
}

// Destroy releases every link and the sentinel. The list must not be used
// afterwards.
func (c *CircularList) Destroy() {
	c.mustValid()
	c.links = nil
	c.free = nil
	c.size = 0
}

func (c *CircularList) mustValid() {
	if c == nil {
		panic(ErrNilList)
	}
	if c.links == nil {
		panic(ErrDestroyed)
	}
}

func (c *CircularList) mustNotEmpty() {
	c.mustValid()
	if c.size == 0 {
		panic(ErrEmpty)
	}
}

// chained reports whether ref is the sentinel or a live link.
func (c *CircularList) chained(ref linkRef) bool {
	return ref >= 0 && int(ref) < len(c.links) && c.links[ref].live
}

// alloc takes a slot from the free list, or grows the arena.
func (c *CircularList) alloc(v Value) (linkRef, error) {
	if c.Capacity > 0 && c.size >= c.Capacity {
		return sentinel, ErrFull
	}
	if n := len(c.free); n > 0 {
		ref := c.free[n-1]
		c.free = c.free[:n-1]
		c.links[ref] = link{value: v, live: true}
		return ref, nil
	}
	c.links = append(c.links, link{value: v, live: true})
	return linkRef(len(c.links) - 1), nil
}

// insertAfter splices a new link holding v between anchor and anchor.next,
// increments size.
func (c *CircularList) insertAfter(anchor linkRef, v Value) error {
	c.mustValid()
	if !c.chained(anchor) {
		panic(ErrBadLink)
	}
	ref, err := c.alloc(v)
	if err != nil {
		return err
	}
	next := c.links[anchor].next
	c.links[ref].prev = anchor
	c.links[ref].next = next
	c.links[anchor].next = ref
	c.links[next].prev = ref
	c.size++
	return nil
}

// unlink connects the neighbors of ref directly, releases its slot,
// decrements size. The sentinel is never a valid argument.
func (c *CircularList) unlink(ref linkRef) {
	c.mustValid()
	if ref == sentinel || !c.chained(ref) {
		panic(ErrBadLink)
	}
	l := c.links[ref]
	c.links[l.prev].next = l.next
	c.links[l.next].prev = l.prev
	c.links[ref] = link{}
	c.free = append(c.free, ref)
	c.size--
}
