package lldeque

import (
	"fmt"
	"io"
	"strings"

	"github.com/juju/errors"
)

// Value is the element type held by a LinkedList, fixed at build time.
type Value = int

const (
	ErrNilList   = errors.ConstError("lldeque: nil linked list")
	ErrDestroyed = errors.ConstError("lldeque: linked list is destroyed")
	ErrEmpty     = errors.ConstError("lldeque: linked list is empty")
	ErrBadLink   = errors.ConstError("lldeque: link is not part of the chain")
)

type link struct {
	value      Value
	next, prev *link
}

// LinkedList is a doubly linked list framed by a front and a back sentinel.
// It serves both as a deque and as a bag. Not safe for concurrent use.
type LinkedList struct {
	frontSentinel *link
	backSentinel  *link
	size          int
}

func New() *LinkedList {
	return new(LinkedList).init()
}

// init links the two sentinels to each other.
func (l *LinkedList) init() *LinkedList {
	l.frontSentinel = &link{}
	l.backSentinel = &link{}
	l.frontSentinel.next = l.backSentinel
	l.backSentinel.prev = l.frontSentinel
	l.size = 0
	return l
}

// Destroy unlinks every link and drops both sentinels.
func (l *LinkedList) Destroy() {
	l.mustValid()
	for !l.IsEmpty() {
		l.RemoveFront()
	}
	l.frontSentinel = nil
	l.backSentinel = nil
}

func (l *LinkedList) mustValid() {
	if l == nil {
		panic(ErrNilList)
	}
	if l.frontSentinel == nil {
		panic(ErrDestroyed)
	}
}

func (l *LinkedList) mustNotEmpty() {
	l.mustValid()
	if l.size == 0 {
		panic(ErrEmpty)
	}
}

// addLinkBefore inserts a new link holding v right before at.
func (l *LinkedList) addLinkBefore(at *link, v Value) {
	if at == nil || at == l.frontSentinel || at.prev == nil || at.prev.next != at {
		panic(ErrBadLink)
	}
	e := &link{value: v, next: at, prev: at.prev}
	at.prev.next = e
	at.prev = e
	l.size++
}

// removeLink unlinks e. Neither sentinel can be removed.
func (l *LinkedList) removeLink(e *link) {
	if e == nil || e == l.frontSentinel || e == l.backSentinel {
		panic(ErrBadLink)
	}
	if e.prev == nil || e.next == nil || e.prev.next != e || e.next.prev != e {
		panic(ErrBadLink)
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	l.size--
}

func (l *LinkedList) AddFront(v Value) {
	l.mustValid()
	l.addLinkBefore(l.frontSentinel.next, v)
}

func (l *LinkedList) AddBack(v Value) {
	l.mustValid()
	l.addLinkBefore(l.backSentinel, v)
}

func (l *LinkedList) Front() Value {
	l.mustNotEmpty()
	return l.frontSentinel.next.value
}

func (l *LinkedList) Back() Value {
	l.mustNotEmpty()
	return l.backSentinel.prev.value
}

func (l *LinkedList) RemoveFront() {
	l.mustNotEmpty()
	l.removeLink(l.frontSentinel.next)
}

func (l *LinkedList) RemoveBack() {
	l.mustNotEmpty()
	l.removeLink(l.backSentinel.prev)
}

func (l *LinkedList) IsEmpty() bool {
	l.mustValid()
	return l.frontSentinel.next == l.backSentinel && l.backSentinel.prev == l.frontSentinel
}

func (l *LinkedList) Len() int {
	l.mustValid()
	return l.size
}

// Add puts v in the bag. Bags have no order, it goes to the front.
func (l *LinkedList) Add(v Value) {
	l.AddFront(v)
}

// Contains reports whether any link in the bag holds v.
func (l *LinkedList) Contains(v Value) bool {
	return l.find(v) != nil
}

// Remove removes the first link holding v and reports whether one was found.
func (l *LinkedList) Remove(v Value) bool {
	e := l.find(v)
	if e == nil {
		return false
	}
	l.removeLink(e)
	return true
}

func (l *LinkedList) find(v Value) *link {
	l.mustValid()
	for e := l.frontSentinel.next; e != l.backSentinel; e = e.next {
		if e.value == v {
			return e
		}
	}
	return nil
}

func (l *LinkedList) Values() []Value {
	l.mustValid()
	values := make([]Value, 0, l.size)
	for e := l.frontSentinel.next; e != l.backSentinel; e = e.next {
		values = append(values, e.value)
	}
	return values
}

func (l *LinkedList) Print(w io.Writer) error {
	_, err := io.WriteString(w, l.String()+"\n")
	return err
}

func (l *LinkedList) String() string {
	if l.IsEmpty() {
		return "LinkedList is empty"
	}
	var sb strings.Builder
	sb.WriteString("LinkedList:")
	for e := l.frontSentinel.next; e != l.backSentinel; e = e.next {
		fmt.Fprintf(&sb, " %d", e.value)
	}
	return sb.String()
}
