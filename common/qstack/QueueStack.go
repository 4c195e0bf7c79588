package qstack

import (
	"github.com/juju/errors"
)

// Value is the element type held by queues and stacks, fixed at build time.
type Value = int

const (
	ErrNilQueue   = errors.ConstError("qstack: nil queue")
	ErrEmptyQueue = errors.ConstError("qstack: queue is empty")
	ErrNilStack   = errors.ConstError("qstack: nil stack")
	ErrEmptyStack = errors.ConstError("qstack: stack is empty")
)

type link struct {
	value Value
	next  *link
}

// Queue is a singly linked FIFO. head is a sentinel that never holds a
// value; tail is the last link, or head when the queue is empty.
type Queue struct {
	head *link
	tail *link
	size int
}

func NewQueue() *Queue {
	q := &Queue{head: &link{}}
	q.tail = q.head
	return q
}

func (q *Queue) mustValid() {
	if q == nil || q.head == nil {
		panic(ErrNilQueue)
	}
}

// AddBack appends v after the tail.
func (q *Queue) AddBack(v Value) {
	q.mustValid()
	e := &link{value: v}
	q.tail.next = e
	q.tail = e
	q.size++
}

func (q *Queue) Front() Value {
	q.mustValid()
	if q.head.next == nil {
		panic(ErrEmptyQueue)
	}
	return q.head.next.value
}

// RemoveFront unlinks the first link and returns its value.
func (q *Queue) RemoveFront() Value {
	q.mustValid()
	e := q.head.next
	if e == nil {
		panic(ErrEmptyQueue)
	}
	q.head.next = e.next
	if q.tail == e {
		q.tail = q.head
	}
	e.next = nil
	q.size--
	return e.value
}

func (q *Queue) IsEmpty() bool {
	q.mustValid()
	return q.head.next == nil
}

func (q *Queue) Len() int {
	q.mustValid()
	return q.size
}

func (q *Queue) Destroy() {
	q.mustValid()
	for !q.IsEmpty() {
		q.RemoveFront()
	}
	q.head = nil
	q.tail = nil
}

// Stack is a LIFO built from two queues. q1 always holds the stack with the
// top at its front; q2 is scratch space used while pushing.
type Stack struct {
	q1 *Queue
	q2 *Queue
}

func NewStack() *Stack {
	return &Stack{q1: NewQueue(), q2: NewQueue()}
}

func (s *Stack) mustValid() {
	if s == nil || s.q1 == nil || s.q2 == nil {
		panic(ErrNilStack)
	}
}

// Push puts v into the empty q2, moves every link of q1 behind it and swaps
// the queues, so v ends up at the front of q1. O(n).
func (s *Stack) Push(v Value) {
	s.mustValid()
	s.q2.AddBack(v)
	for !s.q1.IsEmpty() {
		s.q2.AddBack(s.q1.RemoveFront())
	}
	s.q1, s.q2 = s.q2, s.q1
}

func (s *Stack) Pop() Value {
	s.mustValid()
	if s.q1.IsEmpty() {
		panic(ErrEmptyStack)
	}
	return s.q1.RemoveFront()
}

func (s *Stack) Top() Value {
	s.mustValid()
	if s.q1.IsEmpty() {
		panic(ErrEmptyStack)
	}
	return s.q1.Front()
}

func (s *Stack) IsEmpty() bool {
	s.mustValid()
	return s.q1.IsEmpty()
}

func (s *Stack) Len() int {
	s.mustValid()
	return s.q1.Len()
}

func (s *Stack) Destroy() {
	s.mustValid()
	s.q1.Destroy()
	s.q2.Destroy()
	s.q1 = nil
	s.q2 = nil
}
