package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/Qthai16/go-deque/common/cldeque"
	"github.com/Qthai16/go-deque/common/lldeque"
	"github.com/Qthai16/go-deque/common/qstack"
	"github.com/Qthai16/go-deque/utils"

	"github.com/juju/gnuflag"
)

var verbose bool

type checker struct {
	group  string
	failed int
}

func (c *checker) check(name string, ok bool) {
	res := "PASSED"
	if !ok {
		res = "FAILED"
		c.failed++
	}
	fmt.Printf("[%v] %v: %v\n", c.group, name, res)
}

func (c *checker) show(s fmt.Stringer) {
	if verbose {
		fmt.Printf("[%v] %v\n", c.group, s)
	}
}

func circularScenarios() int {
	c := &checker{group: "CircularList"}
	d := cldeque.New()
	defer d.Destroy()
	c.check("new deque is empty", d.IsEmpty())
	c.show(d)

	for _, v := range []cldeque.Value{1, 2, 3} {
		if err := d.AddBack(v); err != nil {
			utils.LogErro("addBack %v: %v", v, err)
		}
	}
	c.show(d)
	c.check("addBack 1 2 3", d.Front() == 1 && d.Back() == 3 && d.Len() == 3)

	d.Reverse()
	c.show(d)
	c.check("reverse", d.Front() == 3 && d.Back() == 1 && d.Len() == 3)
	d.Reverse()
	c.check("reverse twice", slices.Equal(d.Values(), []cldeque.Value{1, 2, 3}))

	for !d.IsEmpty() {
		d.RemoveBack()
	}
	d.AddFront(5)
	c.check("addFront on empty", d.Front() == 5 && d.Back() == 5)
	d.RemoveFront()
	c.check("removeFront last value", d.IsEmpty())
	c.show(d)
	return c.failed
}

func linkedScenarios() int {
	c := &checker{group: "LinkedList"}
	l := lldeque.New()
	defer l.Destroy()
	c.check("new list is empty", l.IsEmpty())

	l.AddBack(1)
	l.AddBack(2)
	l.AddFront(0)
	c.show(l)
	c.check("deque order", slices.Equal(l.Values(), []lldeque.Value{0, 1, 2}))
	l.RemoveFront()
	l.RemoveBack()
	c.check("remove both ends", l.Front() == 1 && l.Back() == 1)

	l.Add(4)
	l.Add(-7)
	c.show(l)
	c.check("bag contains", l.Contains(4) && l.Contains(1) && !l.Contains(9))
	c.check("bag remove", l.Remove(1) && !l.Contains(1) && !l.Remove(1))
	c.check("bag size", l.Len() == 2)
	return c.failed
}

func queueStackScenarios() int {
	c := &checker{group: "QueueStack"}
	q := qstack.NewQueue()
	defer q.Destroy()
	for i := 1; i <= 3; i++ {
		q.AddBack(i)
	}
	c.check("queue fifo", q.RemoveFront() == 1 && q.RemoveFront() == 2 && q.RemoveFront() == 3)
	c.check("queue drained", q.IsEmpty())
	q.AddBack(4)
	c.check("queue refill", q.Front() == 4 && q.Len() == 1)

	s := qstack.NewStack()
	defer s.Destroy()
	for i := 1; i <= 3; i++ {
		s.Push(i)
	}
	c.check("stack top", s.Top() == 3 && s.Len() == 3)
	c.check("stack lifo", s.Pop() == 3 && s.Pop() == 2 && s.Pop() == 1)
	c.check("stack drained", s.IsEmpty())
	return c.failed
}

func main() {
	gnuflag.BoolVar(&verbose, "v", false, "print the structures between steps")
	gnuflag.Parse(true)

	failed := circularScenarios() + linkedScenarios() + queueStackScenarios()
	if failed > 0 {
		utils.LogErro("%v checks failed", failed)
		os.Exit(1)
	}
	utils.LogInfo("all checks passed")
}
