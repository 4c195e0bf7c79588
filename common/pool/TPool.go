package pool

import (
	"sync"
)

type TPoolConfig[T any] struct {
	Generate func() *T // constructor, new(T) when nil
	Reset    func(*T)  // runs on every Get
	Cleanup  func(*T)  // runs on every Put
}

// TPool is a typed sync.Pool. The gateway recycles decoded call arguments
// with it.
type TPool[T any] struct {
	pool sync.Pool
	Conf TPoolConfig[T]
}

func NewTPool[T any](conf TPoolConfig[T]) *TPool[T] {
	if conf.Generate == nil {
		conf.Generate = func() *T {
			return new(T)
		}
	}
	p := &TPool[T]{Conf: conf}
	p.pool.New = func() any {
		return p.Conf.Generate()
	}
	return p
}

func (p *TPool[T]) Get() *T {
	r := p.pool.Get().(*T)
	if p.Conf.Reset != nil {
		p.Conf.Reset(r)
	}
	return r
}

// Put hands *r back to the pool and clears the caller's reference.
func (p *TPool[T]) Put(r **T) {
	if r == nil || *r == nil {
		return
	}
	if p.Conf.Cleanup != nil {
		p.Conf.Cleanup(*r)
	}
	p.pool.Put(*r)
	*r = nil
}
