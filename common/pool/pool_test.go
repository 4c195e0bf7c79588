package pool

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apache/thrift/lib/go/thrift"
)

type fakeClient struct {
	id     int
	closed atomic.Bool
}

func (c *fakeClient) Open() error                     { return nil }
func (c *fakeClient) Close() error                    { c.closed.Store(true); return nil }
func (c *fakeClient) GetTransport() thrift.TTransport { return nil }
func (c *fakeClient) GetCore() int                    { return c.id }

type fakeFactory struct {
	dials atomic.Int32
	fail  atomic.Bool
}

func (f *fakeFactory) NewClient(conf ClientConfig) (IThriftClient[int], error) {
	n := f.dials.Add(1)
	if f.fail.Load() {
		return nil, errors.New("connection refused")
	}
	return &fakeClient{id: int(n)}, nil
}

func newTestPool(t *testing.T, maxOpen int32) (*ClientPool[int], *fakeFactory) {
	f := &fakeFactory{}
	conf := &ClientConfig{
		Host:           "127.0.0.1:18000",
		MaxOpenConn:    maxOpen,
		AliveCheckIntv: time.Hour,
		ConnConf:       &thrift.TConfiguration{ConnectTimeout: 20 * time.Millisecond},
	}
	p, err := NewClientPoolFactory[int](conf, f)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	return p, f
}

func TestClientPoolReuse(t *testing.T) {
	p, f := newTestPool(t, 2)
	c1, err := p.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	p.Put(c1)
	if p.Len() != 1 {
		t.Errorf("cached conns: %v, want 1", p.Len())
	}
	c2, err := p.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c2.GetCore() != c1.GetCore() || f.dials.Load() != 1 {
		t.Errorf("expected cached conn to be reused, dials: %v", f.dials.Load())
	}
	if p.NumOpen() != 1 {
		t.Errorf("open conns: %v, want 1", p.NumOpen())
	}
}

func TestClientPoolMaxOpen(t *testing.T) {
	p, _ := newTestPool(t, 1)
	c, err := p.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := p.Get(); !errors.Is(err, ErrMaxConnReached) {
		t.Errorf("second get: %v, want %v", err, ErrMaxConnReached)
	}
	go func() {
		time.Sleep(5 * time.Millisecond)
		p.Put(c)
	}()
	p.ConnConf = &thrift.TConfiguration{ConnectTimeout: time.Second}
	if _, err := p.Get(); err != nil {
		t.Errorf("get after put: %v", err)
	}
}

func TestClientPoolDeadWindow(t *testing.T) {
	p, f := newTestPool(t, 2)
	f.fail.Store(true)
	if _, err := p.Get(); !errors.Is(err, ErrNoConnection) {
		t.Fatalf("get: %v, want %v", err, ErrNoConnection)
	}
	if p.IsAlive() {
		t.Errorf("pool should be dead after a failed dial")
	}
	f.fail.Store(false)
	if _, err := p.Get(); !errors.Is(err, ErrNoConnection) {
		t.Errorf("get inside dead window: %v, want %v", err, ErrNoConnection)
	}
	if f.dials.Load() != 1 {
		t.Errorf("dialed %v times inside dead window", f.dials.Load())
	}
	p.AliveCheckIntv = 0
	if _, err := p.Get(); err != nil {
		t.Errorf("get after dead window: %v", err)
	}
}

func TestClientPoolRelease(t *testing.T) {
	p, _ := newTestPool(t, 3)
	a, _ := p.Get()
	b, _ := p.Get()
	c, _ := p.Get()

	p.Release(a, thrift.NewTApplicationException(thrift.INTERNAL_ERROR, "deque is empty"))
	if p.Len() != 1 || a.(*fakeClient).closed.Load() {
		t.Errorf("application errors should keep the conn")
	}
	p.Release(b, thrift.NewTProtocolException(errors.New("bad frame")))
	if !b.(*fakeClient).closed.Load() || p.NumOpen() != 2 {
		t.Errorf("protocol errors should close the conn, open: %v", p.NumOpen())
	}
	p.Release(c, thrift.NewTTransportException(thrift.NOT_OPEN, "reset by peer"))
	if p.IsAlive() {
		t.Errorf("transport errors should mark the pool dead")
	}
	if p.Len() != 0 || p.NumOpen() != 0 || !a.(*fakeClient).closed.Load() {
		t.Errorf("transport errors should drop cached conns, cached: %v open: %v", p.Len(), p.NumOpen())
	}
}

func TestClientPoolDestroy(t *testing.T) {
	p, _ := newTestPool(t, 2)
	c, _ := p.Get()
	p.Put(c)
	p.Destroy()
	if !c.(*fakeClient).closed.Load() {
		t.Errorf("destroy should close cached conns")
	}
	if _, err := p.Get(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("get after destroy: %v, want %v", err, ErrPoolClosed)
	}
	p.Destroy()
}

func TestInvalidConf(t *testing.T) {
	if _, err := NewClientPoolFactory[int](&ClientConfig{Host: "", MaxOpenConn: 1}, &fakeFactory{}); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("empty host: %v", err)
	}
	if _, err := NewClientPool[int](DefaultClientConf("h:1", nil), nil); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("nil ctor: %v", err)
	}
}

type item struct {
	buf []byte
}

func TestTPool(t *testing.T) {
	resets := 0
	p := NewTPool(TPoolConfig[item]{
		Reset: func(i *item) {
			resets++
			i.buf = i.buf[:0]
		},
	})
	it := p.Get()
	it.buf = append(it.buf, 'x')
	p.Put(&it)
	if it != nil {
		t.Errorf("put should clear the caller reference")
	}
	it = p.Get()
	if len(it.buf) != 0 {
		t.Errorf("reset not applied: %q", it.buf)
	}
	if resets != 2 {
		t.Errorf("resets: %v, want 2", resets)
	}
	p.Put(nil)
}
