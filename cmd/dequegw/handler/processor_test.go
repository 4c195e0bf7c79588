package handler

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/Qthai16/go-deque/cmd/dequegw/gwstat"
	"github.com/Qthai16/go-deque/common/cldeque"
	"github.com/Qthai16/go-deque/common/dequerpc"
	"github.com/Qthai16/go-deque/common/registry"

	"github.com/apache/thrift/lib/go/thrift"
)

// loopTransport hands every flushed request straight to the processor and
// serves the reply from memory.
type loopTransport struct {
	req  *thrift.TMemoryBuffer
	resp *thrift.TMemoryBuffer
	p    *Processor
}

func newLoopTransport(p *Processor) *loopTransport {
	return &loopTransport{
		req:  thrift.NewTMemoryBuffer(),
		resp: thrift.NewTMemoryBuffer(),
		p:    p,
	}
}

func (t *loopTransport) Open() error { return nil }
func (t *loopTransport) IsOpen() bool { return true }
func (t *loopTransport) Close() error { return nil }
func (t *loopTransport) RemainingBytes() uint64 { return t.resp.RemainingBytes() }
func (t *loopTransport) Read(b []byte) (int, error) { return t.resp.Read(b) }
func (t *loopTransport) Write(b []byte) (int, error) { return t.req.Write(b) }

func (t *loopTransport) Flush(ctx context.Context) error {
	t.resp.Reset()
	iprot := thrift.NewTBinaryProtocolConf(t.req, nil)
	oprot := thrift.NewTBinaryProtocolConf(t.resp, nil)
	_, err := t.p.Process(ctx, iprot, oprot)
	t.req.Reset()
	var tae thrift.TApplicationException
	if err != nil && !errors.As(err, &tae) {
		return err
	}
	return nil
}

func newTestGateway(conf registry.Config) (*Processor, *dequerpc.DequeClient, thrift.TClient) {
	p := NewProcessor(registry.New(conf), nil)
	trans := newLoopTransport(p)
	tc := thrift.NewTStandardClient(
		thrift.NewTBinaryProtocolConf(trans, nil),
		thrift.NewTBinaryProtocolConf(trans, nil),
	)
	return p, dequerpc.NewDequeClient(tc), tc
}

func appErrType(err error) int32 {
	var tae thrift.TApplicationException
	if errors.As(err, &tae) {
		return tae.TypeId()
	}
	return -1
}

func TestGatewayScenarios(t *testing.T) {
	ctx := context.Background()
	p, cli, _ := newTestGateway(registry.DefaultConf())

	for _, v := range []float64{1, 2, 3} {
		if err := cli.AddBack(ctx, "q", v); err != nil {
			t.Fatalf("addBack %v: %v", v, err)
		}
	}
	if err := cli.AddFront(ctx, "q", 0); err != nil {
		t.Fatalf("addFront: %v", err)
	}
	got, err := cli.Values(ctx, "q")
	if err != nil || !slices.Equal(got, []float64{0, 1, 2, 3}) {
		t.Fatalf("values: %v %v", got, err)
	}
	if v, err := cli.Front(ctx, "q"); err != nil || v != 0 {
		t.Errorf("front: %v %v", v, err)
	}
	if v, err := cli.Back(ctx, "q"); err != nil || v != 3 {
		t.Errorf("back: %v %v", v, err)
	}

	if err := cli.Reverse(ctx, "q"); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if text, err := cli.Print(ctx, "q"); err != nil || text != "CircularList: 3.00 2.00 1.00 0.00" {
		t.Errorf("print: %q %v", text, err)
	}

	if err := cli.RemoveFront(ctx, "q"); err != nil {
		t.Fatalf("removeFront: %v", err)
	}
	if err := cli.RemoveBack(ctx, "q"); err != nil {
		t.Fatalf("removeBack: %v", err)
	}
	if n, err := cli.Size(ctx, "q"); err != nil || n != 2 {
		t.Errorf("size: %v %v", n, err)
	}
	if empty, err := cli.IsEmpty(ctx, "q"); err != nil || empty {
		t.Errorf("isEmpty: %v %v", empty, err)
	}

	if c := p.Stats().OpCount("q", dequerpc.OpAddBack); c != 3 {
		t.Errorf("addBack count: %v, want 3", c)
	}
	if c := p.Stats().OpCount("q", dequerpc.OpReverse); c != 1 {
		t.Errorf("reverse count: %v, want 1", c)
	}
}

func TestGatewayEmptyDeque(t *testing.T) {
	ctx := context.Background()
	p, cli, _ := newTestGateway(registry.DefaultConf())

	if err := cli.AddBack(ctx, "e", 7); err != nil {
		t.Fatalf("addBack: %v", err)
	}
	if err := cli.RemoveFront(ctx, "e"); err != nil {
		t.Fatalf("removeFront: %v", err)
	}
	if empty, err := cli.IsEmpty(ctx, "e"); err != nil || !empty {
		t.Errorf("isEmpty: %v %v", empty, err)
	}
	if text, err := cli.Print(ctx, "e"); err != nil || text != "CircularList is empty" {
		t.Errorf("print: %q %v", text, err)
	}

	calls := []func() error{
		func() error { _, err := cli.Front(ctx, "e"); return err },
		func() error { _, err := cli.Back(ctx, "e"); return err },
		func() error { return cli.RemoveFront(ctx, "e") },
		func() error { return cli.RemoveBack(ctx, "e") },
		func() error { return cli.Reverse(ctx, "e") },
	}
	for i, call := range calls {
		if typ := appErrType(call()); typ != thrift.INTERNAL_ERROR {
			t.Errorf("call %v: exception type %v, want %v", i, typ, thrift.INTERNAL_ERROR)
		}
	}
	if c := p.Stats().ErrCount(gwstat.EmptyErrKey); c != int64(len(calls)) {
		t.Errorf("empty errors: %v, want %v", c, len(calls))
	}

	// the connection is still usable after exceptions
	if err := cli.AddFront(ctx, "e", 8); err != nil {
		t.Errorf("addFront after exceptions: %v", err)
	}
}

func TestGatewayMissingDeque(t *testing.T) {
	ctx := context.Background()
	p, cli, _ := newTestGateway(registry.DefaultConf())

	if _, err := cli.Size(ctx, "nope"); appErrType(err) != thrift.INTERNAL_ERROR {
		t.Errorf("size of missing deque: %v", err)
	}
	if c := p.Stats().ErrCount(gwstat.NotFoundErrKey); c != 1 {
		t.Errorf("not found errors: %v, want 1", c)
	}
	if err := cli.AddBack(ctx, "", 1); appErrType(err) != thrift.INTERNAL_ERROR {
		t.Errorf("empty name: %v", err)
	}
	if c := p.Stats().ErrCount(gwstat.MsgParseErrKey); c != 1 {
		t.Errorf("parse errors: %v, want 1", c)
	}
}

func TestGatewayFull(t *testing.T) {
	ctx := context.Background()
	conf := registry.DefaultConf()
	conf.ListConf = cldeque.Config{Capacity: 2}
	p, cli, _ := newTestGateway(conf)

	if err := cli.AddBack(ctx, "f", 1); err != nil {
		t.Fatalf("addBack: %v", err)
	}
	if err := cli.AddBack(ctx, "f", 2); err != nil {
		t.Fatalf("addBack: %v", err)
	}
	if err := cli.AddBack(ctx, "f", 3); appErrType(err) != thrift.INTERNAL_ERROR {
		t.Errorf("addBack past capacity: %v", err)
	}
	if c := p.Stats().ErrCount(gwstat.FullErrKey); c != 1 {
		t.Errorf("full errors: %v, want 1", c)
	}
	if n, err := cli.Size(ctx, "f"); err != nil || n != 2 {
		t.Errorf("size: %v %v", n, err)
	}
}

func TestGatewayDrop(t *testing.T) {
	ctx := context.Background()
	p, cli, _ := newTestGateway(registry.DefaultConf())

	if err := cli.AddBack(ctx, "d", 1); err != nil {
		t.Fatalf("addBack: %v", err)
	}
	if ok, err := cli.Drop(ctx, "d"); err != nil || !ok {
		t.Errorf("drop: %v %v", ok, err)
	}
	if ok, err := cli.Drop(ctx, "d"); err != nil || ok {
		t.Errorf("second drop: %v %v", ok, err)
	}
	if c := p.Stats().OpCount("d", dequerpc.OpAddBack); c != 0 {
		t.Errorf("stats kept after drop: %v", c)
	}
	if _, err := cli.Front(ctx, "d"); appErrType(err) != thrift.INTERNAL_ERROR {
		t.Errorf("front after drop: %v", err)
	}
}

func TestGatewayUnknownMethod(t *testing.T) {
	ctx := context.Background()
	p, _, tc := newTestGateway(registry.DefaultConf())

	var res dequerpc.OpResult
	_, err := tc.Call(ctx, "pushMiddle", &dequerpc.OpArgs{Name: "q", Value: 1}, &res)
	if typ := appErrType(err); typ != thrift.UNKNOWN_METHOD {
		t.Errorf("exception type %v, want %v", typ, thrift.UNKNOWN_METHOD)
	}
	if c := p.Stats().ErrCount(gwstat.UnknownOpErrKey); c != 1 {
		t.Errorf("unknown op errors: %v, want 1", c)
	}
}
