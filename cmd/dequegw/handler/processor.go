package handler

import (
	"context"
	"strings"

	"github.com/Qthai16/go-deque/cmd/dequegw/gwstat"
	"github.com/Qthai16/go-deque/common/cldeque"
	"github.com/Qthai16/go-deque/common/dequerpc"
	"github.com/Qthai16/go-deque/common/pool"
	"github.com/Qthai16/go-deque/common/registry"
	"github.com/Qthai16/go-deque/utils"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/juju/errors"
)

// opHandler runs one op on a deque already locked by the registry.
type opHandler func(d *cldeque.CircularList, args *dequerpc.OpArgs, res *dequerpc.OpResult) error

// Processor serves the deque ops over thrift. Each op is a
// TProcessorFunction working on a deque of the registry.
type Processor struct {
	reg          *registry.Registry
	stats        *gwstat.GWStats
	argsPool     *pool.TPool[dequerpc.OpArgs]
	processorMap map[string]thrift.TProcessorFunction
}

var _ thrift.TProcessor = (*Processor)(nil)

func NewProcessor(reg *registry.Registry, stats *gwstat.GWStats) *Processor {
	if stats == nil {
		stats = gwstat.NewGWStats()
	}
	p := &Processor{
		reg:   reg,
		stats: stats,
		argsPool: pool.NewTPool(pool.TPoolConfig[dequerpc.OpArgs]{
			Reset: (*dequerpc.OpArgs).Reset,
		}),
		processorMap: make(map[string]thrift.TProcessorFunction),
	}
	p.register(dequerpc.OpAddFront, true, addFront)
	p.register(dequerpc.OpAddBack, true, addBack)
	p.register(dequerpc.OpFront, false, front)
	p.register(dequerpc.OpBack, false, back)
	p.register(dequerpc.OpRemoveFront, false, removeFront)
	p.register(dequerpc.OpRemoveBack, false, removeBack)
	p.register(dequerpc.OpIsEmpty, false, isEmpty)
	p.register(dequerpc.OpSize, false, size)
	p.register(dequerpc.OpReverse, false, reverse)
	p.register(dequerpc.OpPrint, false, printText)
	p.register(dequerpc.OpValues, false, values)
	p.AddToProcessorMap(dequerpc.OpDrop, &dropFunc{p: p})
	return p
}

func (p *Processor) register(op string, create bool, h opHandler) {
	p.AddToProcessorMap(op, &opFunc{p: p, op: op, create: create, handle: h})
}

func (p *Processor) AddToProcessorMap(key string, fn thrift.TProcessorFunction) {
	p.processorMap[key] = fn
}

func (p *Processor) GetProcessorFunction(key string) (thrift.TProcessorFunction, bool) {
	fn, ok := p.processorMap[key]
	return fn, ok
}

func (p *Processor) ProcessorMap() map[string]thrift.TProcessorFunction {
	return p.processorMap
}

func (p *Processor) Stats() *gwstat.GWStats {
	return p.stats
}

func (p *Processor) Process(ctx context.Context, iprot, oprot thrift.TProtocol) (bool, thrift.TException) {
	name, _, seqId, err := iprot.ReadMessageBegin(ctx)
	if err != nil {
		return false, thrift.WrapTException(err)
	}
	if fn, ok := p.GetProcessorFunction(name); ok {
		return fn.Process(ctx, seqId, iprot, oprot)
	}
	iprot.Skip(ctx, thrift.STRUCT)
	iprot.ReadMessageEnd(ctx)
	p.stats.IncErrStat(gwstat.UnknownOpErrKey)
	x := thrift.NewTApplicationException(thrift.UNKNOWN_METHOD, "unknown function "+name)
	writeException(ctx, oprot, name, seqId, x)
	return false, x
}

func writeException(ctx context.Context, oprot thrift.TProtocol, name string, seqId int32, x thrift.TApplicationException) error {
	if err := oprot.WriteMessageBegin(ctx, name, thrift.EXCEPTION, seqId); err != nil {
		return err
	}
	if err := x.Write(ctx, oprot); err != nil {
		return err
	}
	if err := oprot.WriteMessageEnd(ctx); err != nil {
		return err
	}
	return oprot.Flush(ctx)
}

func writeReply(ctx context.Context, oprot thrift.TProtocol, name string, seqId int32, res *dequerpc.OpResult) error {
	if err := oprot.WriteMessageBegin(ctx, name, thrift.REPLY, seqId); err != nil {
		return err
	}
	if err := res.Write(ctx, oprot); err != nil {
		return err
	}
	if err := oprot.WriteMessageEnd(ctx); err != nil {
		return err
	}
	return oprot.Flush(ctx)
}

// readArgs decodes the call arguments into a pooled OpArgs. The caller
// returns it with argsPool.Put.
func (p *Processor) readArgs(ctx context.Context, op string, seqId int32, iprot, oprot thrift.TProtocol) (*dequerpc.OpArgs, thrift.TException) {
	args := p.argsPool.Get()
	if err := args.Read(ctx, iprot); err != nil {
		p.argsPool.Put(&args)
		iprot.ReadMessageEnd(ctx)
		p.stats.IncErrStat(gwstat.MsgParseErrKey)
		x := thrift.NewTApplicationException(thrift.PROTOCOL_ERROR, err.Error())
		writeException(ctx, oprot, op, seqId, x)
		return nil, thrift.WrapTException(err)
	}
	if err := iprot.ReadMessageEnd(ctx); err != nil {
		p.argsPool.Put(&args)
		return nil, thrift.WrapTException(err)
	}
	return args, nil
}

// errClass maps an op error to its stats key.
func errClass(err error) string {
	switch {
	case errors.Is(err, errors.NotValid):
		return gwstat.MsgParseErrKey
	case errors.Is(err, errors.NotFound):
		return gwstat.NotFoundErrKey
	case errors.Is(err, cldeque.ErrEmpty):
		return gwstat.EmptyErrKey
	case errors.Is(err, cldeque.ErrFull):
		return gwstat.FullErrKey
	}
	return gwstat.InternalErrKey
}

type opFunc struct {
	p      *Processor
	op     string
	create bool
	handle opHandler
}

func (f *opFunc) Process(ctx context.Context, seqId int32, iprot, oprot thrift.TProtocol) (bool, thrift.TException) {
	args, texc := f.p.readArgs(ctx, f.op, seqId, iprot, oprot)
	if texc != nil {
		return false, texc
	}
	defer f.p.argsPool.Put(&args)

	var res dequerpc.OpResult
	err := f.p.reg.Do(args.Name, f.create, func(d *cldeque.CircularList) error {
		return f.handle(d, args, &res)
	})
	if err != nil {
		f.p.stats.IncErrStat(errClass(err))
		utils.LogDebug("[handler] %v %q: %v", f.op, args.Name, err)
		x := thrift.NewTApplicationException(thrift.INTERNAL_ERROR, f.op+" "+args.Name+": "+err.Error())
		if werr := writeException(ctx, oprot, f.op, seqId, x); werr != nil {
			return false, thrift.WrapTException(werr)
		}
		// the exception is delivered, keep serving the connection
		return true, nil
	}
	f.p.stats.AddOpStat(args.Name, f.op)
	if err := writeReply(ctx, oprot, f.op, seqId, &res); err != nil {
		return false, thrift.WrapTException(err)
	}
	return true, nil
}

type dropFunc struct {
	p *Processor
}

func (f *dropFunc) Process(ctx context.Context, seqId int32, iprot, oprot thrift.TProtocol) (bool, thrift.TException) {
	args, texc := f.p.readArgs(ctx, dequerpc.OpDrop, seqId, iprot, oprot)
	if texc != nil {
		return false, texc
	}
	defer f.p.argsPool.Put(&args)

	var res dequerpc.OpResult
	if f.p.reg.Drop(args.Name) {
		res.Size = 1
		f.p.stats.DelDeque(args.Name)
		utils.LogInfo("[handler] dropped deque %q", args.Name)
	}
	if err := writeReply(ctx, oprot, dequerpc.OpDrop, seqId, &res); err != nil {
		return false, thrift.WrapTException(err)
	}
	return true, nil
}

func addFront(d *cldeque.CircularList, args *dequerpc.OpArgs, res *dequerpc.OpResult) error {
	if err := d.AddFront(args.Value); err != nil {
		return err
	}
	res.Size = int32(d.Len())
	return nil
}

func addBack(d *cldeque.CircularList, args *dequerpc.OpArgs, res *dequerpc.OpResult) error {
	if err := d.AddBack(args.Value); err != nil {
		return err
	}
	res.Size = int32(d.Len())
	return nil
}

// The handlers below check emptiness first: peeking or removing on an empty
// deque is a contract violation the deque itself answers with a panic.

func front(d *cldeque.CircularList, _ *dequerpc.OpArgs, res *dequerpc.OpResult) error {
	if d.IsEmpty() {
		return cldeque.ErrEmpty
	}
	res.Value = d.Front()
	return nil
}

func back(d *cldeque.CircularList, _ *dequerpc.OpArgs, res *dequerpc.OpResult) error {
	if d.IsEmpty() {
		return cldeque.ErrEmpty
	}
	res.Value = d.Back()
	return nil
}

func removeFront(d *cldeque.CircularList, _ *dequerpc.OpArgs, res *dequerpc.OpResult) error {
	if d.IsEmpty() {
		return cldeque.ErrEmpty
	}
	res.Value = d.Front()
	d.RemoveFront()
	res.Size = int32(d.Len())
	return nil
}

func removeBack(d *cldeque.CircularList, _ *dequerpc.OpArgs, res *dequerpc.OpResult) error {
	if d.IsEmpty() {
		return cldeque.ErrEmpty
	}
	res.Value = d.Back()
	d.RemoveBack()
	res.Size = int32(d.Len())
	return nil
}

func isEmpty(d *cldeque.CircularList, _ *dequerpc.OpArgs, res *dequerpc.OpResult) error {
	res.Empty = d.IsEmpty()
	res.Size = int32(d.Len())
	return nil
}

func size(d *cldeque.CircularList, _ *dequerpc.OpArgs, res *dequerpc.OpResult) error {
	res.Size = int32(d.Len())
	res.Empty = res.Size == 0
	return nil
}

func reverse(d *cldeque.CircularList, _ *dequerpc.OpArgs, res *dequerpc.OpResult) error {
	if d.IsEmpty() {
		return cldeque.ErrEmpty
	}
	d.Reverse()
	res.Size = int32(d.Len())
	return nil
}

func printText(d *cldeque.CircularList, _ *dequerpc.OpArgs, res *dequerpc.OpResult) error {
	var sb strings.Builder
	if err := d.Print(&sb); err != nil {
		return err
	}
	res.Text = strings.TrimSuffix(sb.String(), "\n")
	return nil
}

func values(d *cldeque.CircularList, _ *dequerpc.OpArgs, res *dequerpc.OpResult) error {
	res.Values = d.Values()
	res.Size = int32(len(res.Values))
	return nil
}
