package pool

import (
	"sync/atomic"
	"time"

	"github.com/Qthai16/go-deque/common"
	"github.com/Qthai16/go-deque/utils"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/juju/errors"
)

const (
	ErrInvalidParam   = errors.ConstError("invalid param")
	ErrMaxConnReached = errors.ConstError("max connection reached")
	ErrPoolClosed     = errors.ConstError("pool is closed")
	ErrNoConnection   = errors.ConstError("no connection")
)

const (
	defaultPoolSize    = 32
	defaultAliveIntv   = 3 * time.Second
	defaultWaitTimeout = 5 * time.Second
	defaultSlots       = 10
)

type ClientConfig struct {
	Host           string
	MaxOpenConn    int32
	AliveCheckIntv time.Duration // minimum wait before a dead pool dials again
	ConnConf       *thrift.TConfiguration
}

func DefaultClientConf(host string, connConf *thrift.TConfiguration) *ClientConfig {
	return &ClientConfig{
		Host:           host,
		MaxOpenConn:    defaultPoolSize,
		AliveCheckIntv: defaultAliveIntv,
		ConnConf:       connConf,
	}
}

type IThriftClient[T any] interface {
	Open() error
	Close() error
	GetTransport() thrift.TTransport
	GetCore() T
}

type IClientFactory[T any] interface {
	NewClient(conf ClientConfig) (IThriftClient[T], error)
}

// ClientCtor builds the typed core (e.g. a generated or hand written
// client) on top of a standard thrift client.
type ClientCtor = func(thrift.TClient) any

// ThriftClient is one framed, binary protocol connection and the typed core
// built on it.
type ThriftClient[T any] struct {
	Addr     string
	connConf *thrift.TConfiguration
	cliCtor  ClientCtor
	Core     T
	Trans    thrift.TTransport
}

func NewThriftClient[T any](addr string, conf *thrift.TConfiguration, cliCtor ClientCtor) (*ThriftClient[T], error) {
	if cliCtor == nil {
		return nil, ErrInvalidParam
	}
	client := &ThriftClient[T]{
		Addr:     addr,
		connConf: conf,
		cliCtor:  cliCtor,
	}
	return client, client.Open()
}

func (c *ThriftClient[T]) Open() error {
	socket := thrift.NewTSocketConf(c.Addr, c.connConf)
	trans := thrift.NewTFramedTransportConf(socket, c.connConf)
	iprot := thrift.NewTBinaryProtocolConf(trans, c.connConf)
	oprot := thrift.NewTBinaryProtocolConf(trans, c.connConf)
	raw := c.cliCtor(thrift.NewTStandardClient(iprot, oprot))
	core, ok := raw.(T)
	if !ok {
		return errors.Errorf("client ctor for %v returned %T", c.Addr, raw)
	}
	c.Core = core
	c.Trans = trans
	return c.Trans.Open()
}

func (c *ThriftClient[T]) Close() error {
	if c.Trans != nil {
		return c.Trans.Close()
	}
	return nil
}

func (c *ThriftClient[T]) GetTransport() thrift.TTransport {
	return c.Trans
}

func (c *ThriftClient[T]) GetCore() T {
	return c.Core
}

type ThriftClientFactory[T any] struct {
	ctor ClientCtor
}

func NewThriftClientFactory[T any](ctor ClientCtor) *ThriftClientFactory[T] {
	return &ThriftClientFactory[T]{ctor: ctor}
}

func (f *ThriftClientFactory[T]) NewClient(conf ClientConfig) (IThriftClient[T], error) {
	return NewThriftClient[T](conf.Host, conf.ConnConf, f.ctor)
}

// ClientPool caches open connections to one host. When dialing fails the
// pool is marked dead and refuses to dial again until AliveCheckIntv has
// passed.
type ClientPool[T any] struct {
	ClientConfig
	cliFactory   IClientFactory[T]
	connections  chan IThriftClient[T]
	slots        chan struct{}
	numOpenConn  atomic.Int32
	isClosed     atomic.Bool
	isAlive      atomic.Bool
	lastDeadTime atomic.Int64 // unix nano
}

func validateConf(conf *ClientConfig) error {
	if conf == nil || conf.Host == "" || conf.MaxOpenConn <= 0 {
		return ErrInvalidParam
	}
	return nil
}

// NewClientPool builds ThriftClient[T] connections with cliCtor.
func NewClientPool[T any](conf *ClientConfig, cliCtor ClientCtor) (*ClientPool[T], error) {
	if cliCtor == nil {
		return nil, ErrInvalidParam
	}
	return NewClientPoolFactory[T](conf, NewThriftClientFactory[T](cliCtor))
}

// NewClientPoolFactory builds connections with a caller provided factory.
func NewClientPoolFactory[T any](conf *ClientConfig, clientFactory IClientFactory[T]) (*ClientPool[T], error) {
	if err := validateConf(conf); err != nil {
		utils.LogErro("[pool] invalid pool config: %v", err)
		return nil, err
	}
	p := &ClientPool[T]{
		ClientConfig: *conf,
		cliFactory:   clientFactory,
		connections:  make(chan IThriftClient[T], conf.MaxOpenConn),
		slots:        make(chan struct{}, defaultSlots),
	}
	p.isAlive.Store(true)
	return p, nil
}

func (p *ClientPool[T]) markDead(reason any) {
	if p.isAlive.CompareAndSwap(true, false) {
		p.lastDeadTime.Store(time.Now().UnixNano())
		utils.LogInfo("[pool][%v] dead: %v", p.Host, reason)
	}
}

func (p *ClientPool[T]) sinceDead() time.Duration {
	return time.Since(time.Unix(0, p.lastDeadTime.Load()))
}

func (p *ClientPool[T]) waitTimeout() time.Duration {
	if d := p.ConnConf.GetConnectTimeout(); d > 0 {
		return d
	}
	return defaultWaitTimeout
}

// Get returns a cached connection, dials a new one while under
// MaxOpenConn, or waits for one to be put back.
func (p *ClientPool[T]) Get() (IThriftClient[T], error) {
	if p.isClosed.Load() {
		return nil, ErrPoolClosed
	}
	if !p.isAlive.Load() {
		if p.sinceDead() < p.AliveCheckIntv {
			return nil, ErrNoConnection
		}
		p.isAlive.CompareAndSwap(false, true)
	}
	p.slots <- struct{}{}
	defer func() {
		<-p.slots
	}()
	select {
	case conn, ok := <-p.connections:
		if !ok {
			return nil, ErrPoolClosed
		}
		return conn, nil
	default:
	}
	if p.numOpenConn.Load() < p.MaxOpenConn {
		conn, err := p.cliFactory.NewClient(p.ClientConfig)
		if err != nil {
			if conn != nil {
				conn.Close()
			}
			p.markDead(err)
			return nil, ErrNoConnection
		}
		p.numOpenConn.Add(1)
		return conn, nil
	}
	t := common.BorrowTimer(p.waitTimeout())
	defer common.ReturnTimer(t)
	select {
	case conn, ok := <-p.connections:
		if !ok {
			return nil, ErrPoolClosed
		}
		return conn, nil
	case <-t.C:
		return nil, ErrMaxConnReached
	}
}

// Put returns conn to the pool, or closes it when the pool cannot keep it.
func (p *ClientPool[T]) Put(conn IThriftClient[T]) {
	if conn == nil {
		return
	}
	if p.isClosed.Load() || !p.isAlive.Load() {
		p.closeConn(conn)
		return
	}
	select {
	case p.connections <- conn:
	default:
		p.closeConn(conn)
	}
}

// Release puts conn back when the call that used it succeeded or failed
// with an application exception, and drops it otherwise. A transport error
// means the host is likely gone, so every cached connection is dropped and
// the pool is marked dead.
func (p *ClientPool[T]) Release(conn IThriftClient[T], err error) {
	if conn == nil {
		return
	}
	var tae thrift.TApplicationException
	if err == nil || errors.As(err, &tae) {
		p.Put(conn)
		return
	}
	var tec thrift.TTransportException
	if errors.As(err, &tec) {
		p.markDead(tec)
		p.drain()
	}
	p.closeConn(conn)
}

func (p *ClientPool[T]) closeConn(conn IThriftClient[T]) {
	conn.Close()
	p.numOpenConn.Add(-1)
}

func (p *ClientPool[T]) drain() {
	for {
		select {
		case c, ok := <-p.connections:
			if !ok {
				return
			}
			p.closeConn(c)
		default:
			return
		}
	}
}

func (p *ClientPool[T]) Len() int {
	return len(p.connections)
}

func (p *ClientPool[T]) NumOpen() int32 {
	return p.numOpenConn.Load()
}

func (p *ClientPool[T]) IsAlive() bool {
	return p.isAlive.Load()
}

func (p *ClientPool[T]) Destroy() {
	if p.isClosed.CompareAndSwap(false, true) {
		close(p.connections)
		for conn := range p.connections {
			p.closeConn(conn)
		}
		utils.LogInfo("[pool][%v] pool is destroyed", p.Host)
	}
}

var (
	_ IThriftClient[any]  = (*ThriftClient[any])(nil)
	_ IClientFactory[any] = (*ThriftClientFactory[any])(nil)
)
