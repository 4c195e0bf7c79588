package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/Qthai16/go-deque/common/dequerpc"
	"github.com/Qthai16/go-deque/common/pool"
	"github.com/Qthai16/go-deque/utils"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
)

var (
	connConf *thrift.TConfiguration = &thrift.TConfiguration{
		ConnectTimeout:     5 * time.Second,
		SocketTimeout:      5 * time.Second,
		MaxFrameSize:       1024 * 1024 * 16,
		TBinaryStrictRead:  thrift.BoolPtr(true),
		TBinaryStrictWrite: thrift.BoolPtr(true),
	}
	cmdLineOpts = CmdlineOpts{}
)

type CmdlineOpts struct {
	Addr    string
	Name    string
	Timeout time.Duration
	Debug   bool
}

// step is one op of a script with its value, when the op takes one.
type step struct {
	op    string
	value float64
}

func (s step) String() string {
	if dequerpc.TakesValue(s.op) {
		return fmt.Sprintf("%v %v", s.op, s.value)
	}
	return s.op
}

// parseScript turns words like "addBack 1 addFront 2 reverse print" into
// steps. Ops taking a value consume the next word.
func parseScript(words []string) ([]step, error) {
	steps := make([]step, 0, len(words))
	for i := 0; i < len(words); i++ {
		op := words[i]
		if !slices.Contains(dequerpc.AllOps, op) {
			return nil, errors.NotValidf("op %q at word %v", op, i)
		}
		s := step{op: op}
		if dequerpc.TakesValue(op) {
			if i+1 >= len(words) {
				return nil, errors.NotValidf("missing value for %v", op)
			}
			i++
			v, err := strconv.ParseFloat(words[i], 64)
			if err != nil {
				return nil, errors.NewNotValid(err, fmt.Sprintf("value %q for %v", words[i], op))
			}
			s.value = v
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// formatResult renders the part of res that op fills in.
func formatResult(op string, res *dequerpc.OpResult) string {
	switch op {
	case dequerpc.OpFront, dequerpc.OpBack, dequerpc.OpRemoveFront, dequerpc.OpRemoveBack:
		return fmt.Sprintf("%v", res.Value)
	case dequerpc.OpIsEmpty:
		return fmt.Sprintf("%v", res.Empty)
	case dequerpc.OpPrint:
		return res.Text
	case dequerpc.OpValues:
		return fmt.Sprintf("%v", res.Values)
	case dequerpc.OpDrop:
		return fmt.Sprintf("dropped: %v", res.Size > 0)
	}
	return fmt.Sprintf("size: %v", res.Size)
}

func runStep(ctx context.Context, cliPool *pool.ClientPool[*dequerpc.DequeClient], s step) (string, error) {
	conn, err := cliPool.Get()
	if err != nil {
		return "", errors.Annotatef(err, "get connection to %v", cliPool.Host)
	}
	ctx, cancel := context.WithTimeout(ctx, cmdLineOpts.Timeout)
	defer cancel()
	res, err := conn.GetCore().Do(ctx, s.op, cmdLineOpts.Name, s.value)
	cliPool.Release(conn, err)
	if err != nil {
		return "", err
	}
	return formatResult(s.op, res), nil
}

func flagInit() {
	gnuflag.StringVar(&cmdLineOpts.Addr, "addr", "127.0.0.1:18000", "gateway addr")
	gnuflag.StringVar(&cmdLineOpts.Name, "name", "default", "deque name")
	gnuflag.DurationVar(&cmdLineOpts.Timeout, "timeout", 5*time.Second, "timeout of each call")
	gnuflag.BoolVar(&cmdLineOpts.Debug, "debug", false, "verbose log")
	gnuflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: dequecli [flags] op [value] ...\nops: %v\n", dequerpc.AllOps)
		gnuflag.PrintDefaults()
	}
}

func main() {
	flagInit()
	gnuflag.Parse(false)
	utils.SetDebug(cmdLineOpts.Debug)

	steps, err := parseScript(gnuflag.Args())
	if err != nil {
		utils.LogErro("invalid script: %v", err)
		os.Exit(2)
	}
	if len(steps) == 0 {
		gnuflag.Usage()
		os.Exit(2)
	}
	conf := pool.DefaultClientConf(cmdLineOpts.Addr, connConf)
	conf.MaxOpenConn = 1
	cliPool, err := pool.NewClientPool[*dequerpc.DequeClient](conf, dequerpc.NewDequeClientCore)
	if err != nil {
		utils.LogFatal("failed to create client pool: %v", err)
	}
	defer cliPool.Destroy()

	ctx := context.Background()
	failed := 0
	for _, s := range steps {
		out, err := runStep(ctx, cliPool, s)
		if err != nil {
			failed++
			fmt.Printf("%v %q: error: %v\n", s, cmdLineOpts.Name, err)
			continue
		}
		utils.LogDebug("%v %q done", s, cmdLineOpts.Name)
		fmt.Printf("%v %q: %v\n", s, cmdLineOpts.Name, out)
	}
	if failed > 0 {
		cliPool.Destroy()
		os.Exit(1)
	}
}
