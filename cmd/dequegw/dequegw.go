package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/Qthai16/go-deque/cmd/dequegw/gwstat"
	"github.com/Qthai16/go-deque/cmd/dequegw/handler"
	"github.com/Qthai16/go-deque/common/cldeque"
	"github.com/Qthai16/go-deque/common/registry"
	"github.com/Qthai16/go-deque/utils"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/sevlyar/go-daemon"
)

// todo: dump stats on SIGUSR1 without stopping the server

var (
	srvConf *thrift.TConfiguration = &thrift.TConfiguration{
		MaxFrameSize:       1024 * 1024 * 16,
		TBinaryStrictRead:  thrift.BoolPtr(true),
		TBinaryStrictWrite: thrift.BoolPtr(true),
	}
	transFactory thrift.TTransportFactory = thrift.NewTFramedTransportFactoryConf(thrift.NewTBufferedTransportFactory(8192), srvConf)
	protoFactory thrift.TProtocolFactory  = thrift.NewTBinaryProtocolFactoryConf(srvConf)
	cmdLineOpts                           = CmdlineOpts{}
)

type CmdlineOpts struct {
	Addr     string
	LogPath  string
	Daemon   bool
	Shards   int
	Capacity int
	Hash     string
	Debug    bool
}

func flagInit() {
	gnuflag.StringVar(&cmdLineOpts.Addr, "addr", ":18000", "server listen addr")
	gnuflag.StringVar(&cmdLineOpts.LogPath, "log", "", "log file path")
	gnuflag.BoolVar(&cmdLineOpts.Daemon, "daemon", false, "run as daemon")
	gnuflag.IntVar(&cmdLineOpts.Shards, "shards", registry.DefaultShards, "number of registry lock shards")
	gnuflag.IntVar(&cmdLineOpts.Capacity, "capacity", 0, "max values per deque, 0 means unbounded")
	gnuflag.StringVar(&cmdLineOpts.Hash, "hash", "jenkins", "shard hash: jenkins, murmur32 or murmur64")
	gnuflag.BoolVar(&cmdLineOpts.Debug, "debug", false, "log every op error")
}

func newRegistry() (*registry.Registry, error) {
	hash, err := registry.HashByName(cmdLineOpts.Hash)
	if err != nil {
		return nil, err
	}
	if cmdLineOpts.Capacity < 0 {
		return nil, errors.NotValidf("negative capacity %v", cmdLineOpts.Capacity)
	}
	return registry.New(registry.Config{
		Shards: cmdLineOpts.Shards,
		Hash:   hash,
		ListConf: cldeque.Config{
			Capacity: cmdLineOpts.Capacity,
		},
	}), nil
}

func startThriftServer(proc *handler.Processor, addr string) (*thrift.TSimpleServer, error) {
	prefix := "thrift-server"
	srvSocket, err := thrift.NewTServerSocketTimeout(addr, 0)
	if err != nil {
		return nil, errors.Annotatef(err, "%v: failed to create socket %v", prefix, addr)
	}
	server := thrift.NewTSimpleServer4(proc, srvSocket, transFactory, protoFactory)
	if err := server.Listen(); err != nil {
		return nil, errors.Annotatef(err, "%v: failed to listen", prefix)
	}
	utils.LogInfo("%v: listening on %v", prefix, addr)
	return server, nil
}

func uniqPidFile() string {
	src := rand.NewSource(time.Now().UnixNano())
	r := rand.New(src)
	return fmt.Sprintf("dequegw.%d.pid", r.Intn(10000))
}

func run() {
	if len(cmdLineOpts.LogPath) > 0 {
		f, err := utils.OpenLogFile(cmdLineOpts.LogPath)
		if err != nil {
			utils.LogErro("failed to open log file %v: %v", cmdLineOpts.LogPath, err)
			return
		}
		log.SetOutput(f)
		utils.RedirectFile(os.Stderr, f)
		defer f.Close()
	}
	utils.SetDebug(cmdLineOpts.Debug)

	reg, err := newRegistry()
	if err != nil {
		utils.LogErro("invalid registry config: %v", err)
		return
	}
	defer reg.Close()
	stats := gwstat.NewGWStats()
	proc := handler.NewProcessor(reg, stats)

	server, err := startThriftServer(proc, cmdLineOpts.Addr)
	if err != nil {
		utils.LogErro("%v", err)
		return
	}
	done := make(chan error, 1)
	go func() {
		done <- server.AcceptLoop()
	}()
	select {
	case err := <-done:
		if err != nil {
			utils.LogErro("accept loop stopped: %v", err)
		}
	case <-utils.WaitTerminate():
		server.Stop()
	}
	utils.LogInfo("served %v deques\n%v", reg.Len(), stats)
	utils.LogInfo("server exit")
}

func main() {
	flagInit()
	gnuflag.Parse(true)
	if len(cmdLineOpts.Addr) == 0 {
		utils.LogErro("invalid address")
		return
	}
	if cmdLineOpts.Daemon {
		utils.LogInfo("running process as daemon")
		cntxt := &daemon.Context{
			PidFileName: fmt.Sprintf("/tmp/%s", uniqPidFile()),
			PidFilePerm: 0644,
		}
		d, err := cntxt.Reborn()
		if err != nil {
			utils.LogErro("failed to run as daemon: %v", err)
			return
		}
		if d != nil { // parent process
			return
		}
		defer cntxt.Release()
	}
	run()
}
