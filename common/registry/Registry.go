package registry

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/Qthai16/go-deque/common/cldeque"
	"github.com/Qthai16/go-deque/utils"
	"github.com/Qthai16/go-deque/utils/hashkit"

	"github.com/aviddiviner/go-murmur"
	"github.com/juju/errors"
)

type (
	HashFn func([]byte) uint64
	DoFn   func(d *cldeque.CircularList) error

	Config struct {
		Shards   int    // number of lock shards, rounded up to a power of two
		Hash     HashFn // picks the shard of a deque name
		ListConf cldeque.Config
	}

	shard struct {
		mu     sync.Mutex
		deques map[string]*cldeque.CircularList
	}

	// Registry owns a set of named circular deques. Access to a deque is
	// serialized by the lock of the shard its name hashes to.
	Registry struct {
		Config
		shards []shard
		mask   uint64
	}
)

const (
	DefaultShards = 16
	maxShards     = 1 << 16
)

var (
	Murmur32Seed = rand.Uint32()
	defaultHash  = JenkinsHash
)

func JenkinsHash(v []byte) uint64 {
	return uint64(hashkit.Jenkins(v))
}

func Murmur32Hash(v []byte) uint64 {
	h := murmur.New32(Murmur32Seed)
	h.Write(v)
	return uint64(h.Sum32())
}

func Murmur64Hash(v []byte) uint64 {
	return hashkit.Murmur64(v)
}

// HashByName maps the -hash flag values to hash functions.
func HashByName(name string) (HashFn, error) {
	switch name {
	case "", "jenkins":
		return JenkinsHash, nil
	case "murmur32":
		return Murmur32Hash, nil
	case "murmur64":
		return Murmur64Hash, nil
	}
	return nil, errors.NotValidf("hash function %q", name)
}

func DefaultConf() Config {
	return Config{
		Shards: DefaultShards,
		Hash:   defaultHash,
	}
}

func New(conf Config) *Registry {
	if conf.Shards <= 0 {
		conf.Shards = DefaultShards
	}
	if conf.Shards > maxShards {
		conf.Shards = maxShards
	}
	n := 1
	for n < conf.Shards {
		n <<= 1
	}
	conf.Shards = n
	if conf.Hash == nil {
		conf.Hash = defaultHash
	}
	r := &Registry{
		Config: conf,
		shards: make([]shard, n),
		mask:   uint64(n - 1),
	}
	for i := range r.shards {
		r.shards[i].deques = make(map[string]*cldeque.CircularList)
	}
	return r
}

func (r *Registry) shardOf(name string) *shard {
	return &r.shards[r.Hash([]byte(name))&r.mask]
}

// Do runs fn on the deque called name while holding its shard lock. When
// create is set a missing deque is created first, otherwise a NotFound
// error is returned.
func (r *Registry) Do(name string, create bool, fn DoFn) error {
	if name == "" {
		return errors.NotValidf("empty deque name")
	}
	s := r.shardOf(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deques[name]
	if !ok {
		if !create {
			return errors.NotFoundf("deque %q", name)
		}
		d = cldeque.NewConf(r.ListConf)
		s.deques[name] = d
		utils.LogDebug("[registry] created deque %q", name)
	}
	return fn(d)
}

// Drop destroys the deque called name and reports whether it existed.
func (r *Registry) Drop(name string) bool {
	s := r.shardOf(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deques[name]
	if !ok {
		return false
	}
	d.Destroy()
	delete(s.deques, name)
	utils.LogDebug("[registry] dropped deque %q", name)
	return true
}

// Names returns the sorted names of all deques.
func (r *Registry) Names() []string {
	names := make([]string, 0)
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		for name := range s.deques {
			names = append(names, name)
		}
		s.mu.Unlock()
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		n += len(s.deques)
		s.mu.Unlock()
	}
	return n
}

// Close destroys every deque.
func (r *Registry) Close() {
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		for name, d := range s.deques {
			d.Destroy()
			delete(s.deques, name)
		}
		s.mu.Unlock()
	}
}
