package gwstat

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Stats kept by the gateway:
//   - per deque: count of every op served
//   - errors: count per error class

const (
	MsgParseErrKey  = "msg_parse"
	NotFoundErrKey  = "not_found"
	EmptyErrKey     = "empty"
	FullErrKey      = "full"
	UnknownOpErrKey = "unknown_op"
	InternalErrKey  = "internal"
)

type (
	JSONAtomicI64 struct {
		atomic.Int64
	}
	OpStat struct {
		Op    string        `json:"name"`
		Count JSONAtomicI64 `json:"count"`
	}
	OpStatList struct {
		Data []*OpStat `json:"ops"`
		mu   sync.Mutex
	}
	GWStats struct {
		Stats    map[string]*OpStatList    `json:"stats"` // deque name : {op, count}
		ErrorMap map[string]*JSONAtomicI64 `json:"errors"`
		rwMu     sync.RWMutex
	}
)

func (f *JSONAtomicI64) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%v", f.Load())), nil
}

func NewOpStat(op string) *OpStat {
	return &OpStat{Op: op}
}

func (p *OpStat) String() string {
	return fmt.Sprintf("%q: %v", p.Op, p.Count.Load())
}

func NewOpStatList() *OpStatList {
	return &OpStatList{Data: make([]*OpStat, 0)}
}

func (l *OpStatList) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	parts := make([]string, 0, len(l.Data))
	for _, s := range l.Data {
		parts = append(parts, s.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// inc bumps the counter of op, adding it in sorted position when new.
func (l *OpStatList) inc(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ind, found := slices.BinarySearchFunc(l.Data, op, func(s *OpStat, target string) int {
		return strings.Compare(s.Op, target)
	})
	if found {
		l.Data[ind].Count.Add(1)
		return
	}
	s := NewOpStat(op)
	s.Count.Add(1)
	l.Data = slices.Insert(l.Data, ind, s)
}

func (l *OpStatList) Count(op string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	ind, found := slices.BinarySearchFunc(l.Data, op, func(s *OpStat, target string) int {
		return strings.Compare(s.Op, target)
	})
	if !found {
		return 0
	}
	return l.Data[ind].Count.Load()
}

func NewGWStats() *GWStats {
	errorMap := map[string]*JSONAtomicI64{
		MsgParseErrKey:  {},
		NotFoundErrKey:  {},
		EmptyErrKey:     {},
		FullErrKey:      {},
		UnknownOpErrKey: {},
		InternalErrKey:  {},
	}
	return &GWStats{
		Stats:    make(map[string]*OpStatList),
		ErrorMap: errorMap,
	}
}

func (gws *GWStats) AddOpStat(deque, op string) {
	gws.rwMu.RLock()
	st, ok := gws.Stats[deque]
	gws.rwMu.RUnlock()
	if !ok {
		gws.rwMu.Lock()
		if st, ok = gws.Stats[deque]; !ok {
			st = NewOpStatList()
			gws.Stats[deque] = st
		}
		gws.rwMu.Unlock()
	}
	st.inc(op)
}

// DelDeque forgets the counters of a dropped deque.
func (gws *GWStats) DelDeque(deque string) {
	gws.rwMu.Lock()
	defer gws.rwMu.Unlock()
	delete(gws.Stats, deque)
}

func (gws *GWStats) OpCount(deque, op string) int64 {
	gws.rwMu.RLock()
	defer gws.rwMu.RUnlock()
	if st, ok := gws.Stats[deque]; ok {
		return st.Count(op)
	}
	return 0
}

func (gws *GWStats) IncErrStat(key string) {
	gws.rwMu.RLock()
	defer gws.rwMu.RUnlock()
	if c, ok := gws.ErrorMap[key]; ok {
		c.Add(1)
	}
}

func (gws *GWStats) ErrCount(key string) int64 {
	gws.rwMu.RLock()
	defer gws.rwMu.RUnlock()
	if c, ok := gws.ErrorMap[key]; ok {
		return c.Load()
	}
	return 0
}

func (gws *GWStats) String() string {
	gws.rwMu.RLock()
	defer gws.rwMu.RUnlock()
	names := make([]string, 0, len(gws.Stats))
	for name := range gws.Stats {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	sb.WriteString("Stats:")
	if len(names) == 0 {
		sb.WriteString(" []")
	}
	sb.WriteString("\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "  %v: %v\n", name, gws.Stats[name])
	}
	keys := make([]string, 0, len(gws.ErrorMap))
	for k := range gws.ErrorMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sb.WriteString("Errors: {")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %v", k, gws.ErrorMap[k].Load())
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (gws *GWStats) JSON() ([]byte, error) {
	gws.rwMu.RLock()
	defer gws.rwMu.RUnlock()
	return json.Marshal(gws)
}
