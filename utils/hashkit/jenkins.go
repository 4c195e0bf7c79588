package hashkit

import "hash"

const (
	DefaultSum32 = 0
)

// sum32 is Jenkins one-at-a-time state, usable as a streaming hash.Hash32.
type sum32 uint32

func (s *sum32) BlockSize() int { return 1 }
func (s *sum32) Reset()         { *s = DefaultSum32 }
func (s *sum32) Size() int      { return 4 }
func (s *sum32) Sum(in []byte) []byte {
	v := s.Sum32()
	return append(in, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Sum32 applies the final avalanche to the running state.
func (s *sum32) Sum32() uint32 { return finalize(uint32(*s)) }

func (s *sum32) Write(data []byte) (int, error) {
	*s = sum32(mix(uint32(*s), data))
	return len(data), nil
}

func NewJenkins32() hash.Hash32 {
	var s sum32 = DefaultSum32
	return &s
}

func mix(hash uint32, data []byte) uint32 {
	for _, b := range data {
		hash += uint32(b)
		hash += hash << 10
		hash ^= hash >> 6
	}
	return hash
}

func finalize(hash uint32) uint32 {
	hash += hash << 3
	hash ^= hash >> 11
	hash += hash << 15
	return hash
}

// Jenkins is the one-at-a-time hash of data.
func Jenkins(data []byte) uint32 {
	return finalize(mix(0, data))
}
