package common

import (
	"sync"
)

// shardCount is a power of two so the hash can be masked instead of modded.
const shardCount = 16

// ShardedMap is a string-keyed concurrent map split into independently
// locked shards. Operations on different keys that land in different
// shards never block one another; operations on the same key are
// serialized by that key's shard lock.
type ShardedMap[V any] struct {
	shards [shardCount]mapShard[V]
}

type mapShard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// NewShardedMap creates an empty sharded map.
func NewShardedMap[V any]() *ShardedMap[V] {
	m := &ShardedMap[V]{}
	for i := range m.shards {
		m.shards[i].items = make(map[string]V)
	}
	return m
}

// fnv1a is the 32-bit FNV-1a hash, inlined to avoid allocating a hasher
// per operation.
func fnv1a(key string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return h
}

func (m *ShardedMap[V]) shard(key string) *mapShard[V] {
	return &m.shards[fnv1a(key)&(shardCount-1)]
}

// Get returns the value stored under key.
func (m *ShardedMap[V]) Get(key string) (V, bool) {
	s := m.shard(key)
	s.mu.RLock()
	v, ok := s.items[key]
	s.mu.RUnlock()
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (m *ShardedMap[V]) Set(key string, value V) {
	s := m.shard(key)
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
}

// Swap stores value under key and returns the previous value, if any.
// The replacement is atomic with respect to the key.
func (m *ShardedMap[V]) Swap(key string, value V) (V, bool) {
	s := m.shard(key)
	s.mu.Lock()
	old, loaded := s.items[key]
	s.items[key] = value
	s.mu.Unlock()
	return old, loaded
}

// Update applies fn to the value stored under key and stores the
// result, returning the previous value. The read-modify-write happens
// under the shard lock. A missing key is left untouched.
func (m *ShardedMap[V]) Update(key string, fn func(V) V) (V, bool) {
	s := m.shard(key)
	s.mu.Lock()
	old, ok := s.items[key]
	if ok {
		s.items[key] = fn(old)
	}
	s.mu.Unlock()
	return old, ok
}

// Delete removes key and returns the value that was stored under it.
func (m *ShardedMap[V]) Delete(key string) (V, bool) {
	s := m.shard(key)
	s.mu.Lock()
	v, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	s.mu.Unlock()
	return v, ok
}

// DeleteIf removes key only if pred accepts the current value. The check
// and the removal happen under the shard lock, so a concurrent Swap
// cannot race the eviction.
func (m *ShardedMap[V]) DeleteIf(key string, pred func(V) bool) (V, bool) {
	s := m.shard(key)
	s.mu.Lock()
	v, ok := s.items[key]
	if ok && pred(v) {
		delete(s.items, key)
	} else {
		ok = false
	}
	s.mu.Unlock()
	return v, ok
}

// Len returns the total number of stored entries.
func (m *ShardedMap[V]) Len() int {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// Range calls f for every entry until f returns false. Each shard is
// snapshotted under its read lock before f runs, so f may call back into
// the map without deadlocking.
func (m *ShardedMap[V]) Range(f func(key string, value V) bool) {
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		keys := make([]string, 0, len(s.items))
		vals := make([]V, 0, len(s.items))
		for k, v := range s.items {
			keys = append(keys, k)
			vals = append(vals, v)
		}
		s.mu.RUnlock()
		for j := range keys {
			if !f(keys[j], vals[j]) {
				return
			}
		}
	}
}
