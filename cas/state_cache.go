package cas

import (
	"container/list"
	"sync"

	"github.com/timewinder-dev/wheellock/lock"
)

// DefaultStateCacheSize is used when NewStateCache is given a size <= 0.
const DefaultStateCacheSize = 1000

// StateCache sits in front of another CAS and keeps the most recently used
// states already decoded. States are cached as they are Put, so walking
// parent links right after a search is served without touching msgpack.
// Entries are evicted least recently used first.
type StateCache struct {
	mu         sync.Mutex
	underlying CAS
	entries    map[Hash]*list.Element
	order      *list.List // front is most recent
	maxSize    int
	hits       int
	misses     int
}

type cachedState struct {
	hash  Hash
	state lock.State
}

func NewStateCache(underlying CAS, maxSize int) *StateCache {
	if maxSize <= 0 {
		maxSize = DefaultStateCacheSize
	}
	return &StateCache{
		underlying: underlying,
		entries:    make(map[Hash]*list.Element),
		order:      list.New(),
		maxSize:    maxSize,
	}
}

// Put stores item in the underlying CAS and caches it when it is a state.
func (c *StateCache) Put(item Hashable) (Hash, error) {
	h, err := c.underlying.Put(item)
	if err != nil {
		return 0, err
	}
	if st, ok := item.(*lock.State); ok {
		c.mu.Lock()
		c.remember(h, *st)
		c.mu.Unlock()
	}
	return h, nil
}

func (c *StateCache) Has(hash Hash) bool {
	return c.underlying.Has(hash)
}

func (c *StateCache) Len() int {
	return c.underlying.Len()
}

// getValue passes raw reads through so Retrieve works on a StateCache.
func (c *StateCache) getValue(h Hash) (bool, []byte, error) {
	ds, ok := c.underlying.(directStore)
	if !ok {
		return false, nil, nil
	}
	return ds.getValue(h)
}

// State returns the state stored under h. A miss decodes it from the
// underlying CAS and caches the result.
func (c *StateCache) State(h Hash) (lock.State, error) {
	c.mu.Lock()
	if elem, ok := c.entries[h]; ok {
		c.hits++
		c.order.MoveToFront(elem)
		st := elem.Value.(*cachedState).state
		c.mu.Unlock()
		return st, nil
	}
	c.misses++
	c.mu.Unlock()

	st, err := Retrieve[*lock.State](c.underlying, h)
	if err != nil {
		return lock.State{}, err
	}

	c.mu.Lock()
	c.remember(h, *st)
	c.mu.Unlock()
	return *st, nil
}

// remember adds or refreshes an entry. Callers hold c.mu.
func (c *StateCache) remember(h Hash, st lock.State) {
	if elem, ok := c.entries[h]; ok {
		c.order.MoveToFront(elem)
		return
	}
	c.entries[h] = c.order.PushFront(&cachedState{hash: h, state: st})
	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cachedState).hash)
	}
}

type CacheStats struct {
	Size    int
	MaxSize int
	Hits    int // lookups answered without decoding
	Misses  int // lookups that decoded from the underlying CAS
}

func (c *StateCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Size:    len(c.entries),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
