package reasoning

import (
	"container/list"
	"sync"

	"github.com/becomeliminal/cortex/memory"
)

// relationLRU is a small fixed-capacity LRU cache of reasoning relations
// keyed by relation id, guarded by a single mutex (operations are O(1)
// under the lock).
type relationLRU struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type lruEntry struct {
	key   string
	value memory.ReasoningRelation
}

func newRelationLRU(capacity int) *relationLRU {
	if capacity <= 0 {
		capacity = 500
	}
	return &relationLRU{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

func (c *relationLRU) put(key string, rel memory.ReasoningRelation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry).value = rel
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&lruEntry{key: key, value: rel})
	c.items[key] = el

	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
}

func (c *relationLRU) get(key string) (memory.ReasoningRelation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return memory.ReasoningRelation{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*lruEntry).value, true
}

func (c *relationLRU) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
