// Package pmap provides an immutable hash map (a Hash Array Mapped Trie).
// Every update returns a new map sharing structure with the old one, so a
// map can be handed to sibling recursive calls without copying.
package pmap

const (
	hamtBits = 5
	hamtSize = 1 << hamtBits // 32
	hamtMask = hamtSize - 1
)

// Hasher computes the hash of a key.
type Hasher[K comparable] func(K) uint32

// Map is an immutable hash map
type Map[K comparable, V any] struct {
	root  *hamtNode[K, V]
	count int
	hash  Hasher[K]
}

type hamtNode[K comparable, V any] struct {
	bitmap uint32 // which indices are populated
	nodes  []any  // hamtEntry or *hamtNode
}

type hamtEntry[K comparable, V any] struct {
	hash  uint32
	key   K
	value V
}

// New returns an empty map using hash for its keys.
func New[K comparable, V any](hash Hasher[K]) *Map[K, V] {
	return &Map[K, V]{hash: hash}
}

// NewString returns an empty map keyed by strings.
func NewString[V any]() *Map[string, V] {
	return New[string, V](HashString)
}

// HashString is FNV-1a over the bytes of s.
func HashString(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// Len returns the number of entries
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return m.count
}

// Get returns the value for a key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	var zero V
	if m == nil || m.root == nil {
		return zero, false
	}
	return m.root.get(m.hash(key), key, 0)
}

// Contains checks if a key exists
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Put returns a new map with the key-value pair added/updated
func (m *Map[K, V]) Put(key K, value V) *Map[K, V] {
	hash := m.hash(key)

	root := m.root
	if root == nil {
		root = &hamtNode[K, V]{}
	}
	newRoot, added := root.put(hash, key, value, 0)

	newCount := m.count
	if added {
		newCount++
	}
	return &Map[K, V]{root: newRoot, count: newCount, hash: m.hash}
}

// Remove returns a new map with the key removed
func (m *Map[K, V]) Remove(key K) *Map[K, V] {
	if m.root == nil {
		return m
	}
	newRoot, removed := m.root.remove(m.hash(key), key, 0)
	if !removed {
		return m
	}
	return &Map[K, V]{root: newRoot, count: m.count - 1, hash: m.hash}
}

// Keys returns all keys in trie order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.Range(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Range calls fn for every entry until fn returns false.
// Iteration order depends only on the keys' hashes.
func (m *Map[K, V]) Range(fn func(K, V) bool) {
	if m == nil || m.root == nil {
		return
	}
	m.root.each(fn)
}

// Merge returns a new map with entries from other (other wins on conflict)
func (m *Map[K, V]) Merge(other *Map[K, V]) *Map[K, V] {
	result := m
	other.Range(func(k K, v V) bool {
		result = result.Put(k, v)
		return true
	})
	return result
}

func (n *hamtNode[K, V]) get(hash uint32, key K, shift uint) (V, bool) {
	var zero V
	if shift >= 32 {
		// Collision bucket search
		for _, node := range n.nodes {
			if entry, ok := node.(hamtEntry[K, V]); ok && entry.key == key {
				return entry.value, true
			}
		}
		return zero, false
	}

	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx
	if n.bitmap&bit == 0 {
		return zero, false
	}

	pos := popcount(n.bitmap & (bit - 1))
	switch v := n.nodes[pos].(type) {
	case hamtEntry[K, V]:
		if v.hash == hash && v.key == key {
			return v.value, true
		}
	case *hamtNode[K, V]:
		return v.get(hash, key, shift+hamtBits)
	}
	return zero, false
}

func (n *hamtNode[K, V]) clone() *hamtNode[K, V] {
	newNode := &hamtNode[K, V]{
		bitmap: n.bitmap,
		nodes:  make([]any, len(n.nodes)),
	}
	copy(newNode.nodes, n.nodes)
	return newNode
}

func (n *hamtNode[K, V]) put(hash uint32, key K, value V, shift uint) (*hamtNode[K, V], bool) {
	entry := hamtEntry[K, V]{hash: hash, key: key, value: value}

	// Exhausted the hash bits: the node is a collision bucket.
	if shift >= 32 {
		newNode := n.clone()
		for i, node := range newNode.nodes {
			if e, ok := node.(hamtEntry[K, V]); ok && e.key == key {
				newNode.nodes[i] = entry
				return newNode, false
			}
		}
		newNode.nodes = append(newNode.nodes, entry)
		return newNode, true
	}

	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx
	newNode := n.clone()

	if n.bitmap&bit == 0 {
		newNode.bitmap |= bit
		pos := popcount(newNode.bitmap & (bit - 1))
		newNode.nodes = append(newNode.nodes, nil)
		copy(newNode.nodes[pos+1:], newNode.nodes[pos:])
		newNode.nodes[pos] = entry
		return newNode, true
	}

	pos := popcount(n.bitmap & (bit - 1))
	switch v := newNode.nodes[pos].(type) {
	case hamtEntry[K, V]:
		if v.hash == hash && v.key == key {
			newNode.nodes[pos] = entry
			return newNode, false
		}
		// Push both entries one level down
		child := &hamtNode[K, V]{}
		child, _ = child.put(v.hash, v.key, v.value, shift+hamtBits)
		child, _ = child.put(hash, key, value, shift+hamtBits)
		newNode.nodes[pos] = child
		return newNode, true

	case *hamtNode[K, V]:
		newChild, added := v.put(hash, key, value, shift+hamtBits)
		newNode.nodes[pos] = newChild
		return newNode, added
	}

	return newNode, false
}

func (n *hamtNode[K, V]) remove(hash uint32, key K, shift uint) (*hamtNode[K, V], bool) {
	if shift >= 32 {
		for i, node := range n.nodes {
			if entry, ok := node.(hamtEntry[K, V]); ok && entry.key == key {
				return n.without(i, n.bitmap), true
			}
		}
		return n, false
	}

	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx
	if n.bitmap&bit == 0 {
		return n, false
	}

	pos := popcount(n.bitmap & (bit - 1))
	switch v := n.nodes[pos].(type) {
	case hamtEntry[K, V]:
		if v.hash == hash && v.key == key {
			return n.without(pos, n.bitmap&^bit), true
		}
		return n, false

	case *hamtNode[K, V]:
		newChild, removed := v.remove(hash, key, shift+hamtBits)
		if !removed {
			return n, false
		}
		if len(newChild.nodes) == 0 {
			return n.without(pos, n.bitmap&^bit), true
		}
		newNode := n.clone()
		// Pull a lone entry up
		if entry, ok := newChild.nodes[0].(hamtEntry[K, V]); ok && len(newChild.nodes) == 1 {
			newNode.nodes[pos] = entry
		} else {
			newNode.nodes[pos] = newChild
		}
		return newNode, true
	}

	return n, false
}

func (n *hamtNode[K, V]) without(pos int, bitmap uint32) *hamtNode[K, V] {
	newNode := &hamtNode[K, V]{
		bitmap: bitmap,
		nodes:  make([]any, len(n.nodes)-1),
	}
	copy(newNode.nodes[:pos], n.nodes[:pos])
	copy(newNode.nodes[pos:], n.nodes[pos+1:])
	return newNode
}

func (n *hamtNode[K, V]) each(fn func(K, V) bool) bool {
	for _, node := range n.nodes {
		switch v := node.(type) {
		case hamtEntry[K, V]:
			if !fn(v.key, v.value) {
				return false
			}
		case *hamtNode[K, V]:
			if !v.each(fn) {
				return false
			}
		}
	}
	return true
}

// popcount counts set bits
func popcount(x uint32) int {
	x = x - ((x >> 1) & 0x55555555)
	x = (x & 0x33333333) + ((x >> 2) & 0x33333333)
	x = (x + (x >> 4)) & 0x0f0f0f0f
	x = x + (x >> 8)
	x = x + (x >> 16)
	return int(x & 0x3f)
}
