package boundary

import (
	"bytes"
	"sync"

	"github.com/google/btree"
)

const defaultTreeDegree = 8

type cell struct {
	key   []byte
	value []byte
}

func (c cell) less(other cell) bool {
	return bytes.Compare(c.key, other.key) < 0
}

// Storage is an ordered key-value store of encoded cells. An empty value and
// a missing key are the same thing. It is safe for concurrent use.
type Storage struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[cell]
}

func NewStorage() *Storage {
	return &Storage{tree: btree.NewG(defaultTreeDegree, cell.less)}
}

// Get returns a copy of the value under key, or nil.
func (s *Storage) Get(key []byte) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.tree.Get(cell{key: key})
	if !ok {
		return nil
	}
	return bytes.Clone(c.value)
}

// Set stores a copy of value. Setting an empty value deletes the key.
func (s *Storage) Set(key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(value) == 0 {
		s.tree.Delete(cell{key: key})
		return
	}
	s.tree.ReplaceOrInsert(cell{key: bytes.Clone(key), value: bytes.Clone(value)})
}

func (s *Storage) Delete(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.Delete(cell{key: key})
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

// commit applies staged writes atomically.
func (s *Storage) commit(w *writeSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.tree.Ascend(func(c cell) bool {
		if len(c.value) == 0 {
			s.tree.Delete(c)
		} else {
			s.tree.ReplaceOrInsert(c)
		}
		return true
	})
}

// Keys returns every key in ascending byte order.
func (s *Storage) Keys() [][]byte {
	return s.KeysWithPrefix(nil)
}

// KeysWithPrefix returns the keys starting with prefix in ascending order.
func (s *Storage) KeysWithPrefix(prefix []byte) [][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys [][]byte
	s.tree.AscendGreaterOrEqual(cell{key: prefix}, func(c cell) bool {
		if !bytes.HasPrefix(c.key, prefix) {
			return false
		}
		keys = append(keys, bytes.Clone(c.key))
		return true
	})
	return keys
}
