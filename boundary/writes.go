package boundary

import (
	"bytes"

	"github.com/google/btree"
)

// writeSet stages the storage writes of one invocation. An empty value
// marks a deletion.
type writeSet struct {
	tree *btree.BTreeG[cell]
}

func newWriteSet() *writeSet {
	return &writeSet{tree: btree.NewG(defaultTreeDegree, cell.less)}
}

func (w *writeSet) set(key, value []byte) {
	w.tree.ReplaceOrInsert(cell{key: bytes.Clone(key), value: bytes.Clone(value)})
}

// get reports the staged value for key and whether one is staged.
func (w *writeSet) get(key []byte) ([]byte, bool) {
	c, ok := w.tree.Get(cell{key: key})
	if !ok {
		return nil, false
	}
	if len(c.value) == 0 {
		return nil, true
	}
	return bytes.Clone(c.value), true
}

func (w *writeSet) len() int { return w.tree.Len() }

func (w *writeSet) reset() { w.tree.Clear(false) }

// merge overlays the staged writes on the sorted committed keys.
func (w *writeSet) merge(committed [][]byte) [][]byte {
	var out [][]byte
	i := 0
	w.tree.Ascend(func(c cell) bool {
		for i < len(committed) && bytes.Compare(committed[i], c.key) < 0 {
			out = append(out, committed[i])
			i++
		}
		if i < len(committed) && bytes.Equal(committed[i], c.key) {
			i++
		}
		if len(c.value) > 0 {
			out = append(out, bytes.Clone(c.key))
		}
		return true
	})
	return append(out, committed[i:]...)
}
