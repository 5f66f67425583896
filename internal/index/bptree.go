package index

import (
	"fmt"
	"slices"

	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
)

const (
	// Maximum fanout of a B+Tree node; a node holds at most bpOrder-1 keys.
	bpOrder = 5
	bpMax   = bpOrder - 1
	// Keys kept in the left node on a split: ceil(bpOrder/2).
	bpMid = (bpOrder + 1) / 2
)

type bpNode struct {
	leaf bool
	keys []record.Key
	vals []record.Tuple // leaf entries, parallel to keys
	kids []*bpNode      // internal children, len(keys)+1
	next *bpNode        // leaf chain, ascending
}

// route finds the "<=" match position: the first key the target does not
// exceed, or len(keys) when it exceeds them all. Dividers are largest-left,
// so a key equal to a divider routes into the left subtree.
func (n *bpNode) route(k record.Key) int {
	for i, ki := range n.keys {
		if k.Compare(ki) <= 0 {
			return i
		}
	}
	return len(n.keys)
}

// BpTree is an ordered multi-way search tree with fixed fanout. Internal
// nodes hold largest-left divider keys; all entries live in leaves, which
// are chained so range extraction walks leaves instead of the whole tree.
type BpTree struct {
	root  *bpNode
	first *bpNode // leftmost leaf
	size  int
}

func NewBpTree() *BpTree {
	leaf := &bpNode{leaf: true}
	return &BpTree{root: leaf, first: leaf}
}

func (m *BpTree) Get(k record.Key) (record.Tuple, bool) {
	n := m.root
	for !n.leaf {
		n = n.kids[n.route(k)]
	}
	i := n.route(k)
	if i < len(n.keys) && n.keys[i].Equal(k) {
		return n.vals[i], true
	}
	return nil, false
}

// Put inserts the pair, splitting nodes bottom-up as needed; when the root
// itself splits a fresh root with a single divider is made. A duplicate key
// overwrites in place and hands back the displaced tuple.
func (m *BpTree) Put(k record.Key, t record.Tuple) (record.Tuple, bool) {
	divider, right, prev, replaced := m.insert(m.root, k, t)
	if right != nil {
		m.root = &bpNode{
			keys: []record.Key{divider},
			kids: []*bpNode{m.root, right},
		}
	}
	if !replaced {
		m.size++
	}
	return prev, replaced
}

func (m *BpTree) insert(n *bpNode, k record.Key, t record.Tuple) (record.Key, *bpNode, record.Tuple, bool) {
	var none record.Key

	if n.leaf {
		i := n.route(k)
		if i < len(n.keys) && n.keys[i].Equal(k) {
			prev := n.vals[i]
			n.vals[i] = t
			return none, nil, prev, true
		}
		n.keys = slices.Insert(n.keys, i, k)
		n.vals = slices.Insert(n.vals, i, t)
		if len(n.keys) <= bpMax {
			return none, nil, nil, false
		}

		// Overfull leaf: keep the first bpMid entries, move the rest to a
		// new right sibling, and promote the left maximum as the divider.
		right := &bpNode{
			leaf: true,
			keys: slices.Clone(n.keys[bpMid:]),
			vals: slices.Clone(n.vals[bpMid:]),
			next: n.next,
		}
		n.keys = n.keys[:bpMid:bpMid]
		n.vals = n.vals[:bpMid:bpMid]
		n.next = right
		return n.keys[bpMid-1], right, nil, false
	}

	i := n.route(k)
	divider, right, prev, replaced := m.insert(n.kids[i], k, t)
	if right == nil {
		return none, nil, prev, replaced
	}
	n.keys = slices.Insert(n.keys, i, divider)
	n.kids = slices.Insert(n.kids, i+1, right)
	if len(n.keys) <= bpMax {
		return none, nil, prev, replaced
	}

	// Overfull internal node: the middle key moves up. It was already the
	// maximum of its left subtree, so largest-left survives the split.
	promoted := n.keys[bpMid-1]
	rightInner := &bpNode{
		keys: slices.Clone(n.keys[bpMid:]),
		kids: slices.Clone(n.kids[bpMid:]),
	}
	n.keys = n.keys[: bpMid-1 : bpMid-1]
	n.kids = n.kids[:bpMid:bpMid]
	return promoted, rightInner, prev, replaced
}

func (m *BpTree) FirstKey() (record.Key, bool) {
	if m.size == 0 {
		return record.Key{}, false
	}
	return m.first.keys[0], true
}

func (m *BpTree) LastKey() (record.Key, bool) {
	if m.size == 0 {
		return record.Key{}, false
	}
	n := m.root
	for !n.leaf {
		n = n.kids[len(n.kids)-1]
	}
	return n.keys[len(n.keys)-1], true
}

// Scan walks the leaf chain left to right, so entries come out in ascending
// key order. Each call starts a fresh traversal.
func (m *BpTree) Scan(f func(Entry) bool) {
	for n := m.first; n != nil; n = n.next {
		for i := range n.keys {
			if !f(Entry{Key: n.keys[i], Tup: n.vals[i]}) {
				return
			}
		}
	}
}

func (m *BpTree) Len() int { return m.size }

func (m *BpTree) Kind() Kind { return KindBpTree }

// HeadMap extracts entries with key < to.
func (m *BpTree) HeadMap(to record.Key) Ordered {
	return m.extract(nil, &to)
}

// TailMap extracts entries with key >= from, through the last key.
func (m *BpTree) TailMap(from record.Key) Ordered {
	return m.extract(&from, nil)
}

// SubMap extracts entries in the half-open range [from, to).
func (m *BpTree) SubMap(from, to record.Key) Ordered {
	return m.extract(&from, &to)
}

// extract builds a new tree from a leaf-chain walk: descend once to the
// leaf where from would live, then follow next pointers until to.
func (m *BpTree) extract(from, to *record.Key) Ordered {
	out := NewBpTree()
	n := m.root
	if from != nil {
		for !n.leaf {
			n = n.kids[n.route(*from)]
		}
	} else {
		n = m.first
	}
	for ; n != nil; n = n.next {
		for i := range n.keys {
			if from != nil && n.keys[i].Compare(*from) < 0 {
				continue
			}
			if to != nil && n.keys[i].Compare(*to) >= 0 {
				return out
			}
			out.Put(n.keys[i], n.vals[i])
		}
	}
	return out
}

// Validate re-derives the structural invariants: parallel key/child counts,
// strictly increasing keys in every node and across the leaf chain, and
// every divider equal to the maximum key reachable in its left subtree.
func (m *BpTree) Validate() error {
	if err := m.validateNode(m.root); err != nil {
		return err
	}
	var last *record.Key
	count := 0
	for n := m.first; n != nil; n = n.next {
		for i := range n.keys {
			k := n.keys[i]
			if last != nil && last.Compare(k) >= 0 {
				return fmt.Errorf("bptree: leaf chain not increasing at %s", k)
			}
			last = &k
			count++
		}
	}
	if count != m.size {
		return fmt.Errorf("bptree: leaf chain has %d entries, size says %d", count, m.size)
	}
	return nil
}

func (m *BpTree) validateNode(n *bpNode) error {
	for i := 1; i < len(n.keys); i++ {
		if n.keys[i-1].Compare(n.keys[i]) >= 0 {
			return fmt.Errorf("bptree: keys not strictly increasing at %s", n.keys[i])
		}
	}
	if n.leaf {
		if len(n.keys) != len(n.vals) {
			return fmt.Errorf("bptree: leaf has %d keys, %d values", len(n.keys), len(n.vals))
		}
		return nil
	}
	if len(n.kids) != len(n.keys)+1 {
		return fmt.Errorf("bptree: node has %d keys but %d children", len(n.keys), len(n.kids))
	}
	for i, divider := range n.keys {
		maxLeft := maxKey(n.kids[i])
		if !divider.Equal(maxLeft) {
			return fmt.Errorf("bptree: divider %s is not the left-subtree maximum %s", divider, maxLeft)
		}
	}
	for _, kid := range n.kids {
		if err := m.validateNode(kid); err != nil {
			return err
		}
	}
	return nil
}

func maxKey(n *bpNode) record.Key {
	for !n.leaf {
		n = n.kids[len(n.kids)-1]
	}
	return n.keys[len(n.keys)-1]
}
