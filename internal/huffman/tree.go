package huffman

import "container/heap"

// Weight pairs a symbol with its relative frequency, the input to Build.
type Weight[T comparable] struct {
	Symbol T
	Weight float64
}

type node[T comparable] struct {
	left, right *node[T] // left is reached by bit 1, right by bit 0
	leaf        bool
	symbol      T
}

// Code is a canonical Huffman code over an alphabet of type T, baked once
// from a weight table at construction time.
type Code[T comparable] struct {
	root *node[T]
	bits map[T][]bool
}

type heapItem[T comparable] struct {
	weight float64
	seq    int // insertion order, used to break weight ties deterministically
	n      *node[T]
}

type itemHeap[T comparable] []*heapItem[T]

func (h itemHeap[T]) Len() int { return len(h) }
func (h itemHeap[T]) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].seq < h[j].seq
}
func (h itemHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *itemHeap[T]) Push(x any)   { *h = append(*h, x.(*heapItem[T])) }
func (h *itemHeap[T]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Build constructs the canonical Huffman tree for weights using a min-heap
// over (weight, insertion order). At each internal node the higher-weight
// child is assigned bit 1 and the lower-weight child bit 0.
func Build[T comparable](weights []Weight[T]) *Code[T] {
	h := &itemHeap[T]{}
	heap.Init(h)
	for i, w := range weights {
		heap.Push(h, &heapItem[T]{weight: w.Weight, seq: i, n: &node[T]{leaf: true, symbol: w.Symbol}})
	}

	seq := len(weights)
	for h.Len() > 1 {
		a := heap.Pop(h).(*heapItem[T])
		b := heap.Pop(h).(*heapItem[T])
		hi, lo := a, b
		if b.weight > a.weight || (b.weight == a.weight && b.seq < a.seq) {
			hi, lo = b, a
		}
		combined := &node[T]{left: hi.n, right: lo.n}
		heap.Push(h, &heapItem[T]{weight: a.weight + b.weight, seq: seq, n: combined})
		seq++
	}

	root := heap.Pop(h).(*heapItem[T]).n
	code := &Code[T]{root: root, bits: make(map[T][]bool, len(weights))}
	code.index(root, nil)
	return code
}

func (c *Code[T]) index(n *node[T], prefix []bool) {
	if n.leaf {
		cp := make([]bool, len(prefix))
		copy(cp, prefix)
		c.bits[n.symbol] = cp
		return
	}
	c.index(n.left, append(prefix, true))
	c.index(n.right, append(prefix, false))
}

// Encode writes sym's code to w.
func (c *Code[T]) Encode(sym T, w *BitWriter) {
	for _, bit := range c.bits[sym] {
		w.WriteBit(bit)
	}
}

// decodeOne walks the tree from the root until a leaf is reached or the
// bit stream runs out. A false second return covers both cases described
// by spec: a clean end-of-stream at a code boundary, and a partial code
// truncated mid-tree; both are silently dropped by the caller.
func (c *Code[T]) decodeOne(r *BitReader) (sym T, ok bool) {
	n := c.root
	for !n.leaf {
		bit, readOK := r.ReadBit()
		if !readOK {
			var zero T
			return zero, false
		}
		if bit {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.symbol, true
}

// DecodeAll decodes every complete symbol available in r, stopping
// silently at the first incomplete or absent code.
func (c *Code[T]) DecodeAll(r *BitReader) []T {
	var result []T
	for {
		sym, ok := c.decodeOne(r)
		if !ok {
			return result
		}
		result = append(result, sym)
	}
}
