// Package spatial provides a point quadtree for axis-aligned range queries.
package spatial

import "gonum.org/v1/gonum/spatial/r2"

const (
	// DefaultCapacity is the number of points a leaf holds before it splits.
	DefaultCapacity = 8
	// DefaultMaxDepth bounds subdivision; leaves at this depth grow without splitting.
	DefaultMaxDepth = 12
)

// Item is a point stored in the tree with its payload.
type Item[T any] struct {
	Pos   r2.Vec
	Value T
}

// Quadtree indexes points inside fixed bounds. Bounds are inclusive on
// both ends. It is not safe for concurrent mutation; concurrent queries
// on a tree that is no longer written are fine.
type Quadtree[T any] struct {
	root     *node[T]
	capacity int
	maxDepth int
	size     int
	free     []*node[T]
}

type node[T any] struct {
	bounds   r2.Box
	items    []Item[T]
	children *[4]*node[T]
	depth    int
}

// New creates an empty tree covering bounds. Non-positive capacity or
// depth fall back to the defaults.
func New[T any](bounds r2.Box, capacity, maxDepth int) *Quadtree[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	q := &Quadtree[T]{capacity: capacity, maxDepth: maxDepth}
	q.Reset(bounds)
	return q
}

// Reset empties the tree and moves it to new bounds, keeping allocated nodes for reuse.
func (q *Quadtree[T]) Reset(bounds r2.Box) {
	if q.root != nil {
		q.release(q.root)
	}
	q.root = q.newNode(bounds, 0)
	q.size = 0
}

// Bounds returns the area covered by the tree
func (q *Quadtree[T]) Bounds() r2.Box {
	return q.root.bounds
}

// Len returns the number of stored points
func (q *Quadtree[T]) Len() int {
	return q.size
}

// Insert adds a point. It returns false if p lies outside the tree bounds.
func (q *Quadtree[T]) Insert(p r2.Vec, v T) bool {
	if !Contains(q.root.bounds, p) {
		return false
	}
	n := q.root
	for n.children != nil {
		n = n.children[quadrant(n.bounds, p)]
	}
	n.items = append(n.items, Item[T]{Pos: p, Value: v})
	q.size++
	if len(n.items) > q.capacity && n.depth < q.maxDepth {
		q.split(n)
	}
	return true
}

// Query appends every point inside box to dst and returns the extended slice.
func (q *Quadtree[T]) Query(box r2.Box, dst []Item[T]) []Item[T] {
	return q.query(q.root, box, dst)
}

// Count returns the number of points inside box without collecting them.
func (q *Quadtree[T]) Count(box r2.Box) int {
	return q.count(q.root, box)
}

func (q *Quadtree[T]) query(n *node[T], box r2.Box, dst []Item[T]) []Item[T] {
	if !Intersects(n.bounds, box) {
		return dst
	}
	if n.children != nil {
		for _, c := range n.children {
			dst = q.query(c, box, dst)
		}
		return dst
	}
	for _, it := range n.items {
		if Contains(box, it.Pos) {
			dst = append(dst, it)
		}
	}
	return dst
}

func (q *Quadtree[T]) count(n *node[T], box r2.Box) (total int) {
	if !Intersects(n.bounds, box) {
		return 0
	}
	if n.children != nil {
		for _, c := range n.children {
			total += q.count(c, box)
		}
		return total
	}
	for _, it := range n.items {
		if Contains(box, it.Pos) {
			total++
		}
	}
	return total
}

func (q *Quadtree[T]) split(n *node[T]) {
	mid := center(n.bounds)
	lo, hi := n.bounds.Min, n.bounds.Max
	n.children = &[4]*node[T]{
		q.newNode(r2.Box{Min: lo, Max: mid}, n.depth+1),
		q.newNode(r2.Box{Min: r2.Vec{X: mid.X, Y: lo.Y}, Max: r2.Vec{X: hi.X, Y: mid.Y}}, n.depth+1),
		q.newNode(r2.Box{Min: r2.Vec{X: lo.X, Y: mid.Y}, Max: r2.Vec{X: mid.X, Y: hi.Y}}, n.depth+1),
		q.newNode(r2.Box{Min: mid, Max: hi}, n.depth+1),
	}
	for _, it := range n.items {
		c := n.children[quadrant(n.bounds, it.Pos)]
		c.items = append(c.items, it)
	}
	n.items = n.items[:0]
	for _, c := range n.children {
		if len(c.items) > q.capacity && c.depth < q.maxDepth {
			q.split(c)
		}
	}
}

func (q *Quadtree[T]) newNode(bounds r2.Box, depth int) *node[T] {
	if k := len(q.free); k > 0 {
		n := q.free[k-1]
		q.free = q.free[:k-1]
		n.bounds, n.depth = bounds, depth
		return n
	}
	return &node[T]{bounds: bounds, depth: depth}
}

func (q *Quadtree[T]) release(n *node[T]) {
	if n.children != nil {
		for _, c := range n.children {
			q.release(c)
		}
		n.children = nil
	}
	n.items = n.items[:0]
	q.free = append(q.free, n)
}

// quadrant picks the child of a node with bounds b that owns p:
// 0 top-left, 1 top-right, 2 bottom-left, 3 bottom-right.
// Points on the midlines go to the higher quadrant.
func quadrant(b r2.Box, p r2.Vec) int {
	mid := center(b)
	i := 0
	if p.X >= mid.X {
		i |= 1
	}
	if p.Y >= mid.Y {
		i |= 2
	}
	return i
}

func center(b r2.Box) r2.Vec {
	return r2.Scale(0.5, r2.Add(b.Min, b.Max))
}

// BoxAround returns the square of half-width half centred on c
func BoxAround(c r2.Vec, half float64) r2.Box {
	d := r2.Vec{X: half, Y: half}
	return r2.Box{Min: r2.Sub(c, d), Max: r2.Add(c, d)}
}

// Contains reports whether p lies in b, edges included
func Contains(b r2.Box, p r2.Vec) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X && b.Min.Y <= p.Y && p.Y <= b.Max.Y
}

// Intersects reports whether two boxes overlap, touching edges included
func Intersects(a, b r2.Box) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X && a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}
