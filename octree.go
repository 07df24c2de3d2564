package dotcraft

import (
	"container/heap"

	"github.com/wbrown/dotcraft/imageutil"
)

// octreeDepth is the number of levels below the root; at depth 8 every
// leaf holds exactly one 24-bit color.
const octreeDepth = 8

// OctreeQuantizer inserts every distinct color into an 8-level octree and
// then repeatedly folds the least populated node whose children are all
// leaves back into a single leaf, until at most k leaves remain. Each
// sample maps to the weighted mean color of its leaf.
type OctreeQuantizer struct{}

type octreeNode struct {
	children [8]*octreeNode
	parent   *octreeNode
	depth    int
	order    int // creation order, breaks ties deterministically
	count    int
	sumR     int
	sumG     int
	sumB     int
	leaf     bool
	index    int // palette index, assigned once reduction is done
}

func (n *octreeNode) reducible() bool {
	if n.leaf {
		return false
	}
	for _, child := range n.children {
		if child != nil && !child.leaf {
			return false
		}
	}
	return true
}

// octantIndex picks the child for c at the given level from one bit of
// each channel, most significant bit first.
func octantIndex(c imageutil.RGB, level int) int {
	shift := 7 - level
	return int((c.R>>shift)&1)<<2 | int((c.G>>shift)&1)<<1 | int((c.B>>shift)&1)
}

type octree struct {
	root   *octreeNode
	leaves int
	nodes  int
}

func (t *octree) newNode(parent *octreeNode, depth int) *octreeNode {
	t.nodes++
	return &octreeNode{parent: parent, depth: depth, order: t.nodes, leaf: depth == octreeDepth}
}

func (t *octree) insert(c imageutil.RGB, count int) {
	node := t.root
	for level := 0; level < octreeDepth; level++ {
		node.count += count
		i := octantIndex(c, level)
		if node.children[i] == nil {
			node.children[i] = t.newNode(node, level+1)
			if level+1 == octreeDepth {
				t.leaves++
			}
		}
		node = node.children[i]
	}
	node.count += count
	node.sumR += int(c.R) * count
	node.sumG += int(c.G) * count
	node.sumB += int(c.B) * count
}

// fold merges all children of n into n, turning it into a leaf.
func (t *octree) fold(n *octreeNode) {
	for i, child := range n.children {
		if child == nil {
			continue
		}
		n.sumR += child.sumR
		n.sumG += child.sumG
		n.sumB += child.sumB
		n.children[i] = nil
		t.leaves--
	}
	n.leaf = true
	t.leaves++
}

// leafFor descends to the leaf covering c.
func (t *octree) leafFor(c imageutil.RGB) *octreeNode {
	node := t.root
	for level := 0; !node.leaf; level++ {
		node = node.children[octantIndex(c, level)]
	}
	return node
}

// reduceQueue orders reducible nodes by pixel count, then deepest first,
// then creation order.
type reduceQueue []*octreeNode

func (q reduceQueue) Len() int { return len(q) }
func (q reduceQueue) Less(i, j int) bool {
	if q[i].count != q[j].count {
		return q[i].count < q[j].count
	}
	if q[i].depth != q[j].depth {
		return q[i].depth > q[j].depth
	}
	return q[i].order < q[j].order
}
func (q reduceQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *reduceQueue) Push(x any)   { *q = append(*q, x.(*octreeNode)) }
func (q *reduceQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}

// Quantize implements Quantizer.
func (OctreeQuantizer) Quantize(samples []imageutil.RGB, k int) Palette {
	if len(samples) == 0 || k <= 0 {
		return Palette{Index: make([]int, len(samples))}
	}

	t := &octree{}
	t.root = t.newNode(nil, 0)
	for _, e := range histogram(samples) {
		t.insert(e.color, e.count)
	}

	if t.leaves > k {
		q := &reduceQueue{}
		var collect func(n *octreeNode)
		collect = func(n *octreeNode) {
			if n.reducible() {
				*q = append(*q, n)
				return
			}
			for _, child := range n.children {
				if child != nil && !child.leaf {
					collect(child)
				}
			}
		}
		collect(t.root)
		heap.Init(q)

		for t.leaves > k && q.Len() > 0 {
			n := heap.Pop(q).(*octreeNode)
			t.fold(n)
			if p := n.parent; p != nil && p.reducible() {
				heap.Push(q, p)
			}
		}
	}

	var colors []imageutil.RGB
	var walk func(n *octreeNode)
	walk = func(n *octreeNode) {
		if n.leaf {
			n.index = len(colors)
			colors = append(colors, meanColor(n.sumR, n.sumG, n.sumB, n.count))
			return
		}
		for _, child := range n.children {
			if child != nil {
				walk(child)
			}
		}
	}
	walk(t.root)

	index := make([]int, len(samples))
	for i, s := range samples {
		index[i] = t.leafFor(s).index
	}
	return Palette{Colors: colors, Index: index}
}
