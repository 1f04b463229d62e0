package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrCyclicAssembly is returned when an assembly is reachable from itself
	ErrCyclicAssembly = errors.New("assembly graph contains a cycle")
	// ErrSharedAssembly is returned when one assembly is owned by two parents
	ErrSharedAssembly = errors.New("assembly is owned by more than one parent")
)

// NoParent marks a root node
const NoParent = -1

// AssemblyNode is one assembly in a flattened BOMTree
type AssemblyNode struct {
	Assembly *Assembly
	Index    int
	Parent   int
	Children []int
	Depth    int
}

// BOMTree is an arena representation of an assembly forest. Nodes are stored
// in pre-order (an assembly precedes its sub-assemblies, siblings keep their
// input order), so walking Nodes by index visits items in BOM order.
type BOMTree struct {
	nodes []AssemblyNode
	roots []int
}

type pendingNode struct {
	assembly *Assembly
	parent   int
	depth    int
}

// NewBOMTree flattens the root assemblies into an arena. It fails on nil
// assemblies, cycles, and assemblies shared between parents, so traversals
// over the returned tree always terminate.
func NewBOMTree(roots []*Assembly) (*BOMTree, error) {
	tree := &BOMTree{
		nodes: make([]AssemblyNode, 0, len(roots)),
		roots: make([]int, 0, len(roots)),
	}
	seen := make(map[*Assembly]int)

	stack := make([]pendingNode, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, pendingNode{assembly: roots[i], parent: NoParent})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.assembly == nil {
			if top.parent == NoParent {
				return nil, fmt.Errorf("root assembly cannot be nil")
			}
			return nil, fmt.Errorf("assembly %s has a nil sub-assembly", tree.nodes[top.parent].Assembly.Name)
		}

		if _, exists := seen[top.assembly]; exists {
			if tree.isAncestor(top.assembly, top.parent) {
				return nil, fmt.Errorf("%w: %s", ErrCyclicAssembly, tree.pathTo(top.parent, top.assembly.Name))
			}
			return nil, fmt.Errorf("%w: %s", ErrSharedAssembly, top.assembly.Name)
		}

		index := len(tree.nodes)
		seen[top.assembly] = index
		tree.nodes = append(tree.nodes, AssemblyNode{
			Assembly: top.assembly,
			Index:    index,
			Parent:   top.parent,
			Children: make([]int, 0, len(top.assembly.SubAssemblies)),
			Depth:    top.depth,
		})
		if top.parent == NoParent {
			tree.roots = append(tree.roots, index)
		} else {
			tree.nodes[top.parent].Children = append(tree.nodes[top.parent].Children, index)
		}

		children := top.assembly.SubAssemblies
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, pendingNode{assembly: children[i], parent: index, depth: top.depth + 1})
		}
	}

	return tree, nil
}

func (t *BOMTree) isAncestor(assembly *Assembly, from int) bool {
	for idx := from; idx != NoParent; idx = t.nodes[idx].Parent {
		if t.nodes[idx].Assembly == assembly {
			return true
		}
	}
	return false
}

func (t *BOMTree) pathTo(from int, leaf string) string {
	path := leaf
	for idx := from; idx != NoParent; idx = t.nodes[idx].Parent {
		path = t.nodes[idx].Assembly.Name + " -> " + path
	}
	return path
}

// Len returns the number of assemblies in the tree
func (t *BOMTree) Len() int {
	return len(t.nodes)
}

// Node returns the node stored at index
func (t *BOMTree) Node(index int) *AssemblyNode {
	return &t.nodes[index]
}

// Roots returns the indices of the root assemblies in input order
func (t *BOMTree) Roots() []int {
	return t.roots
}

// PostOrder returns node indices with every sub-assembly before its parent,
// siblings left to right. Uses an explicit stack so deep trees cannot
// exhaust the goroutine stack.
func (t *BOMTree) PostOrder() []int {
	order := make([]int, 0, len(t.nodes))
	type frame struct {
		index    int
		expanded bool
	}
	stack := make([]frame, 0, len(t.nodes))
	for i := len(t.roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{index: t.roots[i]})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.expanded {
			order = append(order, top.index)
			continue
		}
		stack = append(stack, frame{index: top.index, expanded: true})
		children := t.nodes[top.index].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{index: children[i]})
		}
	}
	return order
}

// WalkItems calls fn for every item in BOM order: an assembly's own items
// first, then the items of each sub-assembly in turn
func (t *BOMTree) WalkItems(fn func(node *AssemblyNode, item *Item)) {
	for i := range t.nodes {
		node := &t.nodes[i]
		for j := range node.Assembly.Items {
			fn(node, &node.Assembly.Items[j])
		}
	}
}

// ItemCount returns the number of item lines across all assemblies
func (t *BOMTree) ItemCount() int {
	count := 0
	for i := range t.nodes {
		count += len(t.nodes[i].Assembly.Items)
	}
	return count
}

// MaxDepth returns the deepest node depth (roots are depth 0), or -1 for an empty tree
func (t *BOMTree) MaxDepth() int {
	maxDepth := -1
	for i := range t.nodes {
		if t.nodes[i].Depth > maxDepth {
			maxDepth = t.nodes[i].Depth
		}
	}
	return maxDepth
}

// ParentName returns the name of the node's parent, or "" for roots
func (t *BOMTree) ParentName(index int) string {
	parent := t.nodes[index].Parent
	if parent == NoParent {
		return ""
	}
	return t.nodes[parent].Assembly.Name
}
