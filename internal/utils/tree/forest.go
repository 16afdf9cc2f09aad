// Package tree rebuilds nested structures from flat, depth-first ordered lists.
package tree

// Node is anything that can adopt children.
type Node[T any] interface {
	AddChild(child T)
}

// Leveled pairs a node with its 1-based depth in the flat list.
type Leveled[T any] struct {
	Level int
	Node  T
}

// BuildForest turns a depth-first flat list into a forest. Sibling order follows
// input order. A node is attached to its parent when it is popped from the stack,
// i.e. once all of its own descendants have been seen.
func BuildForest[T Node[T]](items []Leveled[T]) []T {
	var roots []T
	var stack []Leveled[T]

	pop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			roots = append(roots, top.Node)
			return
		}
		stack[len(stack)-1].Node.AddChild(top.Node)
	}

	for _, item := range items {
		for len(stack) > 0 && item.Level <= stack[len(stack)-1].Level {
			pop()
		}
		stack = append(stack, item)
	}
	for len(stack) > 0 {
		pop()
	}
	return roots
}
