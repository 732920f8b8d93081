package models

// TreeNode is one vertex of the audit-outcome tree. Allocators holds the
// records listed directly under a leaf bucket.
type TreeNode struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	AggregateAmount Amount          `json:"aggregateAmount"`
	MemberCount     int             `json:"memberCount"`
	Allocators      []AllocatorLeaf `json:"allocators,omitempty"`
	Children        []*TreeNode     `json:"children,omitempty"`
}

type AllocatorLeaf struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	AllocationAmount Amount `json:"allocationAmount"`
}

type AuditTree struct {
	Rounds int       `json:"rounds"`
	Root   *TreeNode `json:"root"`
}

// Depth counts edges on the longest path from n to a descendant.
func (n *TreeNode) Depth() int {
	if n == nil {
		return 0
	}
	depth := 0
	for _, child := range n.Children {
		if d := child.Depth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}

// Walk visits n and its descendants depth-first in pre-order.
func (n *TreeNode) Walk(fn func(*TreeNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}
