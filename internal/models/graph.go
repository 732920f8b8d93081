// Package models defines the core data structures shared by the parser,
// the HTTP handlers and the CLI. It includes allocator records, flow graph
// and audit tree shapes.
package models

type Graph struct {
	Nodes    []GraphNode `json:"nodes"`
	Links    []GraphLink `json:"links"`
	Expanded Section     `json:"expanded,omitempty"`
	Stats    *Stats      `json:"stats,omitempty"`
}

// GraphNode is a vertex of the flow graph. ID always equals the node's
// position in Graph.Nodes.
type GraphNode struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	AggregateAmount Amount `json:"aggregateAmount"`
	MemberCount     int    `json:"memberCount"`
	IsPlaceholder   bool   `json:"isPlaceholder"`
	IsExpandable    bool   `json:"isExpandable"`
	IsLeaf          bool   `json:"isLeaf"`
}

type GraphLink struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Weight float64 `json:"value"`
}

type Stats struct {
	TotalNodes       int            `json:"total_nodes"`
	TotalLinks       int            `json:"total_links"`
	DroppedRows      int            `json:"dropped_rows"`
	RecordsByPathway map[string]int `json:"records_by_pathway,omitempty"`
	RecordsByType    map[string]int `json:"records_by_type,omitempty"`
}
