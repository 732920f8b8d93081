package parser

import "github.com/datacapflow/core/internal/models"

const (
	RootNodeName        = "Root Key Holder"
	AutomaticNodeName   = "Automatic"
	ManualNodeName      = "Manual"
	FaucetNodeName      = "Faucet"
	PlaceholderNodeName = "..."

	// DefaultPlaceholderWeight only keeps collapsed stubs visible.
	DefaultPlaceholderWeight = 0.1
)

type GraphOptions struct {
	FaucetName        string
	PlaceholderWeight float64
}

func DefaultGraphOptions() GraphOptions {
	return GraphOptions{
		FaucetName:        DefaultFaucetName,
		PlaceholderWeight: DefaultPlaceholderWeight,
	}
}

// Counter hands out sequential node ids. One counter is shared by every
// step of a single build.
type Counter struct {
	next int
}

func (c *Counter) Next() int {
	id := c.next
	c.next++
	return id
}

type graphBuilder struct {
	ids      *Counter
	graph    *models.Graph
	expanded models.Section
	opts     GraphOptions

	leafParent int
	leaves     []models.AllocatorRecord
}

// BuildGraph turns allocator records into the DataCap flow graph. Nodes are
// appended in id order (root, Automatic branch, Manual branch, then the
// leaves of the expanded section) so that every link index is a position
// in Nodes.
func BuildGraph(records []models.AllocatorRecord, expanded models.Section, opts GraphOptions) *models.Graph {
	graph := &models.Graph{
		Nodes: []models.GraphNode{},
		Links: []models.GraphLink{},
	}

	if len(records) == 0 {
		return graph
	}

	if opts.PlaceholderWeight <= 0 {
		opts.PlaceholderWeight = DefaultPlaceholderWeight
	}

	b := &graphBuilder{
		ids:      &Counter{},
		graph:    graph,
		expanded: expanded,
		opts:     opts,
	}

	parts := Classify(records)
	faucet, directAutomatic := SplitFaucet(parts.Automatic, opts.FaucetName)
	meta, directManual := SplitMeta(parts.Manual)

	all := AggregateRecords(records)
	root := b.addNode(models.GraphNode{
		Name:            RootNodeName,
		AggregateAmount: models.NewAmount(all.Total),
		MemberCount:     all.Count,
	})

	automatic := b.addBranch(root, AutomaticNodeName, AggregateRecords(parts.Automatic))
	b.addSection(automatic, models.SectionDirectAutomatic, directAutomatic)
	if faucet != nil {
		b.addFaucet(automatic, faucet)
	}

	manual := b.addBranch(root, ManualNodeName, AggregateRecords(parts.Manual))
	b.addSection(manual, models.SectionMPMA, meta)
	b.addSection(manual, models.SectionDirectManual, directManual)

	for _, record := range b.leaves {
		amount := models.NewAmount(record.AllocationAmount)
		leaf := b.addNode(models.GraphNode{
			Name:            record.DisplayName(),
			AggregateAmount: amount,
			MemberCount:     1,
			IsLeaf:          true,
		})
		b.addLink(b.leafParent, leaf, amount.Float64())
	}

	return graph
}

func (b *graphBuilder) addNode(node models.GraphNode) int {
	node.ID = b.ids.Next()
	b.graph.Nodes = append(b.graph.Nodes, node)
	return node.ID
}

func (b *graphBuilder) addLink(source, target int, weight float64) {
	b.graph.Links = append(b.graph.Links, models.GraphLink{
		Source: source,
		Target: target,
		Weight: weight,
	})
}

func (b *graphBuilder) addBranch(parent int, name string, agg Aggregate) int {
	amount := models.NewAmount(agg.Total)
	id := b.addNode(models.GraphNode{
		Name:            name,
		AggregateAmount: amount,
		MemberCount:     agg.Count,
	})
	b.addLink(parent, id, amount.Float64())
	return id
}

func (b *graphBuilder) addPlaceholder(parent int) {
	id := b.addNode(models.GraphNode{
		Name:            PlaceholderNodeName,
		AggregateAmount: models.NewAmount(nil),
		IsPlaceholder:   true,
	})
	b.addLink(parent, id, b.opts.PlaceholderWeight)
}

// addSection emits an expandable section node. Its allocators are queued
// as leaves when it is the expanded section, collapsed into a placeholder
// when another section is expanded, and omitted otherwise.
func (b *graphBuilder) addSection(parent int, section models.Section, records []models.AllocatorRecord) {
	agg := AggregateRecords(records)
	amount := models.NewAmount(agg.Total)
	id := b.addNode(models.GraphNode{
		Name:            string(section),
		AggregateAmount: amount,
		MemberCount:     agg.Count,
		IsExpandable:    true,
	})
	b.addLink(parent, id, amount.Float64())

	switch {
	case b.expanded == section:
		b.leafParent = id
		b.leaves = records
	case b.expanded != models.SectionNone:
		b.addPlaceholder(id)
	}
}

// addFaucet never lists allocators; it only shows a stub once any section
// is expanded.
func (b *graphBuilder) addFaucet(parent int, faucet *models.AllocatorRecord) {
	amount := models.NewAmount(faucet.AllocationAmount)
	id := b.addNode(models.GraphNode{
		Name:            FaucetNodeName,
		AggregateAmount: amount,
		MemberCount:     1,
		IsExpandable:    b.expanded != models.SectionNone,
	})
	b.addLink(parent, id, amount.Float64())

	if b.expanded != models.SectionNone {
		b.addPlaceholder(id)
	}
}

// GraphStats summarizes a built graph for the API response.
func GraphStats(graph *models.Graph, result *ParseResult) *models.Stats {
	stats := &models.Stats{
		TotalNodes:       len(graph.Nodes),
		TotalLinks:       len(graph.Links),
		RecordsByPathway: map[string]int{},
		RecordsByType:    map[string]int{},
	}

	if result == nil {
		return stats
	}

	stats.DroppedRows = result.Dropped
	for _, record := range result.Records {
		stats.RecordsByPathway[string(record.Pathway)]++
		stats.RecordsByType[string(record.PathwayType)]++
	}

	return stats
}
