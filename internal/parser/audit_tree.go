package parser

import (
	"strconv"

	"github.com/datacapflow/core/internal/models"
)

const (
	AuditRootName       = RootNodeName
	ActiveNodeName      = "Active"
	NotActiveNodeName   = "Not Active"
	NotAuditedNodeName  = "Not Audited"
	FailedNodeName      = "Failed"
	ConditionalNodeName = "Conditional"
	PassNodeName        = "Pass"
)

// Outcome buckets. Tags outside all three sets belong to no bucket.
var (
	failedStatuses = map[models.AuditOutcome]struct{}{
		models.AuditFailed:   {},
		models.AuditRejected: {},
	}
	partialStatuses = map[models.AuditOutcome]struct{}{
		models.AuditPartial:   {},
		models.AuditThrottled: {},
	}
	passStatuses = map[models.AuditOutcome]struct{}{
		models.AuditPassed:  {},
		models.AuditDoubled: {},
	}
)

type bucket struct {
	name     string
	statuses map[models.AuditOutcome]struct{}
}

var buckets = []bucket{
	{name: FailedNodeName, statuses: failedStatuses},
	{name: ConditionalNodeName, statuses: partialStatuses},
	{name: PassNodeName, statuses: passStatuses},
}

// LastValidRound returns the index of the last round with a concluded
// outcome, or -1 when the allocator was never audited.
func LastValidRound(outcomes []models.AuditOutcome) int {
	for i := len(outcomes) - 1; i >= 0; i-- {
		switch outcomes[i] {
		case "", models.AuditNotAudited, models.AuditWaiting, models.AuditInactive:
			continue
		default:
			return i
		}
	}
	return -1
}

// BuildAuditTree groups records by activity and by the outcome of their
// last concluded audit round. Node ids are assigned depth-first from one
// counter shared by the whole build.
func BuildAuditTree(records []models.AllocatorRecord, roundCount int) *models.TreeNode {
	if roundCount < 0 {
		roundCount = 0
	}

	ids := &Counter{}
	root := newTreeNode(ids, AuditRootName, records)

	var active, inactive []models.AllocatorRecord
	for _, record := range records {
		if record.IsActive() {
			active = append(active, record)
		} else {
			inactive = append(inactive, record)
		}
	}

	root.Children = []*models.TreeNode{
		newLeafList(ids, NotActiveNodeName, inactive),
		buildActive(ids, active, roundCount),
	}

	return root
}

func buildActive(ids *Counter, records []models.AllocatorRecord, roundCount int) *models.TreeNode {
	node := newTreeNode(ids, ActiveNodeName, records)

	byRound := make([][]models.AllocatorRecord, roundCount)
	var notAudited []models.AllocatorRecord
	for _, record := range records {
		round := LastValidRound(record.AuditOutcomes)
		switch {
		case round < 0:
			notAudited = append(notAudited, record)
		case round < roundCount:
			byRound[round] = append(byRound[round], record)
		}
	}

	node.Children = append(node.Children, newLeafList(ids, NotAuditedNodeName, notAudited))
	node.Children = append(node.Children, buildRounds(ids, byRound, 0)...)

	return node
}

func buildRounds(ids *Counter, byRound [][]models.AllocatorRecord, round int) []*models.TreeNode {
	if round >= len(byRound) {
		return nil
	}

	records := byRound[round]
	node := newTreeNode(ids, "Audit "+strconv.Itoa(round+1), records)
	for _, b := range buckets {
		var matched []models.AllocatorRecord
		for _, record := range records {
			if _, ok := b.statuses[record.AuditOutcomes[round]]; ok {
				matched = append(matched, record)
			}
		}
		node.Children = append(node.Children, newLeafList(ids, b.name, matched))
	}

	return append([]*models.TreeNode{node}, buildRounds(ids, byRound, round+1)...)
}

func newTreeNode(ids *Counter, name string, records []models.AllocatorRecord) *models.TreeNode {
	agg := AggregateRecords(records)
	return &models.TreeNode{
		ID:              ids.Next(),
		Name:            name,
		AggregateAmount: models.NewAmount(agg.Total),
		MemberCount:     agg.Count,
	}
}

func newLeafList(ids *Counter, name string, records []models.AllocatorRecord) *models.TreeNode {
	node := newTreeNode(ids, name, records)
	node.Allocators = make([]models.AllocatorLeaf, 0, len(records))
	for _, record := range records {
		node.Allocators = append(node.Allocators, models.AllocatorLeaf{
			ID:               record.ID,
			Name:             record.DisplayName(),
			AllocationAmount: models.NewAmount(record.AllocationAmount),
		})
	}
	return node
}
