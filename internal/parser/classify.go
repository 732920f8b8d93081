package parser

import (
	"math/big"

	"github.com/datacapflow/core/internal/models"
)

// DefaultFaucetName is the name of the single allocator pulled out of the
// Automatic pathway.
const DefaultFaucetName = "Faucet"

type Partitions struct {
	Automatic []models.AllocatorRecord
	Manual    []models.AllocatorRecord
}

type Aggregate struct {
	Total *big.Int
	Count int
}

// Classify splits records by pathway, keeping input order within each
// partition.
func Classify(records []models.AllocatorRecord) Partitions {
	parts := Partitions{
		Automatic: []models.AllocatorRecord{},
		Manual:    []models.AllocatorRecord{},
	}

	for _, record := range records {
		switch record.Pathway {
		case models.PathwayAutomatic:
			parts.Automatic = append(parts.Automatic, record)
		case models.PathwayManual:
			parts.Manual = append(parts.Manual, record)
		}
	}

	return parts
}

// SplitFaucet pulls the first record named faucetName out of the
// automatic records.
func SplitFaucet(automatic []models.AllocatorRecord, faucetName string) (*models.AllocatorRecord, []models.AllocatorRecord) {
	var faucet *models.AllocatorRecord
	rest := []models.AllocatorRecord{}

	for i := range automatic {
		if faucet == nil && faucetName != "" && automatic[i].Name == faucetName {
			record := automatic[i]
			faucet = &record
			continue
		}
		rest = append(rest, automatic[i])
	}

	return faucet, rest
}

func SplitMeta(manual []models.AllocatorRecord) (meta, rest []models.AllocatorRecord) {
	meta = []models.AllocatorRecord{}
	rest = []models.AllocatorRecord{}

	for _, record := range manual {
		if record.PathwayType == models.PathwayTypeManualMeta {
			meta = append(meta, record)
		} else {
			rest = append(rest, record)
		}
	}

	return meta, rest
}

func AggregateRecords(records []models.AllocatorRecord) Aggregate {
	total := new(big.Int)
	for _, record := range records {
		if record.AllocationAmount != nil {
			total.Add(total, record.AllocationAmount)
		}
	}
	return Aggregate{Total: total, Count: len(records)}
}

// Summarize aggregates every partition the flow graph is built from.
func Summarize(result *ParseResult, faucetName string) models.Summary {
	parts := Classify(result.Records)
	faucet, direct := SplitFaucet(parts.Automatic, faucetName)
	meta, directManual := SplitMeta(parts.Manual)

	summary := models.Summary{
		Total:           summarize(AggregateRecords(result.Records)),
		Automatic:       summarize(AggregateRecords(parts.Automatic)),
		DirectAutomatic: summarize(AggregateRecords(direct)),
		Manual:          summarize(AggregateRecords(parts.Manual)),
		MPMA:            summarize(AggregateRecords(meta)),
		DirectManual:    summarize(AggregateRecords(directManual)),
		DroppedRows:     result.Dropped,
	}

	if faucet != nil {
		s := summarize(AggregateRecords([]models.AllocatorRecord{*faucet}))
		summary.Faucet = &s
	}

	return summary
}

func summarize(agg Aggregate) models.PartitionSummary {
	return models.PartitionSummary{Amount: models.NewAmount(agg.Total), Count: agg.Count}
}
