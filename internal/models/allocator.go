package models

import "math/big"

// Pathway is the coarse distribution grouping used for the top-level split.
type Pathway string

const (
	PathwayAutomatic Pathway = "Automatic"
	PathwayManual    Pathway = "Manual"
)

// PathwayType is the finer distribution mechanism of an allocator.
type PathwayType string

const (
	PathwayTypeAutomatic   PathwayType = "Automatic"
	PathwayTypeManual      PathwayType = "Manual"
	PathwayTypeMarketBased PathwayType = "MarketBased"
	PathwayTypeManualMeta  PathwayType = "ManualPathwayMeta"
)

// AuditOutcome is the normalized tag recorded for one audit round.
type AuditOutcome string

const (
	AuditNotAudited AuditOutcome = "NOT AUDITED"
	AuditWaiting    AuditOutcome = "WAITING"
	AuditInactive   AuditOutcome = "INACTIVE"
	AuditFailed     AuditOutcome = "FAILED"
	AuditRejected   AuditOutcome = "REJECTED"
	AuditPartial    AuditOutcome = "PARTIAL"
	AuditThrottled  AuditOutcome = "THROTTLED"
	AuditPassed     AuditOutcome = "PASS"
	AuditDoubled    AuditOutcome = "DOUBLE"
)

type AllocatorRecord struct {
	ID               string
	Name             string
	Pathway          Pathway
	PathwayType      PathwayType
	AllocationAmount *big.Int
	AuditOutcomes    []AuditOutcome
}

func (r AllocatorRecord) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if r.ID != "" {
		return r.ID
	}
	return string(r.Pathway) + " allocator"
}

// IsActive reports whether the latest recorded audit tag marks the
// allocator as still operating. Allocators without history are active.
func (r AllocatorRecord) IsActive() bool {
	for i := len(r.AuditOutcomes) - 1; i >= 0; i-- {
		switch r.AuditOutcomes[i] {
		case "", AuditNotAudited:
			continue
		case AuditInactive:
			return false
		default:
			return true
		}
	}
	return true
}
