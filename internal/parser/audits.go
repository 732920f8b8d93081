package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/datacapflow/core/internal/models"
)

// AllocatorIDColumn is the header of the audit sheet column holding the
// allocator id. Round columns are headed "1", "2", ...
const AllocatorIDColumn = "Allocator ID"

var ErrMissingAllocatorColumn = errors.New("audit sheet has no \"" + AllocatorIDColumn + "\" column")

type AuditSheet struct {
	Rounds   int
	Outcomes map[string][]models.AuditOutcome
}

// ParseAuditSheet reads a header row followed by one row per allocator.
// Blank trailing cells are rounds that have not happened yet.
func ParseAuditSheet(rows [][]string) (*AuditSheet, error) {
	sheet := &AuditSheet{Outcomes: map[string][]models.AuditOutcome{}}

	if len(rows) == 0 {
		return sheet, nil
	}

	idColumn := -1
	roundColumns := map[int]int{}
	for i, cell := range rows[0] {
		header := strings.TrimSpace(cell)
		if header == AllocatorIDColumn {
			idColumn = i
			continue
		}
		if round, err := strconv.Atoi(header); err == nil && round > 0 {
			if _, seen := roundColumns[round]; !seen {
				roundColumns[round] = i
			}
		}
	}

	if idColumn < 0 {
		return nil, ErrMissingAllocatorColumn
	}

	columns := []int{}
	for round := 1; ; round++ {
		column, ok := roundColumns[round]
		if !ok {
			break
		}
		columns = append(columns, column)
	}
	sheet.Rounds = len(columns)

	for _, row := range rows[1:] {
		id := strings.TrimSpace(cell(row, idColumn))
		if id == "" {
			continue
		}
		if _, seen := sheet.Outcomes[id]; seen {
			continue
		}

		outcomes := make([]models.AuditOutcome, 0, len(columns))
		last := 0
		for i, column := range columns {
			tag := normalizeOutcome(cell(row, column))
			if tag == "" {
				tag = models.AuditNotAudited
			} else {
				last = i + 1
			}
			outcomes = append(outcomes, tag)
		}
		sheet.Outcomes[id] = outcomes[:last]
	}

	return sheet, nil
}

// MergeAudits returns copies of records carrying their audit history.
func MergeAudits(records []models.AllocatorRecord, sheet *AuditSheet) []models.AllocatorRecord {
	merged := make([]models.AllocatorRecord, 0, len(records))
	for _, record := range records {
		record.AuditOutcomes = nil
		if sheet != nil {
			if outcomes, ok := sheet.Outcomes[record.ID]; ok {
				record.AuditOutcomes = append([]models.AuditOutcome(nil), outcomes...)
			}
		}
		merged = append(merged, record)
	}
	return merged
}

func cell(row []string, column int) string {
	if column < 0 || column >= len(row) {
		return ""
	}
	return row[column]
}

func normalizeOutcome(raw string) models.AuditOutcome {
	return models.AuditOutcome(strings.ToUpper(strings.Join(strings.Fields(raw), " ")))
}
