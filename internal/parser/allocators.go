// Package parser provides utilities for parsing and transforming input data.
// It turns upstream allocator rows and audit sheets into records, and
// records into flow graphs, audit trees and summaries.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/datacapflow/core/internal/models"
	"github.com/go-playground/validator/v10"
)

// AllocatorRow is one upstream allocator row before validation.
type AllocatorRow struct {
	ID               string `json:"id" validate:"required"`
	Name             string `json:"name"`
	Pathway          string `json:"pathway" validate:"required,oneof=Automatic Manual"`
	PathwayType      string `json:"pathwayType" validate:"required,oneof=Automatic Manual MarketBased ManualPathwayMeta"`
	AllocationAmount string `json:"allocationAmount" validate:"required,decimal"`
}

type ParseResult struct {
	Records []models.AllocatorRecord
	Dropped int
}

var (
	rowValidate   *validator.Validate
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

func init() {
	rowValidate = validator.New()
	_ = rowValidate.RegisterValidation("decimal", validateDecimal)
}

func validateDecimal(fl validator.FieldLevel) bool {
	return digitsPattern.MatchString(fl.Field().String())
}

// ParseAllocators decodes a JSON array of allocator rows. Rows that cannot
// be decoded or fail validation are skipped and counted in Dropped; only a
// payload that is not an array is an error. An empty payload yields no
// records.
func ParseAllocators(data []byte) (*ParseResult, error) {
	result := &ParseResult{Records: []models.AllocatorRecord{}}

	if len(bytes.TrimSpace(data)) == 0 {
		return result, nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal allocator rows: %w", err)
	}

	for _, raw := range rows {
		record, err := parseRow(raw)
		if err != nil {
			result.Dropped++
			continue
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}

func parseRow(raw json.RawMessage) (models.AllocatorRecord, error) {
	var row AllocatorRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return models.AllocatorRecord{}, err
	}

	if err := rowValidate.Struct(row); err != nil {
		return models.AllocatorRecord{}, err
	}

	amount, err := models.ParseAmount(row.AllocationAmount)
	if err != nil {
		return models.AllocatorRecord{}, err
	}

	return models.AllocatorRecord{
		ID:               row.ID,
		Name:             row.Name,
		Pathway:          models.Pathway(row.Pathway),
		PathwayType:      models.PathwayType(row.PathwayType),
		AllocationAmount: amount,
	}, nil
}
