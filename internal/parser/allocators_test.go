package parser

import (
	"testing"

	"github.com/datacapflow/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAllocators_Valid(t *testing.T) {
	input := []byte(`[
		{
			"id": "f01",
			"name": "Alpha",
			"pathway": "Automatic",
			"pathwayType": "Automatic",
			"allocationAmount": "1125899906842624"
		},
		{
			"id": "f02",
			"pathway": "Manual",
			"pathwayType": "ManualPathwayMeta",
			"allocationAmount": "340282366920938463463374607431768211456"
		}
	]`)

	result, err := ParseAllocators(input)

	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Zero(t, result.Dropped)

	assert.Equal(t, "f01", result.Records[0].ID)
	assert.Equal(t, "Alpha", result.Records[0].DisplayName())
	assert.Equal(t, models.PathwayAutomatic, result.Records[0].Pathway)
	assert.Equal(t, "1125899906842624", result.Records[0].AllocationAmount.String())

	assert.Equal(t, "f02", result.Records[1].DisplayName())
	assert.Equal(t, models.PathwayTypeManualMeta, result.Records[1].PathwayType)
	assert.Equal(t, "340282366920938463463374607431768211456", result.Records[1].AllocationAmount.String())
}

func TestParseAllocators_DropsInvalidRows(t *testing.T) {
	input := []byte(`[
		{"id": "ok", "pathway": "Manual", "pathwayType": "Manual", "allocationAmount": "10"},
		{"pathway": "Manual", "pathwayType": "Manual", "allocationAmount": "10"},
		{"id": "bad-pathway", "pathway": "Hybrid", "pathwayType": "Manual", "allocationAmount": "10"},
		{"id": "bad-type", "pathway": "Manual", "pathwayType": "Lottery", "allocationAmount": "10"},
		{"id": "negative", "pathway": "Manual", "pathwayType": "Manual", "allocationAmount": "-10"},
		{"id": "fraction", "pathway": "Manual", "pathwayType": "Manual", "allocationAmount": "1.5"},
		{"id": "number", "pathway": "Manual", "pathwayType": "Manual", "allocationAmount": 10},
		"not an object",
		null
	]`)

	result, err := ParseAllocators(input)

	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "ok", result.Records[0].ID)
	assert.Equal(t, 8, result.Dropped)
}

func TestParseAllocators_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "[]", "null"} {
		result, err := ParseAllocators([]byte(input))
		require.NoError(t, err, "input %q", input)
		assert.Empty(t, result.Records, "input %q", input)
		assert.Zero(t, result.Dropped, "input %q", input)
	}
}

func TestParseAllocators_InvalidJSON(t *testing.T) {
	_, err := ParseAllocators([]byte(`{invalid json`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal")
}

func TestParseAllocators_NotAnArray(t *testing.T) {
	_, err := ParseAllocators([]byte(`{"id": "f01"}`))
	assert.Error(t, err)
}
