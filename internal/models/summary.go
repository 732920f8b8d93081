package models

type PartitionSummary struct {
	Amount Amount `json:"amount"`
	Count  int    `json:"count"`
}

// Summary reports the aggregate of every partition used by the flow graph.
type Summary struct {
	Total           PartitionSummary  `json:"total"`
	Automatic       PartitionSummary  `json:"automatic"`
	DirectAutomatic PartitionSummary  `json:"direct_automatic"`
	Faucet          *PartitionSummary `json:"faucet,omitempty"`
	Manual          PartitionSummary  `json:"manual"`
	MPMA            PartitionSummary  `json:"mpma"`
	DirectManual    PartitionSummary  `json:"direct_manual"`
	DroppedRows     int               `json:"dropped_rows"`
}
