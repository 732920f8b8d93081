package models

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// Amount is a DataCap quantity in bytes. It is carried as an
// arbitrary-precision integer and encoded in JSON as a decimal string so
// that browsers do not round it.
type Amount struct {
	*big.Int
}

func NewAmount(v *big.Int) Amount {
	if v == nil {
		return Amount{Int: new(big.Int)}
	}
	return Amount{Int: new(big.Int).Set(v)}
}

func AmountFromInt64(v int64) Amount {
	return Amount{Int: big.NewInt(v)}
}

// ParseAmount parses a non-negative base-10 integer.
func ParseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", s)
	}
	return v, nil
}

func (a Amount) String() string {
	if a.Int == nil {
		return "0"
	}
	return a.Int.String()
}

// Float64 converts the amount for rendering. Precision is lost above 2^53.
func (a Amount) Float64() float64 {
	if a.Int == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(a.Int).Float64()
	return f
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("amount must be a decimal string: %w", err)
	}
	if s == "" {
		a.Int = new(big.Int)
		return nil
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	a.Int = v
	return nil
}
