package dto

import (
	"bytes"
	"encoding/json"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/pkg/currency"
)

// Amount accepts either a JSON number or the masked text the amount inputs
// produce ("R$ 1.234,56").
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errs.NewValidationError("amount must be a number or text")
		}
		v, err := currency.ParseInput(s)
		if err != nil {
			return errs.NewValidationError("invalid amount: " + s)
		}
		*a = Amount(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return errs.NewValidationError("amount must be a number or text")
	}
	*a = Amount(f)
	return nil
}

func (a Amount) Float() float64 { return float64(a) }
