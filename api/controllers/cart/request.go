package cart

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"

	"github.com/shopspring/decimal"
)

var (
	minWhole = decimal.NewFromInt(math.MinInt64)
	maxWhole = decimal.NewFromInt(math.MaxInt64)
)

// wholeNumber accepts any JSON number with no fractional part, so 2 and 2.0
// decode alike. Strings and fractions are type errors.
type wholeNumber int

func (n *wholeNumber) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] == '"' || bytes.Equal(trimmed, []byte("true")) ||
		bytes.Equal(trimmed, []byte("false")) || trimmed[0] == '{' || trimmed[0] == '[' {
		return &json.UnmarshalTypeError{Value: jsonKind(trimmed), Type: reflect.TypeOf(0)}
	}
	d, err := decimal.NewFromString(string(trimmed))
	if err != nil || !d.IsInteger() || d.LessThan(minWhole) || d.GreaterThan(maxWhole) {
		return &json.UnmarshalTypeError{Value: "number " + string(trimmed), Type: reflect.TypeOf(0)}
	}
	*n = wholeNumber(d.IntPart())
	return nil
}

func jsonKind(b []byte) string {
	switch {
	case len(b) == 0:
		return "empty"
	case b[0] == '"':
		return "string"
	case b[0] == '{':
		return "object"
	case b[0] == '[':
		return "array"
	}
	return "bool"
}

type addItemRequest struct {
	ProductID *string      `json:"productId" validate:"required"`
	Quantity  *wholeNumber `json:"quantity" validate:"required,min=1,max=2147483647"`
}

type updateItemRequest struct {
	ItemID   *string      `json:"itemId" validate:"required,min=1"`
	Quantity *wholeNumber `json:"quantity" validate:"required,min=1,max=2147483647"`
}
