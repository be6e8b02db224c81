package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a money value as the API sent it. Both "12.50" and 12.50 decode;
// any other JSON type decodes to "", which price lookup treats as absent.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount(numericText(data))
	return nil
}

// Count is a quantity that accepts 2 and "2". Anything unreadable is 0.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(numericText(data))
	if text == "" {
		*c = 0
		return nil
	}
	if n, err := strconv.Atoi(text); err == nil {
		*c = Count(n)
		return nil
	}
	if d, err := decimal.NewFromString(text); err == nil {
		*c = Count(d.IntPart())
		return nil
	}
	*c = 0
	return nil
}

// numericText returns the text of a JSON string or number, or "" for null,
// booleans, arrays and objects.
func numericText(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}
