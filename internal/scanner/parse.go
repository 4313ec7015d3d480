package scanner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmynk/receiptsplit/internal/models"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// receiptJSON is the shape the model is asked to produce.
type receiptJSON struct {
	MerchantName string        `json:"merchant_name"`
	Currency     string        `json:"currency"`
	Items        []receiptItem `json:"items"`
	Subtotal     lenientNumber `json:"subtotal"`
	Tax          lenientNumber `json:"tax"`
	Total        lenientNumber `json:"total"`
}

type receiptItem struct {
	Name  string        `json:"name"`
	Price lenientNumber `json:"price"`
}

// lenientNumber accepts JSON numbers, numeric strings like "$1,234.50" and null.
type lenientNumber struct {
	value *float64
}

func (n *lenientNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		n.value = nil
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}

	v, ok := parseAmount(raw)
	if !ok {
		n.value = nil
		return nil
	}
	n.value = &v
	return nil
}

// parseAmount strips currency symbols and thousands separators. A last comma
// followed by at most two digits is read as a decimal comma.
func parseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		}
	}
	s = b.String()

	dot, comma := strings.LastIndexByte(s, '.'), strings.LastIndexByte(s, ',')
	if comma > dot && len(s)-comma-1 <= 2 {
		s = strings.ReplaceAll(s[:comma], ".", "") + "." + s[comma+1:]
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

// extractJSON returns the content of the first fenced code block, or the
// trimmed text when there is none.
func extractJSON(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	text = strings.TrimSpace(text)
	if start, end := strings.IndexByte(text, '{'), strings.LastIndexByte(text, '}'); start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// ParseReceipt converts a model reply into a ScannedBill. Unparsable and
// negative prices become 0; unparsable totals become nil.
func ParseReceipt(text string) (*models.ScannedBill, error) {
	var raw receiptJSON
	if err := json.Unmarshal([]byte(extractJSON(text)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	bill := &models.ScannedBill{
		MerchantName: strings.TrimSpace(raw.MerchantName),
		Currency:     strings.ToUpper(strings.TrimSpace(raw.Currency)),
		Items:        make([]models.ScannedItem, 0, len(raw.Items)),
		Subtotal:     raw.Subtotal.value,
		Tax:          raw.Tax.value,
		Total:        raw.Total.value,
	}
	for _, item := range raw.Items {
		name := strings.TrimSpace(item.Name)
		var price float64
		if item.Price.value != nil && *item.Price.value > 0 {
			price = *item.Price.value
		}
		if name == "" && price == 0 {
			continue
		}
		bill.Items = append(bill.Items, models.ScannedItem{Name: name, Price: price})
	}
	return bill, nil
}
