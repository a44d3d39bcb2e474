// Package input reads order and payment method definitions from JSON
// files. Amounts are parsed exactly through the money package; both bare
// JSON numbers and quoted decimal strings are accepted.
package input

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"payopt/internal/optimizer"
	"payopt/pkg/money"
)

// flexInt accepts an integer given either as a JSON number or as a
// quoted string, which is how discount percentages appear in the wild.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", s, err)
	}
	*f = flexInt(v)
	return nil
}

type paymentMethodEntry struct {
	ID       string       `json:"id"`
	Discount flexInt      `json:"discount"`
	Limit    money.Amount `json:"limit"`
}

// ReadOrders loads the batch of orders from a JSON array file.
func ReadOrders(path string) ([]optimizer.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders file %s: %w", path, err)
	}

	orders, err := ParseOrders(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse orders file %s: %w", path, err)
	}
	return orders, nil
}

// ParseOrders parses a batch of orders from raw JSON.
func ParseOrders(data []byte) ([]optimizer.Order, error) {
	var orders []optimizer.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("failed to parse orders: %w", err)
	}
	return orders, nil
}

// ReadPaymentMethods loads the payment method definitions from a JSON
// array file.
func ReadPaymentMethods(path string) ([]optimizer.PaymentMethod, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment methods file %s: %w", path, err)
	}

	return ParsePaymentMethods(data)
}

// ParsePaymentMethods parses payment method definitions from raw JSON.
func ParsePaymentMethods(data []byte) ([]optimizer.PaymentMethod, error) {
	var entries []paymentMethodEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse payment methods: %w", err)
	}

	methods := make([]optimizer.PaymentMethod, len(entries))
	for i, entry := range entries {
		methods[i] = optimizer.PaymentMethod{
			ID:       entry.ID,
			Discount: int(entry.Discount),
			Limit:    entry.Limit,
		}
	}
	return methods, nil
}
