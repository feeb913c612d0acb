package cart

import (
	"encoding/json"
	"fmt"
	"strings"

	"goflare.io/atelier/models"
)

// storedLine is the durable shape of a cart line: {"product": {...}, "quantity": n}.
type storedLine struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Encode serialises lines into the durable representation.
func Encode(lines []models.CartLine) ([]byte, error) {
	stored := make([]storedLine, 0, len(lines))
	for _, line := range lines {
		stored = append(stored, storedLine{Product: line.Product, Quantity: line.Quantity})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

// Decode parses the durable representation and normalises it: lines with an
// empty product id or a quantity below one are dropped and repeated products
// are merged into the first occurrence.
func Decode(data []byte) ([]models.CartLine, error) {
	var stored []storedLine
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	lines := make([]models.CartLine, 0, len(stored))
	index := make(map[string]int, len(stored))
	for _, s := range stored {
		if strings.TrimSpace(s.Product.ID) == "" || s.Quantity < 1 {
			continue
		}
		if i, ok := index[s.Product.ID]; ok {
			lines[i].Quantity += s.Quantity
			continue
		}
		index[s.Product.ID] = len(lines)
		lines = append(lines, models.CartLine{Product: s.Product, Quantity: s.Quantity})
	}

	return lines, nil
}
