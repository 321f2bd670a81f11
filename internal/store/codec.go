package store

import (
	"encoding/json"
	"fmt"

	"github.com/mmcdole/chartbox/internal/domain"
)

// Decode reads a persisted root over the defaults, so missing fields keep
// their default value and unknown fields are ignored.
func Decode(raw []byte) (*domain.Data, error) {
	data := domain.DefaultData()
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorrupt, err)
	}
	data.Normalize()
	return data, nil
}

// Encode serializes the whole root.
func Encode(data *domain.Data) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal data: %w", err)
	}
	return raw, nil
}
