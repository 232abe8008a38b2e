package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"floure-storefront/models"
)

// decodeList accepts either a bare JSON array or the paginated
// {count,next,previous,results} envelope and returns the items.
func decodeList[T any](raw []byte, what string) ([]T, error) {
	items, _, err := decodePage[T](raw, what)
	return items, err
}

// decodePage is decodeList that also reports whether the envelope points
// at a further page. A bare array is always the last page.
func decodePage[T any](raw []byte, what string) ([]T, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, false, fmt.Errorf("api: decode %s: %w", what, err)
		}
		return items, false, nil
	}

	var page models.Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, false, fmt.Errorf("api: decode %s: %w", what, err)
	}
	more := page.Next != nil && *page.Next != ""
	if page.Results == nil {
		return []T{}, more, nil
	}
	return page.Results, more, nil
}
