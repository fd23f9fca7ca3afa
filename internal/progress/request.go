package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexInt accepts JSON numbers and numeric strings. Anything else fails
// to unmarshal and collapses into the boundary's validation error.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		*f = FlexInt(v)
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("not an integer: %s", b)
	}
	*f = FlexInt(v)
	return nil
}

// UpdateRequest is the POST body. Both snake_case and camelCase keys are
// accepted for compatibility with existing clients.
type UpdateRequest struct {
	BookID         FlexInt `json:"book_id"`
	BookIDAlt      FlexInt `json:"bookId"`
	CurrentPage    FlexInt `json:"current_page"`
	CurrentPageAlt FlexInt `json:"currentPage"`
	TotalPages     FlexInt `json:"total_pages"`
	TotalPagesAlt  FlexInt `json:"totalPages"`
}

// UpdateInput is the normalized, validated shape the service consumes.
type UpdateInput struct {
	BookID      int64
	CurrentPage int64
	TotalPages  int64
}

func pick(a, b FlexInt) int64 {
	if a != 0 {
		return int64(a)
	}
	return int64(b)
}

func (r UpdateRequest) Normalize() UpdateInput {
	return UpdateInput{
		BookID:      pick(r.BookID, r.BookIDAlt),
		CurrentPage: pick(r.CurrentPage, r.CurrentPageAlt),
		TotalPages:  pick(r.TotalPages, r.TotalPagesAlt),
	}
}
