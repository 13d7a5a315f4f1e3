package order

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// phonePattern is deliberately loose: 8-20 characters of digits, spaces,
// and common separators. Syntactic only, no country-code checking.
var phonePattern = regexp.MustCompile(`^[0-9\s\-\+\(\)]{8,20}$`)

// RequiredFields is the canonical required-field list. Missing-field
// reporting preserves this order.
var RequiredFields = []string{"productName", "name", "phone", "address", "quantity"}

// Submission is a storefront order as posted by the caller. It lives for
// exactly one request; nothing here is ever persisted.
type Submission struct {
	ProductName  string      `json:"productName"`
	ProductPrice FlexDisplay `json:"productPrice"`
	Name         string      `json:"name"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Quantity     *float64    `json:"quantity"`
	Notes        string      `json:"notes"`
	PageURL      string      `json:"pageUrl"`
	Timestamp    string      `json:"timestamp"`
}

// FlexDisplay is a display-only field that accepts either a JSON string or
// a JSON number. The price is never validated or computed with.
type FlexDisplay string

func (f *FlexDisplay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexDisplay(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexDisplay(n.String())
		return nil
	}
	return fmt.Errorf("productPrice must be a string or a number")
}

// Validate checks the submission in fixed order: required-field presence,
// then phone format, then quantity bound. The first failing check wins;
// later checks are not evaluated.
func (s *Submission) Validate() error {
	var missing []string
	if s.ProductName == "" {
		missing = append(missing, "productName")
	}
	if s.Name == "" {
		missing = append(missing, "name")
	}
	if s.Phone == "" {
		missing = append(missing, "phone")
	}
	if s.Address == "" {
		missing = append(missing, "address")
	}
	if s.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	if !phonePattern.MatchString(s.Phone) {
		return ErrInvalidPhone
	}

	// Lower bound only. No upper bound is enforced.
	if *s.Quantity < 1 {
		return ErrInvalidQuantity
	}

	return nil
}
