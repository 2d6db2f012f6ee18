package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPageHint is returned for a page hint outside the closed set.
var ErrInvalidPageHint = errors.New("invalid page hint")

// PageHint classifies what a screenshot depicts.
type PageHint string

const (
	PageHintHomepage   PageHint = "Homepage"
	PageHintProduct    PageHint = "Product Page"
	PageHintCollection PageHint = "Collection Page"
	PageHintCart       PageHint = "Cart"
	PageHintOther      PageHint = "Other"
)

// PageHints lists the accepted hints in display order.
var PageHints = []PageHint{
	PageHintHomepage,
	PageHintProduct,
	PageHintCollection,
	PageHintCart,
	PageHintOther,
}

// ParsePageHint maps a wire value to a PageHint. Empty input yields Homepage.
func ParsePageHint(s string) (PageHint, error) {
	switch strings.TrimSpace(s) {
	case "", string(PageHintHomepage):
		return PageHintHomepage, nil
	case string(PageHintProduct), "ProductPage":
		return PageHintProduct, nil
	case string(PageHintCollection), "CollectionPage":
		return PageHintCollection, nil
	case string(PageHintCart):
		return PageHintCart, nil
	case string(PageHintOther):
		return PageHintOther, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPageHint, s)
}

// UnmarshalText implements encoding.TextUnmarshaler so JSON input is validated on decode.
func (h *PageHint) UnmarshalText(b []byte) error {
	v, err := ParsePageHint(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Screenshot is one normalized image plus the user's page hint.
// PreviewURL is accepted from browser clients and otherwise ignored.
type Screenshot struct {
	Base64     string   `json:"base64"`
	MimeType   string   `json:"mimeType"`
	PageHint   PageHint `json:"pageHint"`
	PreviewURL string   `json:"previewUrl,omitempty"`
}
