package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLStripperer removes markup from user supplied text.
type HTMLStripperer interface {
	StripHTML(s string) string
}

type HTMLStripper struct {
	bm *bluemonday.Policy
}

var _ HTMLStripperer = (*HTMLStripper)(nil)

func NewHTMLStripper() *HTMLStripper {
	return &HTMLStripper{
		bm: bluemonday.StrictPolicy(),
	}
}

// StripHTML drops every tag and returns plain, trimmed text. Entities escaped by
// the policy are decoded back so "A & B" survives unchanged.
func (hs *HTMLStripper) StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(hs.bm.Sanitize(s)))
}
