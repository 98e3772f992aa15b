package handler

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Command is the decoded body of POST /action. Unused fields stay zero; each
// verb validates the ones it needs.
type Command struct {
	Action string `json:"action"`

	// Target is the verb's primary argument: a zone, "@name", a resource, a
	// sub-verb (party invite/accept/...), a market id, and so on.
	Target string `json:"target,omitempty"`

	Item     string `json:"item,omitempty"`
	Resource string `json:"resource,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	Amount   int    `json:"amount,omitempty"` // shells: wager, bet, contribution, price
	Option   int    `json:"option,omitempty"` // prediction option index
	Message  string `json:"message,omitempty"`
	To       string `json:"to,omitempty"` // trade counterparty / dm recipient

	// Trade legs.
	OfferResource   string `json:"offerResource,omitempty"`
	OfferQuantity   int    `json:"offerQuantity,omitempty"`
	RequestResource string `json:"requestResource,omitempty"`
	RequestQuantity int    `json:"requestQuantity,omitempty"`
}

const (
	maxTargetLen  = 100
	maxMessageLen = 200
)

// sanitize normalizes and bounds every free-text field before dispatch.
func (c *Command) sanitize() {
	c.Action = strings.ToLower(sanitizeText(c.Action, maxTargetLen))
	c.Target = sanitizeText(c.Target, maxTargetLen)
	c.Item = sanitizeText(c.Item, maxTargetLen)
	c.Resource = sanitizeText(c.Resource, maxTargetLen)
	c.Message = sanitizeText(c.Message, maxMessageLen)
	c.To = sanitizeText(c.To, maxTargetLen)
	c.OfferResource = sanitizeText(c.OfferResource, maxTargetLen)
	c.RequestResource = sanitizeText(c.RequestResource, maxTargetLen)
}

// sanitizeText NFKC-normalizes, strips tag-like substrings and control runes,
// and trims to max runes.
func sanitizeText(s string, max int) string {
	s = norm.NFKC.String(s)
	s = tagPattern.ReplaceAllString(s, "")
	var b strings.Builder
	n := 0
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
		n++
		if n >= max {
			break
		}
	}
	return strings.TrimSpace(b.String())
}
