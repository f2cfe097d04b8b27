package callbacks

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Parse decodes Telebot's \f<unique>|<payload> callback encoding.
// Returns unique and payload (may be empty).
func Parse(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\\f")
	parts := strings.SplitN(raw, "|", 2)
	unique := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return unique, payload
}

// Key returns cb.Unique if present; otherwise parses it from Data.
func Key(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Unique
	}
	k, _ := Parse(cb)
	return k
}

// Payload returns the payload (after '|') parsed from Data.
func Payload(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	// prefer cb.Data since cb.Unique may be empty in generic OnCallback
	_, payload := Parse(cb)
	return payload
}

// PayloadIndex parses the callback payload as a non-negative list index.
func PayloadIndex(c tele.Context) (int, bool) {
	p := strings.TrimSpace(Payload(c))
	if p == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(p)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
