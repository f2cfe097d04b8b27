package router

import (
	"time"

	tg "beertime/internal/telegram"
	"beertime/internal/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// InputGate reports whether a user is in the middle of a multi-step
// conversation and free text should be routed to the flow handler.
type InputGate interface {
	InProgress(userID int64) bool
}

// MessageOptions controls fallback behaviour for text and contact updates.
type MessageOptions struct {
	UnknownText    tele.HandlerFunc
	UnknownContact tele.HandlerFunc
}

// MessageRoutes builds handlers for free-text and shared-contact routing.
// Text is routed to the registry flow handler while the sender has a
// pending input step, to a registered command otherwise, then to the
// unknown-text fallback.
func MessageRoutes(gate InputGate, reg *tg.Registry, opts MessageOptions) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if gate != nil && c.Sender() != nil && gate.InProgress(c.Sender().ID) {
			if flow := reg.TextHandler(); flow != nil {
				return handleWithSummary(c, "flow", start, "", "", func() error {
					return flow(c)
				})
			}
		}

		if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
			name := normalizeHandlerName(key)
			return handleWithSummary(c, name, start, "", "", func() error {
				return cmd.Handler(c)
			})
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	contactHandler := func(c tele.Context) error {
		start := time.Now()
		if h := reg.ContactHandler(); h != nil {
			return handleWithSummary(c, "contact", start, "", "", func() error {
				return h(c)
			})
		}
		if opts.UnknownContact != nil {
			return handleWithSummary(c, "unexpected_contact", start, "", "", func() error {
				return opts.UnknownContact(c)
			})
		}
		logHandlerSummary(c, "unexpected_contact", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.Recover(middleware.Logging(textHandler)),
		},
		{
			Endpoint: tele.OnContact,
			Handler:  middleware.Recover(middleware.Logging(contactHandler)),
		},
	}
}
