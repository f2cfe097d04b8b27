package shop

import (
	"strings"

	"beertime/internal/logger"
	"log/slog"
)

// finalize turns the session into an operator notice and clears it. The
// session is cleared regardless of what happens to the notice afterwards:
// the customer is never left with a limbo cart because of a transport
// hiccup on the operator side.
func (s *Shop) finalize(userID int64, displayName, phone string) (View, *Notice) {
	phone = strings.TrimSpace(phone)
	cart := s.sessions.Cart(userID)

	s.sessions.SetPhone(userID, phone)
	s.sessions.Clear(userID)

	if len(cart) == 0 {
		logger.SHOP.Warn("checkout with empty cart",
			slog.String("event", "order.empty"),
			slog.Int64("user_id", userID),
		)
		return cartView(nil), nil
	}

	notice := orderNotice(s.adminID, displayName, phone, cart)

	logger.SHOP.Info("order finalized",
		slog.String("event", "order.done"),
		slog.Int64("user_id", userID),
		slog.Int("cart_size", len(cart)),
	)

	if s.adminID == 0 {
		// No operator configured: the order is logged but cannot be relayed.
		logger.SHOP.Error("order lost, no operator chat",
			slog.String("event", "order.drop"),
			slog.Int64("user_id", userID),
			slog.String("payload", logger.SanitizeLimit(notice.Text, 512)),
		)
		return orderAcceptedView(), nil
	}

	return orderAcceptedView(), &notice
}
