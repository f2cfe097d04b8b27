// Package shop implements the dialog state machine: it maps button tokens,
// free text, and shared contacts onto session and catalog mutations and
// returns the screen to present. It has no Telegram transport dependency
// beyond keyboard markup types, so every flow is testable directly.
package shop

import (
	"context"
	"fmt"

	"beertime/internal/catalog"
	"beertime/internal/logger"
	"beertime/internal/session"
	"log/slog"
)

// Callback uniques. Payload-carrying tokens keep their argument in the
// callback data part (item name, volume label, or board index).
const (
	cbHome     = "home"
	cbMenu     = "menu"
	cbPromo    = "promo"
	cbNews     = "news"
	cbOrder    = "order"
	cbBeer     = "beer"
	cbVolume   = "vol"
	cbCart     = "cart"
	cbCheckout = "checkout"

	cbAdmin        = "admin"
	cbAdminAdd     = "admin_add"
	cbAdminDel     = "admin_del"
	cbAdminDelItem = "admin_del_item"
	cbPromoAdd     = "promo_add"
	cbPromoDel     = "promo_del"
	cbPromoDelAt   = "promo_del_at"
	cbNewsAdd      = "news_add"
	cbNewsDel      = "news_del"
	cbNewsDelAt    = "news_del_at"
)

// Options configures the dispatcher.
type Options struct {
	// AdminID is the single operator identity; it also receives order notices.
	AdminID int64
	Volumes []string
}

// Shop is the dialog dispatcher shared by all chats.
type Shop struct {
	catalog  *catalog.Store
	sessions *session.Manager
	adminID  int64
	volumes  []string
}

// New wires the dispatcher to its catalog and session stores.
func New(cat *catalog.Store, sessions *session.Manager, opts Options) *Shop {
	volumes := opts.Volumes
	if len(volumes) == 0 {
		volumes = []string{"0.5л", "1л", "1.5л", "2л"}
	}
	return &Shop{
		catalog:  cat,
		sessions: sessions,
		adminID:  opts.AdminID,
		volumes:  volumes,
	}
}

// Sessions exposes the session manager for routing decisions.
func (s *Shop) Sessions() *session.Manager {
	return s.sessions
}

func (s *Shop) isAdmin(userID int64) bool {
	return s.adminID != 0 && userID == s.adminID
}

// Start handles /start: the session is dropped entirely and the home
// screen is shown. This is the only way to reset an abandoned flow.
func (s *Shop) Start(userID int64) View {
	s.sessions.Clear(userID)
	v := homeView(s.isAdmin(userID))
	v.NewMessage = true
	return v
}

// Home renders the root menu. Navigating home abandons any pending input
// or half-picked item but keeps the cart.
func (s *Shop) Home(userID int64) View {
	s.sessions.ResetFlow(userID)
	return homeView(s.isAdmin(userID))
}

// Menu lists catalog items with their price labels.
func (s *Shop) Menu() View {
	return menuView(s.catalog.Snapshot())
}

// Promotions lists the promotions board.
func (s *Shop) Promotions() View {
	return promoView(s.catalog.Snapshot())
}

// NewArrivals lists the new-arrivals board.
func (s *Shop) NewArrivals() View {
	return newsView(s.catalog.Snapshot())
}

// StartOrder shows the item-pick screen. Any stale selection from an
// earlier abandoned pick is dropped first.
func (s *Shop) StartOrder(userID int64) View {
	s.sessions.ClearSelection(userID)
	return itemPickView(s.catalog.Snapshot(), textPickItem)
}

// PickItem remembers the chosen item and asks for a volume. If the item
// vanished since the buttons were rendered, the pick screen is refreshed.
func (s *Shop) PickItem(userID int64, name string) View {
	if _, ok := s.catalog.Item(name); !ok {
		return itemPickView(s.catalog.Snapshot(), textItemGone)
	}
	s.sessions.SetSelection(userID, name)
	return volumePickView(name, s.volumes)
}

// PickVolume freezes the chosen item and volume into a cart line. With no
// selection on file (stale button, restarted process) the item pick is
// shown again instead.
func (s *Shop) PickVolume(userID int64, volume string) View {
	item := s.sessions.Selection(userID)
	if item == "" {
		return itemPickView(s.catalog.Snapshot(), textPickItem)
	}
	line := fmt.Sprintf("%s (%s)", item, volume)
	s.sessions.AppendCart(userID, line)
	s.sessions.ClearSelection(userID)
	logger.SHOP.Debug("cart line added",
		slog.String("event", "cart.add"),
		slog.Int64("user_id", userID),
		slog.Int("cart_size", len(s.sessions.Cart(userID))),
	)
	return addedView(line)
}

// Cart shows the user's cart.
func (s *Shop) Cart(userID int64) View {
	return cartView(s.sessions.Cart(userID))
}

// Checkout switches the session to phone capture. An empty cart never
// reaches phone capture; the empty-cart screen is rendered instead.
func (s *Shop) Checkout(userID int64) View {
	if len(s.sessions.Cart(userID)) == 0 {
		return cartView(nil)
	}
	s.sessions.SetPending(userID, session.PendingPhone)
	return checkoutView()
}

// HandleText interprets free text against the session's pending input.
// Text with nothing pending is dropped without feedback.
func (s *Shop) HandleText(ctx context.Context, userID int64, displayName, text string) (View, *Notice) {
	switch s.sessions.Pending(userID) {
	case session.PendingPhone:
		return s.finalize(userID, displayName, text)
	case session.PendingAdminAddItem:
		return s.adminAddItem(ctx, userID, text), nil
	case session.PendingAdminAddPromo:
		return s.adminAddBoardEntry(ctx, userID, text, boardPromotions), nil
	case session.PendingAdminAddNew:
		return s.adminAddBoardEntry(ctx, userID, text, boardNewArrivals), nil
	default:
		return View{}, nil
	}
}

// HandleContact consumes a shared contact during checkout. A contact
// shared outside checkout is ignored.
func (s *Shop) HandleContact(userID int64, displayName, phone string) (View, *Notice) {
	if s.sessions.Pending(userID) != session.PendingPhone {
		return View{}, nil
	}
	return s.finalize(userID, displayName, phone)
}
