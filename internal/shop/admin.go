package shop

import (
	"context"
	"strings"

	"beertime/internal/session"
)

type boardKind int

const (
	boardPromotions boardKind = iota
	boardNewArrivals
)

// Operator-only screens. Every entry point re-checks the caller identity
// and drops the event silently on mismatch, so a forged callback carries
// no hint that the admin surface exists.

// AdminPanel renders the admin menu.
func (s *Shop) AdminPanel(userID int64) View {
	if !s.isAdmin(userID) {
		return View{}
	}
	s.sessions.ResetFlow(userID)
	return adminPanelView()
}

// AdminPromptAddItem arms item capture: the next text message is parsed
// as "Назва=Ціна".
func (s *Shop) AdminPromptAddItem(userID int64) View {
	if !s.isAdmin(userID) {
		return View{}
	}
	s.sessions.SetPending(userID, session.PendingAdminAddItem)
	return adminPromptView(textPromptItem)
}

// AdminPromptAddPromo arms promotion-line capture.
func (s *Shop) AdminPromptAddPromo(userID int64) View {
	if !s.isAdmin(userID) {
		return View{}
	}
	s.sessions.SetPending(userID, session.PendingAdminAddPromo)
	return adminPromptView(textPromptPromo)
}

// AdminPromptAddNew arms new-arrival-line capture.
func (s *Shop) AdminPromptAddNew(userID int64) View {
	if !s.isAdmin(userID) {
		return View{}
	}
	s.sessions.SetPending(userID, session.PendingAdminAddNew)
	return adminPromptView(textPromptNews)
}

// AdminDeleteItems shows one delete button per catalog item. Items are
// deleted by name, not by position, so a concurrent edit cannot redirect
// the deletion to a different item.
func (s *Shop) AdminDeleteItems(userID int64) View {
	if !s.isAdmin(userID) {
		return View{}
	}
	return adminDeleteItemsView(s.catalog.Snapshot())
}

// AdminDeleteItem removes a catalog item. Deleting an already-gone name
// is a no-op; the delete picker is refreshed either way so the operator
// can keep pruning.
func (s *Shop) AdminDeleteItem(ctx context.Context, userID int64, name string) View {
	if !s.isAdmin(userID) {
		return View{}
	}
	s.catalog.RemoveItem(ctx, name)
	return adminDeleteItemsView(s.catalog.Snapshot())
}

// AdminDeleteBoard shows index-addressed delete buttons for a board.
func (s *Shop) AdminDeleteBoard(userID int64, kind boardKind) View {
	if !s.isAdmin(userID) {
		return View{}
	}
	doc := s.catalog.Snapshot()
	switch kind {
	case boardNewArrivals:
		return adminDeleteBoardView(doc.NewArrivals, cbNewsDelAt)
	default:
		return adminDeleteBoardView(doc.Promotions, cbPromoDelAt)
	}
}

// AdminDeleteBoardAt removes the board entry at idx. Boards have no
// stable keys, so the index is re-validated against the live list and an
// out-of-range value (stale buttons after a concurrent edit) is a no-op.
func (s *Shop) AdminDeleteBoardAt(ctx context.Context, userID int64, kind boardKind, idx int) View {
	if !s.isAdmin(userID) {
		return View{}
	}
	switch kind {
	case boardNewArrivals:
		s.catalog.RemoveNewArrivalAt(ctx, idx)
	default:
		s.catalog.RemovePromotionAt(ctx, idx)
	}
	return adminDeletedView()
}

// adminAddItem parses "Назва=Ціна" on the first "=" so price labels may
// themselves contain "=". On malformed input the capture stays armed and
// a corrective prompt is shown.
func (s *Shop) adminAddItem(ctx context.Context, userID int64, text string) View {
	if !s.isAdmin(userID) {
		return View{}
	}
	name, price, ok := strings.Cut(text, "=")
	name = strings.TrimSpace(name)
	price = strings.TrimSpace(price)
	if !ok || name == "" || price == "" {
		return adminPromptView(textBadItemInput)
	}
	s.catalog.SetItem(ctx, name, price)
	s.sessions.SetPending(userID, session.PendingNone)
	return adminSavedView(name)
}

func (s *Shop) adminAddBoardEntry(ctx context.Context, userID int64, text string, kind boardKind) View {
	if !s.isAdmin(userID) {
		return View{}
	}
	entry := strings.TrimSpace(text)
	if entry == "" {
		prompt := textPromptPromo
		if kind == boardNewArrivals {
			prompt = textPromptNews
		}
		return adminPromptView(prompt)
	}
	switch kind {
	case boardNewArrivals:
		s.catalog.AddNewArrival(ctx, entry)
	default:
		s.catalog.AddPromotion(ctx, entry)
	}
	s.sessions.SetPending(userID, session.PendingNone)
	return adminSavedView(truncateLabel(entry, 48))
}
