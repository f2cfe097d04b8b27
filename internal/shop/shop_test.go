package shop

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"beertime/internal/catalog"
	"beertime/internal/session"
)

const (
	testAdminID  = int64(99)
	testUserID   = int64(7)
	testUserName = "Тарас"
)

func newTestShop(t *testing.T, doc *catalog.Document) (*Shop, *catalog.Store, string) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.json")
	fs := catalog.NewFileStore(path)
	if doc != nil {
		if err := fs.Write(ctx, *doc); err != nil {
			t.Fatal(err)
		}
	}
	store, err := catalog.Open(ctx, fs)
	if err != nil {
		t.Fatal(err)
	}
	s := New(store, session.NewManager(), Options{
		AdminID: testAdminID,
		Volumes: []string{"0.5л", "1л", "2л"},
	})
	return s, store, path
}

func TestOrderFlowFreezesCartLine(t *testing.T) {
	s, store, _ := newTestShop(t, nil)

	v := s.StartOrder(testUserID)
	if v.Text != textPickItem {
		t.Fatalf("StartOrder text = %q", v.Text)
	}

	v = s.PickItem(testUserID, "IPA")
	if !strings.Contains(v.Text, "IPA") {
		t.Fatalf("PickItem text = %q", v.Text)
	}

	v = s.PickVolume(testUserID, "1л")
	if !strings.Contains(v.Text, "IPA (1л)") {
		t.Fatalf("PickVolume text = %q", v.Text)
	}

	cart := s.Sessions().Cart(testUserID)
	if len(cart) != 1 || cart[0] != "IPA (1л)" {
		t.Fatalf("cart = %v, want [IPA (1л)]", cart)
	}

	// A later catalog edit must not rewrite the frozen line.
	store.RemoveItem(context.Background(), "IPA")
	cart = s.Sessions().Cart(testUserID)
	if len(cart) != 1 || cart[0] != "IPA (1л)" {
		t.Errorf("cart after item removal = %v", cart)
	}
}

func TestPickVanishedItemRefreshesPicker(t *testing.T) {
	s, store, _ := newTestShop(t, nil)
	store.RemoveItem(context.Background(), "IPA")

	v := s.PickItem(testUserID, "IPA")
	if v.Text != textItemGone {
		t.Errorf("text = %q, want item-gone prompt", v.Text)
	}
	if s.Sessions().Selection(testUserID) != "" {
		t.Error("selection set for vanished item")
	}
}

func TestPickVolumeWithoutSelection(t *testing.T) {
	s, _, _ := newTestShop(t, nil)
	v := s.PickVolume(testUserID, "1л")
	if v.Text != textPickItem {
		t.Errorf("text = %q, want item picker", v.Text)
	}
	if len(s.Sessions().Cart(testUserID)) != 0 {
		t.Error("cart gained a line without a selection")
	}
}

func TestEmptyCatalogShowsPlaceholder(t *testing.T) {
	empty := catalog.Document{Items: map[string]string{}}
	s, _, _ := newTestShop(t, &empty)

	if v := s.Menu(); v.Text != textMenuEmpty {
		t.Errorf("Menu = %q", v.Text)
	}
	if v := s.Promotions(); v.Text != textPromoEmpty {
		t.Errorf("Promotions = %q", v.Text)
	}
	if v := s.NewArrivals(); v.Text != textNewsEmpty {
		t.Errorf("NewArrivals = %q", v.Text)
	}
	if v := s.StartOrder(testUserID); v.Text != textMenuEmpty {
		t.Errorf("StartOrder = %q", v.Text)
	}
}

func TestCheckoutRequiresCart(t *testing.T) {
	s, _, _ := newTestShop(t, nil)
	v := s.Checkout(testUserID)
	if v.Text != textCartEmpty {
		t.Errorf("Checkout on empty cart = %q", v.Text)
	}
	if s.Sessions().Pending(testUserID) != session.PendingNone {
		t.Error("pending set despite empty cart")
	}
}

func TestCheckoutAndContactFinalize(t *testing.T) {
	s, _, _ := newTestShop(t, nil)
	ctx := context.Background()

	s.PickItem(testUserID, "IPA")
	s.PickVolume(testUserID, "1л")
	s.PickItem(testUserID, "Лагер")
	s.PickVolume(testUserID, "2л")

	v := s.Checkout(testUserID)
	if v.Text != textPhonePrompt || !v.NewMessage {
		t.Fatalf("Checkout view = %+v", v)
	}
	if s.Sessions().Pending(testUserID) != session.PendingPhone {
		t.Fatal("pending != PendingPhone after checkout")
	}

	view, notice := s.HandleContact(testUserID, testUserName, "+380000000000")
	if view.Text != textOrderDone {
		t.Errorf("confirmation = %q", view.Text)
	}
	if notice == nil {
		t.Fatal("no operator notice")
	}
	if notice.ChatID != testAdminID {
		t.Errorf("notice chat = %d, want %d", notice.ChatID, testAdminID)
	}
	for _, want := range []string{"IPA (1л)", "Лагер (2л)", "+380000000000", testUserName} {
		if !strings.Contains(notice.Text, want) {
			t.Errorf("notice missing %q:\n%s", want, notice.Text)
		}
	}

	// Session fully cleared: cart is empty, phone flow disarmed.
	if got := s.Sessions().Snapshot(testUserID); len(got.Cart) != 0 || got.Pending != session.PendingNone || got.Phone != "" {
		t.Errorf("session after finalize = %+v", got)
	}
	if _, n := s.HandleText(ctx, testUserID, testUserName, "+380000000000"); n != nil {
		t.Error("second phone produced another notice")
	}
}

func TestPhoneAsPlainText(t *testing.T) {
	s, _, _ := newTestShop(t, nil)
	s.PickItem(testUserID, "IPA")
	s.PickVolume(testUserID, "0.5л")
	s.Checkout(testUserID)

	view, notice := s.HandleText(context.Background(), testUserID, testUserName, " +380501234567 ")
	if view.Text != textOrderDone {
		t.Errorf("confirmation = %q", view.Text)
	}
	if notice == nil || !strings.Contains(notice.Text, "+380501234567") {
		t.Errorf("notice = %+v, want trimmed phone", notice)
	}
}

func TestContactOutsideCheckoutIgnored(t *testing.T) {
	s, _, _ := newTestShop(t, nil)
	view, notice := s.HandleContact(testUserID, testUserName, "+380000000000")
	if view.Text != "" || notice != nil {
		t.Errorf("unsolicited contact produced view=%+v notice=%+v", view, notice)
	}
}

func TestTextWithNothingPendingIgnored(t *testing.T) {
	s, _, _ := newTestShop(t, nil)
	view, notice := s.HandleText(context.Background(), testUserID, testUserName, "привіт")
	if view.Text != "" || notice != nil {
		t.Errorf("stray text produced view=%+v notice=%+v", view, notice)
	}
}

func TestAdminAddItemParsesFirstEquals(t *testing.T) {
	s, store, path := newTestShop(t, nil)
	ctx := context.Background()

	s.AdminPromptAddItem(testAdminID)
	v, _ := s.HandleText(ctx, testAdminID, "op", "Stout=70 грн/л, акція=зі знижкою")
	if !strings.Contains(v.Text, "Stout") {
		t.Fatalf("save view = %q", v.Text)
	}

	price, ok := store.Item("Stout")
	if !ok || price != "70 грн/л, акція=зі знижкою" {
		t.Errorf("Stout price = %q, %v", price, ok)
	}
	if s.Sessions().Pending(testAdminID) != session.PendingNone {
		t.Error("pending not cleared after successful add")
	}

	// Persisted synchronously.
	reread, found, err := catalog.NewFileStore(path).Read(ctx)
	if err != nil || !found {
		t.Fatalf("reread: %v found=%v", err, found)
	}
	if reread.Items["Stout"] != "70 грн/л, акція=зі знижкою" {
		t.Error("item not persisted")
	}
}

func TestAdminAddItemMalformedKeepsPending(t *testing.T) {
	s, store, _ := newTestShop(t, nil)
	ctx := context.Background()

	s.AdminPromptAddItem(testAdminID)
	before := len(store.Snapshot().Items)

	v, _ := s.HandleText(ctx, testAdminID, "op", "Stout")
	if v.Text != textBadItemInput {
		t.Errorf("view = %q, want corrective prompt", v.Text)
	}
	if len(store.Snapshot().Items) != before {
		t.Error("catalog mutated by malformed input")
	}
	if s.Sessions().Pending(testAdminID) != session.PendingAdminAddItem {
		t.Error("pending cleared by malformed input")
	}
}

func TestAdminBoards(t *testing.T) {
	s, store, _ := newTestShop(t, nil)
	ctx := context.Background()

	s.AdminPromptAddPromo(testAdminID)
	s.HandleText(ctx, testAdminID, "op", "-20% на IPA")
	s.AdminPromptAddNew(testAdminID)
	s.HandleText(ctx, testAdminID, "op", "Новий стаут")

	doc := store.Snapshot()
	if len(doc.Promotions) != 1 || doc.Promotions[0] != "-20% на IPA" {
		t.Errorf("promotions = %v", doc.Promotions)
	}
	if len(doc.NewArrivals) != 1 || doc.NewArrivals[0] != "Новий стаут" {
		t.Errorf("new arrivals = %v", doc.NewArrivals)
	}

	// Stale index after a concurrent edit is a silent no-op.
	s.AdminDeleteBoardAt(ctx, testAdminID, boardPromotions, 4)
	if len(store.Snapshot().Promotions) != 1 {
		t.Error("out-of-range delete mutated the board")
	}
	s.AdminDeleteBoardAt(ctx, testAdminID, boardPromotions, 0)
	if len(store.Snapshot().Promotions) != 0 {
		t.Error("in-range delete did not remove the entry")
	}
}

func TestAdminDeleteItemByName(t *testing.T) {
	s, store, _ := newTestShop(t, nil)
	ctx := context.Background()

	if v := s.AdminDeleteItems(testAdminID); v.Text != textPickDelete {
		t.Fatalf("picker = %q", v.Text)
	}

	v := s.AdminDeleteItem(ctx, testAdminID, "IPA")
	if _, ok := store.Item("IPA"); ok {
		t.Error("IPA still present after delete")
	}
	if v.Text != textPickDelete {
		t.Errorf("view after delete = %q, want refreshed picker", v.Text)
	}

	// Deleting an absent name is a silent no-op.
	before := len(store.Snapshot().Items)
	v = s.AdminDeleteItem(ctx, testAdminID, "IPA")
	if len(store.Snapshot().Items) != before {
		t.Error("absent-name delete mutated the catalog")
	}
	if v.Text != textPickDelete {
		t.Errorf("view after no-op delete = %q", v.Text)
	}
}

func TestNonOperatorAdminTokensDropSilently(t *testing.T) {
	s, store, _ := newTestShop(t, nil)
	ctx := context.Background()
	before := len(store.Snapshot().Items)

	views := []View{
		s.AdminPanel(testUserID),
		s.AdminPromptAddItem(testUserID),
		s.AdminPromptAddPromo(testUserID),
		s.AdminPromptAddNew(testUserID),
		s.AdminDeleteItems(testUserID),
		s.AdminDeleteItem(ctx, testUserID, "IPA"),
		s.AdminDeleteBoard(testUserID, boardPromotions),
		s.AdminDeleteBoardAt(ctx, testUserID, boardPromotions, 0),
	}
	for i, v := range views {
		if v.Text != "" || v.Markup != nil {
			t.Errorf("admin view %d leaked to non-operator: %+v", i, v)
		}
	}
	if len(store.Snapshot().Items) != before {
		t.Error("catalog mutated by non-operator")
	}
	if s.Sessions().Pending(testUserID) != session.PendingNone {
		t.Error("pending armed for non-operator")
	}
}

func TestHomeKeepsCartClearsPending(t *testing.T) {
	s, _, _ := newTestShop(t, nil)

	s.PickItem(testUserID, "IPA")
	s.PickVolume(testUserID, "1л")
	s.Checkout(testUserID)

	v := s.Home(testUserID)
	if v.Text != textHome {
		t.Errorf("Home = %q", v.Text)
	}
	if s.Sessions().Pending(testUserID) != session.PendingNone {
		t.Error("pending survived Home")
	}
	if len(s.Sessions().Cart(testUserID)) != 1 {
		t.Error("cart lost on Home")
	}
}

func TestStartResetsEverything(t *testing.T) {
	s, _, _ := newTestShop(t, nil)
	s.PickItem(testUserID, "IPA")
	s.PickVolume(testUserID, "1л")
	s.Checkout(testUserID)

	v := s.Start(testUserID)
	if !v.NewMessage || v.Text != textHome {
		t.Errorf("Start view = %+v", v)
	}
	snap := s.Sessions().Snapshot(testUserID)
	if len(snap.Cart) != 0 || snap.Pending != session.PendingNone {
		t.Errorf("session after /start = %+v", snap)
	}
}

func TestHomeShowsAdminEntryOnlyToOperator(t *testing.T) {
	s, _, _ := newTestShop(t, nil)

	hasAdminBtn := func(v View) bool {
		for _, row := range v.Markup.InlineKeyboard {
			for _, btn := range row {
				if strings.Contains(btn.Text, "Адмін") {
					return true
				}
			}
		}
		return false
	}

	if hasAdminBtn(s.Home(testUserID)) {
		t.Error("admin entry shown to customer")
	}
	if !hasAdminBtn(s.Home(testAdminID)) {
		t.Error("admin entry missing for operator")
	}
}
