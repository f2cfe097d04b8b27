package session

import (
	"sync"
	"testing"
)

func TestCartIsolationAndCopy(t *testing.T) {
	m := NewManager()
	m.AppendCart(1, "IPA 0.5л — 60 грн/л")
	m.AppendCart(1, "Лагер 1л — 50 грн/л")
	m.AppendCart(2, "Пшеничне 2л — 55 грн/л")

	cart := m.Cart(1)
	if len(cart) != 2 {
		t.Fatalf("cart(1) = %v", cart)
	}
	if len(m.Cart(2)) != 1 {
		t.Fatalf("cart(2) = %v", m.Cart(2))
	}

	cart[0] = "mutated"
	if m.Cart(1)[0] == "mutated" {
		t.Error("Cart returned a live reference")
	}
}

func TestPendingReplacesPrevious(t *testing.T) {
	m := NewManager()
	m.SetPending(1, PendingAdminAddItem)
	m.SetPending(1, PendingPhone)
	if got := m.Pending(1); got != PendingPhone {
		t.Errorf("Pending = %v, want PendingPhone", got)
	}
	if !m.InProgress(1) {
		t.Error("InProgress = false")
	}
	if m.InProgress(2) {
		t.Error("InProgress for unknown user = true")
	}
}

func TestResetFlowKeepsCart(t *testing.T) {
	m := NewManager()
	m.AppendCart(1, "IPA 0.5л — 60 грн/л")
	m.SetPending(1, PendingPhone)
	m.SetSelection(1, "IPA")

	m.ResetFlow(1)

	if m.Pending(1) != PendingNone {
		t.Error("pending survived ResetFlow")
	}
	if m.Selection(1) != "" {
		t.Error("selection survived ResetFlow")
	}
	if len(m.Cart(1)) != 1 {
		t.Error("cart lost on ResetFlow")
	}
}

func TestClearDropsEverything(t *testing.T) {
	m := NewManager()
	m.AppendCart(1, "x")
	m.SetPending(1, PendingPhone)
	m.SetPhone(1, "+380501234567")

	m.Clear(1)

	s := m.Snapshot(1)
	if len(s.Cart) != 0 || s.Pending != PendingNone || s.Phone != "" {
		t.Errorf("session after Clear = %+v", s)
	}
}

func TestConcurrentAppend(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.AppendCart(7, "line")
		}()
	}
	wg.Wait()
	if got := len(m.Cart(7)); got != 50 {
		t.Errorf("cart size = %d, want 50", got)
	}
}
