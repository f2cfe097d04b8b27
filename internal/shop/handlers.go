package shop

import (
	"strings"

	tg "beertime/internal/telegram"
	"beertime/internal/telegram/callbacks"
	"beertime/internal/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Register binds the dispatcher to the bot registry: commands, every
// callback unique, and the free-text and contact flows.
func Register(reg *tg.Registry, s *Shop) {
	reg.RegisterCommand("/start", tg.Command{
		Handler:     s.onStart,
		Description: "Головне меню",
	})
	reg.RegisterCommand("/admin", tg.Command{
		Handler:     s.onAdmin,
		Description: "Адмін панель",
		AdminOnly:   true,
		Hidden:      true,
	})

	cb := func(key string, h tele.HandlerFunc) {
		_ = reg.RegisterCallback(key, h)
	}

	cb(cbHome, func(c tele.Context) error {
		return respond(c, s.Home(senderID(c)))
	})
	cb(cbMenu, func(c tele.Context) error {
		return respond(c, s.Menu())
	})
	cb(cbPromo, func(c tele.Context) error {
		return respond(c, s.Promotions())
	})
	cb(cbNews, func(c tele.Context) error {
		return respond(c, s.NewArrivals())
	})
	cb(cbOrder, func(c tele.Context) error {
		return respond(c, s.StartOrder(senderID(c)))
	})
	cb(cbBeer, func(c tele.Context) error {
		return respond(c, s.PickItem(senderID(c), callbacks.Payload(c)))
	})
	cb(cbVolume, func(c tele.Context) error {
		return respond(c, s.PickVolume(senderID(c), callbacks.Payload(c)))
	})
	cb(cbCart, func(c tele.Context) error {
		return respond(c, s.Cart(senderID(c)))
	})
	cb(cbCheckout, func(c tele.Context) error {
		return respond(c, s.Checkout(senderID(c)))
	})

	cb(cbAdmin, func(c tele.Context) error {
		return respond(c, s.AdminPanel(senderID(c)))
	})
	cb(cbAdminAdd, func(c tele.Context) error {
		return respond(c, s.AdminPromptAddItem(senderID(c)))
	})
	cb(cbAdminDel, func(c tele.Context) error {
		return respond(c, s.AdminDeleteItems(senderID(c)))
	})
	cb(cbAdminDelItem, func(c tele.Context) error {
		ctx := helpers.BuildContext(c)
		return respond(c, s.AdminDeleteItem(ctx, senderID(c), callbacks.Payload(c)))
	})
	cb(cbPromoAdd, func(c tele.Context) error {
		return respond(c, s.AdminPromptAddPromo(senderID(c)))
	})
	cb(cbNewsAdd, func(c tele.Context) error {
		return respond(c, s.AdminPromptAddNew(senderID(c)))
	})
	cb(cbPromoDel, func(c tele.Context) error {
		return respond(c, s.AdminDeleteBoard(senderID(c), boardPromotions))
	})
	cb(cbNewsDel, func(c tele.Context) error {
		return respond(c, s.AdminDeleteBoard(senderID(c), boardNewArrivals))
	})
	cb(cbPromoDelAt, func(c tele.Context) error {
		idx, ok := callbacks.PayloadIndex(c)
		if !ok {
			return nil
		}
		ctx := helpers.BuildContext(c)
		return respond(c, s.AdminDeleteBoardAt(ctx, senderID(c), boardPromotions, idx))
	})
	cb(cbNewsDelAt, func(c tele.Context) error {
		idx, ok := callbacks.PayloadIndex(c)
		if !ok {
			return nil
		}
		ctx := helpers.BuildContext(c)
		return respond(c, s.AdminDeleteBoardAt(ctx, senderID(c), boardNewArrivals, idx))
	})

	reg.SetTextHandler(s.onText)
	reg.SetContactHandler(s.onContact)
}

func (s *Shop) onStart(c tele.Context) error {
	return respond(c, s.Start(senderID(c)))
}

func (s *Shop) onAdmin(c tele.Context) error {
	v := s.AdminPanel(senderID(c))
	v.NewMessage = true
	return respond(c, v)
}

func (s *Shop) onText(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	view, notice := s.HandleText(ctx, senderID(c), displayName(c.Sender()), c.Text())
	if notice != nil {
		_ = helpers.NotifyMD(c, notice.ChatID, notice.Text)
	}
	return respond(c, view)
}

func (s *Shop) onContact(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Contact == nil {
		return nil
	}
	view, notice := s.HandleContact(senderID(c), displayName(c.Sender()), msg.Contact.PhoneNumber)
	if notice != nil {
		_ = helpers.NotifyMD(c, notice.ChatID, notice.Text)
	}
	return respond(c, view)
}

// respond renders a view. Callback-triggered views edit the tapped message
// in place; NewMessage views and anything triggered by a plain message go
// out as fresh sends.
func respond(c tele.Context, v View) error {
	if v.Text == "" {
		return nil
	}
	if v.NewMessage || c.Callback() == nil {
		return helpers.SendText(c, v.Text, &tele.SendOptions{
			ParseMode:   tele.ModeMarkdown,
			ReplyMarkup: v.Markup,
		})
	}
	return helpers.EditOrSendMD(c, v.Text, v.Markup)
}

func senderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

func displayName(u *tele.User) string {
	if u == nil {
		return "Гість"
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "Гість"
}
