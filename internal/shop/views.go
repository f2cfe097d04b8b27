package shop

import (
	"fmt"
	"strings"

	"beertime/internal/catalog"
	"beertime/internal/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// View is a rendered screen: message text plus its keyboard. A zero View
// means the event was dropped and nothing should be sent. NewMessage forces
// a fresh message instead of editing the one the user tapped, which is
// required for reply keyboards (contact request, keyboard removal).
type View struct {
	Text       string
	Markup     *tele.ReplyMarkup
	NewMessage bool
}

// Notice is an out-of-band message for the operator chat.
type Notice struct {
	ChatID int64
	Text   string
}

const (
	textHome         = "🍻 *BeerTime*\nОберіть дію:"
	textMenuHeader   = "🍺 *Меню:*"
	textMenuEmpty    = "Меню поки порожнє."
	textPromoHeader  = "🔥 *Акції:*"
	textPromoEmpty   = "Акцій поки немає."
	textNewsHeader   = "🆕 *Новинки:*"
	textNewsEmpty    = "Новинок поки немає."
	textPickItem     = "Оберіть пиво:"
	textItemGone     = "⚠ Цієї позиції вже немає. Оберіть пиво:"
	textCartHeader   = "🛒 *Ваш кошик:*"
	textCartEmpty    = "🛒 Кошик порожній."
	textPhonePrompt  = "📞 Надішліть номер телефону для підтвердження замовлення:"
	textOrderDone    = "✅ Дякуємо! Замовлення прийнято."
	textAdminPanel   = "⚙ *Адмін панель*"
	textPromptItem   = "Введіть назву і ціну у форматі: Назва=Ціна"
	textPromptPromo  = "Введіть текст акції:"
	textPromptNews   = "Введіть текст новинки:"
	textBadItemInput = "⚠ Невірний формат. Надішліть у форматі: Назва=Ціна"
	textSavedFmt     = "✅ Збережено: %s"
	textDeleted      = "🗑 Видалено."
	textNothingToDel = "Видаляти нічого."
	textPickDelete   = "Оберіть позицію для видалення:"
)

func backBtn(unique string) keyboard.InlineBtn {
	return keyboard.InlineBtn{Text: "⬅️ Назад", Unique: unique}
}

func homeView(isAdmin bool) View {
	rows := [][]keyboard.InlineBtn{
		{
			{Text: "🍺 Меню", Unique: cbMenu},
			{Text: "🛒 Замовити", Unique: cbOrder},
		},
		{
			{Text: "🔥 Акції", Unique: cbPromo},
			{Text: "🆕 Новинки", Unique: cbNews},
		},
		{
			{Text: "🧺 Кошик", Unique: cbCart},
		},
	}
	if isAdmin {
		rows = append(rows, []keyboard.InlineBtn{{Text: "⚙ Адмін", Unique: cbAdmin}})
	}
	return View{Text: textHome, Markup: keyboard.InlineButtonsRows(rows...)}
}

func listView(header, empty string, lines []string) View {
	text := empty
	if len(lines) > 0 {
		text = header + "\n" + strings.Join(lines, "\n")
	}
	return View{
		Text:   text,
		Markup: keyboard.InlineButtons([]keyboard.InlineBtn{backBtn(cbHome)}),
	}
}

func menuView(doc catalog.Document) View {
	lines := make([]string, 0, len(doc.Items))
	for _, name := range doc.ItemNames() {
		lines = append(lines, fmt.Sprintf("• %s — %s", name, doc.Items[name]))
	}
	return listView(textMenuHeader, textMenuEmpty, lines)
}

func promoView(doc catalog.Document) View {
	lines := make([]string, 0, len(doc.Promotions))
	for _, p := range doc.Promotions {
		lines = append(lines, "• "+p)
	}
	return listView(textPromoHeader, textPromoEmpty, lines)
}

func newsView(doc catalog.Document) View {
	lines := make([]string, 0, len(doc.NewArrivals))
	for _, n := range doc.NewArrivals {
		lines = append(lines, "• "+n)
	}
	return listView(textNewsHeader, textNewsEmpty, lines)
}

func itemPickView(doc catalog.Document, prompt string) View {
	names := doc.ItemNames()
	if len(names) == 0 {
		return View{
			Text:   textMenuEmpty,
			Markup: keyboard.InlineButtons([]keyboard.InlineBtn{backBtn(cbHome)}),
		}
	}
	buttons := make([]keyboard.InlineBtn, 0, len(names)+1)
	for _, name := range names {
		buttons = append(buttons, keyboard.InlineBtn{Text: name, Unique: cbBeer, Data: name})
	}
	buttons = append(buttons, backBtn(cbHome))
	return View{Text: prompt, Markup: keyboard.InlineButtons(buttons)}
}

func volumePickView(item string, volumes []string) View {
	buttons := make([]keyboard.InlineBtn, 0, len(volumes))
	for _, v := range volumes {
		buttons = append(buttons, keyboard.InlineBtn{Text: v, Unique: cbVolume, Data: v})
	}
	markup := keyboard.InlineButtonsRows(buttons, []keyboard.InlineBtn{backBtn(cbOrder)})
	return View{Text: fmt.Sprintf("%s — оберіть обʼєм:", item), Markup: markup}
}

func addedView(line string) View {
	return View{
		Text: fmt.Sprintf("✅ Додано в кошик: %s", line),
		Markup: keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{
				{Text: "➕ Ще", Unique: cbOrder},
				{Text: "🧺 Кошик", Unique: cbCart},
			},
			[]keyboard.InlineBtn{backBtn(cbHome)},
		),
	}
}

func cartView(lines []string) View {
	if len(lines) == 0 {
		return View{
			Text:   textCartEmpty,
			Markup: keyboard.InlineButtons([]keyboard.InlineBtn{backBtn(cbHome)}),
		}
	}
	numbered := make([]string, len(lines))
	for i, l := range lines {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, l)
	}
	return View{
		Text: textCartHeader + "\n" + strings.Join(numbered, "\n"),
		Markup: keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{{Text: "✅ Оформити", Unique: cbCheckout}},
			[]keyboard.InlineBtn{{Text: "➕ Ще", Unique: cbOrder}, backBtn(cbHome)},
		),
	}
}

func checkoutView() View {
	return View{
		Text:       textPhonePrompt,
		Markup:     keyboard.ContactRequest("📞 Поділитися номером"),
		NewMessage: true,
	}
}

func orderAcceptedView() View {
	return View{
		Text:       textOrderDone,
		Markup:     keyboard.RemoveKeyboard(),
		NewMessage: true,
	}
}

func orderNotice(operatorChat int64, customer, phone string, lines []string) Notice {
	return Notice{
		ChatID: operatorChat,
		Text: fmt.Sprintf("📦 *Нове замовлення*\n👤 %s\n📞 %s\n\n%s",
			customer, phone, strings.Join(lines, "\n")),
	}
}

func adminPanelView() View {
	return View{
		Text: textAdminPanel,
		Markup: keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{
				{Text: "➕ Пиво", Unique: cbAdminAdd},
				{Text: "🗑 Пиво", Unique: cbAdminDel},
			},
			[]keyboard.InlineBtn{
				{Text: "➕ Акція", Unique: cbPromoAdd},
				{Text: "🗑 Акція", Unique: cbPromoDel},
			},
			[]keyboard.InlineBtn{
				{Text: "➕ Новинка", Unique: cbNewsAdd},
				{Text: "🗑 Новинка", Unique: cbNewsDel},
			},
			[]keyboard.InlineBtn{backBtn(cbHome)},
		),
	}
}

func adminPromptView(prompt string) View {
	return View{
		Text:   prompt,
		Markup: keyboard.InlineButtons([]keyboard.InlineBtn{backBtn(cbAdmin)}),
	}
}

func adminSavedView(what string) View {
	v := adminPanelView()
	v.Text = fmt.Sprintf(textSavedFmt, what) + "\n\n" + textAdminPanel
	return v
}

func adminDeletedView() View {
	v := adminPanelView()
	v.Text = textDeleted + "\n\n" + textAdminPanel
	return v
}

func adminDeleteItemsView(doc catalog.Document) View {
	names := doc.ItemNames()
	if len(names) == 0 {
		return adminEmptyDeleteView()
	}
	buttons := make([]keyboard.InlineBtn, 0, len(names)+1)
	for _, name := range names {
		buttons = append(buttons, keyboard.InlineBtn{Text: name, Unique: cbAdminDelItem, Data: name})
	}
	buttons = append(buttons, backBtn(cbAdmin))
	return View{Text: textPickDelete, Markup: keyboard.InlineButtons(buttons)}
}

func adminDeleteBoardView(entries []string, unique string) View {
	if len(entries) == 0 {
		return adminEmptyDeleteView()
	}
	buttons := make([]keyboard.InlineBtn, 0, len(entries)+1)
	for i, text := range entries {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%d. %s", i+1, truncateLabel(text, 32)),
			Unique: unique,
			Data:   fmt.Sprintf("%d", i),
		})
	}
	buttons = append(buttons, backBtn(cbAdmin))
	return View{Text: textPickDelete, Markup: keyboard.InlineButtons(buttons)}
}

func adminEmptyDeleteView() View {
	return View{
		Text:   textNothingToDel,
		Markup: keyboard.InlineButtons([]keyboard.InlineBtn{backBtn(cbAdmin)}),
	}
}

func truncateLabel(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
