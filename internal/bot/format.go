package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"qrscan_bot/internal/model"
	"qrscan_bot/internal/present"
)

const (
	historyLimit     = 30
	historyLineWidth = 60
	itemButtonsInRow = 5
	noHistory        = present.NoHistory
)

// FormatView renders a card as message text.
func FormatView(v present.View) string {
	if v.Body == "" {
		return v.Title
	}
	return v.Title + "\n\n" + v.Body
}

// FormatHistory formats a history listing. total is the number of scans
// stored for the chat regardless of q.
func FormatHistory(scans []model.Scan, total int, q model.ScanQuery) string {
	if total == 0 {
		return noHistory
	}

	var b strings.Builder
	b.WriteString("Scan history")
	if q.Tag != "" {
		fmt.Fprintf(&b, " [%s]", q.Tag)
	}
	if q.Search != "" {
		fmt.Fprintf(&b, " matching %q", q.Search)
	}
	b.WriteString(":\n")

	if len(scans) == 0 {
		b.WriteString("\n" + present.NoMatches)
		return b.String()
	}

	shown := scans
	if len(shown) > historyLimit {
		shown = shown[:historyLimit]
	}
	for i := range shown {
		sc := &shown[i]
		fmt.Fprintf(&b, "\n#%d %s\n   %s · %s\n", sc.ID, truncate(present.DisplayDetails(sc), historyLineWidth), sc.Tag, sc.DateTime)
	}
	if len(scans) > len(shown) {
		fmt.Fprintf(&b, "\nShowing %d of %d. Narrow it down with /history <category> <text>.", len(shown), len(scans))
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}

func cardKeyboard(card string, actions []present.Action, id int64) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, a := range actions {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(a.Label(), fmt.Sprintf("%s:%s:%d", card, a, id)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func historyKeyboard(scans []model.Scan, active model.Tag) tgbotapi.InlineKeyboardMarkup {
	chips := []string{"All"}
	for _, t := range model.Tags {
		chips = append(chips, string(t))
	}

	var chipRow []tgbotapi.InlineKeyboardButton
	for _, c := range chips {
		label := c
		if strings.EqualFold(c, string(active)) || (active == "" && c == "All") {
			label = "• " + c
		}
		chipRow = append(chipRow, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s:%s:0", cardHistory, strings.ToLower(c))))
	}
	rows := [][]tgbotapi.InlineKeyboardButton{chipRow}

	if len(scans) > historyLimit {
		scans = scans[:historyLimit]
	}
	var row []tgbotapi.InlineKeyboardButton
	for _, sc := range scans {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("#%d", sc.ID), fmt.Sprintf("%s:%s:%d", cardItem, actionShow, sc.ID)))
		if len(row) == itemButtonsInRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
