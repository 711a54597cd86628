package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"qrscan_bot/internal/model"
	"qrscan_bot/internal/present"
	"qrscan_bot/internal/storage"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to QR Scan Bot!

Send a photo of a QR code or barcode and I will decode it, keep it in your
history and offer actions for it: open links, copy text, share Wi-Fi
credentials.

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Scanning:
send a photo or an image file — decode the code in it

History:
/history — show all scans, newest first
/history <category> — only text, website or wifi scans
/history <category> <text> — filter and search
/search <text> — search all scans
/show <id> — actions for one scan
/delete <id> — delete a scan

A result card blocks new scans until you press one of its buttons.`)
}

func (b *Bot) handleHistory(ctx context.Context, chatID int64, args string) {
	b.sendHistory(ctx, chatID, ParseHistoryArgs(args))
}

func (b *Bot) handleSearch(ctx context.Context, chatID int64, args string) {
	if args == "" {
		b.reply(chatID, "Usage: /search <text>")
		return
	}
	b.sendHistory(ctx, chatID, model.ScanQuery{Search: args})
}

func (b *Bot) sendHistory(ctx context.Context, chatID int64, q model.ScanQuery) {
	text, markup, err := b.history(ctx, chatID, q)
	if err != nil {
		b.log.Error("load history", "chat_id", chatID, "error", err)
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send history", "chat_id", chatID, "error", err)
	}
}

// refreshHistory re-renders an existing history message in place.
func (b *Bot) refreshHistory(ctx context.Context, chatID int64, messageID int, q model.ScanQuery) {
	text, markup, err := b.history(ctx, chatID, q)
	if err != nil {
		b.log.Error("load history", "chat_id", chatID, "error", err)
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	var edit tgbotapi.EditMessageTextConfig
	if markup != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *markup)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	edit.DisableWebPagePreview = true
	if _, err := b.api.Request(edit); err != nil {
		b.log.Debug("edit history", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) history(ctx context.Context, chatID int64, q model.ScanQuery) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	total, err := b.store.CountScans(ctx, chatID)
	if err != nil {
		return "", nil, err
	}
	if total == 0 {
		return noHistory, nil, nil
	}

	scans, err := b.store.ListScans(ctx, chatID, q)
	if err != nil {
		return "", nil, err
	}
	markup := historyKeyboard(scans, q.Tag)
	return FormatHistory(scans, total, q), &markup, nil
}

func (b *Bot) handleShow(ctx context.Context, chatID int64, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /show <id>")
		return
	}

	sc, err := b.store.GetScan(ctx, chatID, id)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, fmt.Sprintf("Scan #%d not found.", id))
		return
	}
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	view := present.Item(sc)
	msg := tgbotapi.NewMessage(chatID, FormatView(view))
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = cardKeyboard(cardItem, view.Actions, sc.ID)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send scan card", "chat_id", chatID, "scan_id", sc.ID, "error", err)
	}
}

func (b *Bot) handleDelete(ctx context.Context, chatID int64, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /delete <id>")
		return
	}

	deleted, err := b.store.DeleteScan(ctx, chatID, id)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error deleting scan: %v", err))
		return
	}
	if !deleted {
		b.reply(chatID, fmt.Sprintf("Scan #%d not found.", id))
		return
	}
	b.reply(chatID, fmt.Sprintf("Scan #%d deleted.", id))
}
