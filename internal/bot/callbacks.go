package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"qrscan_bot/internal/model"
	"qrscan_bot/internal/present"
	"qrscan_bot/internal/storage"
)

const (
	cmdHistory = "history"
	cmdShow    = "show"

	// actionShow opens the card of a history entry.
	actionShow present.Action = "show"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	b.ack(cb.ID, "")

	parsed, err := ParseCallback(cb.Data)
	if err != nil {
		b.log.Debug("ignore callback", "data", cb.Data, "error", err)
		return
	}

	b.log.Info("callback",
		"card", parsed.Card,
		"action", parsed.Action,
		"id", parsed.ID,
		"chat_id", chatID,
		"user_id", cb.From.ID,
		"username", cb.From.UserName,
	)

	switch parsed.Card {
	case cardHistory:
		b.refreshHistory(ctx, chatID, cb.Message.MessageID, model.ScanQuery{Tag: parsed.Tag})
	case cardResult, cardItem:
		if parsed.Action == actionShow {
			b.handleShow(ctx, chatID, strconv.FormatInt(parsed.ID, 10))
			return
		}
		// Any button dismisses its card; only the pending card frees the gate.
		if parsed.Card == cardResult {
			b.gate.ReleaseScan(chatID, parsed.ID)
		}
		b.dismiss(chatID, cb.Message.MessageID)
		b.runAction(ctx, chatID, parsed.Action, parsed.ID)
	}
}

func (b *Bot) dismiss(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := b.api.Request(edit); err != nil {
		b.log.Debug("remove keyboard", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) runAction(ctx context.Context, chatID int64, action present.Action, id int64) {
	switch action {
	case present.ActionCancel:
		return
	case present.ActionDelete:
		b.handleDelete(ctx, chatID, strconv.FormatInt(id, 10))
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

	switch action {
	case present.ActionOpen:
		url, ok := present.OpenURL(sc)
		if !ok {
			b.reply(chatID, "This scan is not a link.")
			return
		}
		msg := tgbotapi.NewMessage(chatID, url)
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("Open", url)),
		)
		if _, err := b.api.Send(msg); err != nil {
			// Telegram only accepts http(s) buttons; fall back to plain text.
			b.log.Debug("send link button", "chat_id", chatID, "error", err)
			b.reply(chatID, url)
		}
	case present.ActionCopy, present.ActionCopyPassword:
		b.reply(chatID, present.CopyText(sc))
	case present.ActionShare:
		b.reply(chatID, present.ShareText(sc))
	}
}
