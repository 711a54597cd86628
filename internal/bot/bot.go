package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"qrscan_bot/internal/config"
	"qrscan_bot/internal/model"
	"qrscan_bot/internal/present"
	"qrscan_bot/internal/storage"
	"qrscan_bot/internal/worker"
)

// Replies for images that cannot be queued.
const (
	noticeQueueFull = "Too many images in progress, try again shortly."
	noticeNoQueue   = "Scanning is not available right now."
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetFileDirectURL(fileID string) (string, error)
	StopReceivingUpdates()
}

// Queue accepts images for background decoding.
type Queue interface {
	Submit(chatID int64, fileID string) (string, error)
}

// Bot is the Telegram front end: it accepts images, shows results and
// serves the scan history.
type Bot struct {
	api   telegramAPI
	store storage.Storage
	gate  *worker.Gate
	queue Queue
	cfg   *config.Config
	log   *slog.Logger
}

// New creates a Bot with the given Telegram token, storage, result gate and config.
func New(token string, store storage.Storage, gate *worker.Gate, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:   api,
		store: store,
		gate:  gate,
		cfg:   cfg,
		log:   log,
	}, nil
}

// SetQueue attaches the decode queue. It must be called before Run.
func (b *Bot) SetQueue(q Queue) {
	b.queue = q
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cb := update.CallbackQuery; cb != nil {
		if cb.From == nil || cb.Message == nil || !b.cfg.IsUserAllowed(cb.From.ID) {
			b.ack(cb.ID, "Access denied.")
			return
		}
		b.handleCallback(ctx, cb)
		return
	}

	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID
	if msg.From == nil || !b.cfg.IsUserAllowed(msg.From.ID) {
		b.reply(chatID, "Access denied.")
		return
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	case len(msg.Photo) > 0:
		// Telegram lists photo sizes smallest first.
		b.handleImage(chatID, msg.Photo[len(msg.Photo)-1].FileID)
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/"):
		b.handleImage(chatID, msg.Document.FileID)
	default:
		b.reply(chatID, "Send a photo of a QR code or barcode. Use /help for commands.")
	}
}

// SendMessage sends a text message to the given chat.
func (b *Bot) SendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

// SendResult shows the result card of a freshly recorded scan.
func (b *Bot) SendResult(chatID int64, sc *model.Scan) {
	view := present.Result(sc)
	msg := tgbotapi.NewMessage(chatID, FormatView(view))
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = cardKeyboard(cardResult, view.Actions, sc.ID)
	if _, err := b.api.Send(msg); err != nil {
		b.gate.Release(chatID)
		b.log.Error("send result", "chat_id", chatID, "scan_id", sc.ID, "error", err)
	}
}

// FileURL resolves a Telegram file ID to a download URL.
func (b *Bot) FileURL(fileID string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("get file url: %w", err)
	}
	return url, nil
}

func (b *Bot) reply(chatID int64, text string) {
	b.SendMessage(chatID, text)
}

func (b *Bot) ack(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.Error("send callback ack", "error", err)
	}
}

func (b *Bot) handleImage(chatID int64, fileID string) {
	if b.queue == nil {
		b.reply(chatID, noticeNoQueue)
		return
	}
	if b.gate.Held(chatID) {
		b.reply(chatID, worker.NoticeBusy)
		return
	}

	jobID, err := b.queue.Submit(chatID, fileID)
	if errors.Is(err, worker.ErrQueueFull) {
		b.reply(chatID, noticeQueueFull)
		return
	}
	if err != nil {
		b.log.Error("submit image", "chat_id", chatID, "error", err)
		b.reply(chatID, noticeNoQueue)
		return
	}

	b.log.Debug("image submitted", "chat_id", chatID, "job_id", jobID)
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.log.Debug("send chat action", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case cmdHistory:
		b.handleHistory(ctx, chatID, args)
	case "search":
		b.handleSearch(ctx, chatID, args)
	case cmdShow:
		b.handleShow(ctx, chatID, args)
	case "delete":
		b.handleDelete(ctx, chatID, args)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}
