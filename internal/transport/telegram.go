package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pupkingeorgij/proofbot/internal/bot"
)

// Handler consumes one typed inbound event and returns the replies to
// render. The update loop calls it serially, so events for one user
// are never processed concurrently.
type Handler interface {
	HandleEvent(ctx context.Context, user bot.User, ev bot.Event) []bot.Reply
}

// Telegram adapts the chat transport: it converts incoming updates to
// bot events (staging media files locally on the way) and renders
// reply instructions back to the chat.
type Telegram struct {
	api         *tgbotapi.BotAPI
	mediaDir    string
	maxFileSize int64
	http        *http.Client
}

func New(token, mediaDir string, maxFileSize int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	zap.S().Infof("transport: authorized as @%s", api.Self.UserName)

	return &Telegram{
		api:         api,
		mediaDir:    mediaDir,
		maxFileSize: maxFileSize,
		http:        &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (t *Telegram) Run(ctx context.Context, handler Handler) error {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30

	updates := t.api.GetUpdatesChan(updateCfg)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			zap.S().Info("transport: update loop stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(ctx, handler, update)
		}
	}
}

func (t *Telegram) handleUpdate(ctx context.Context, handler Handler, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		t.handleCallback(ctx, handler, update.CallbackQuery)
		return
	}
	if update.Message != nil {
		t.handleMessage(ctx, handler, update.Message)
	}
}

func (t *Telegram) handleCallback(ctx context.Context, handler Handler, cq *tgbotapi.CallbackQuery) {
	if _, err := t.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		zap.S().Warnf("transport: failed to answer callback: %v", err)
	}
	if cq.Message == nil {
		return
	}

	user := makeUser(cq.From, cq.Message.Chat.ID)
	replies := handler.HandleEvent(ctx, user, bot.ActionEvent(cq.Data))
	t.send(user.ChatID, replies)
}

func (t *Telegram) handleMessage(ctx context.Context, handler Handler, msg *tgbotapi.Message) {
	user := makeUser(msg.From, msg.Chat.ID)

	var ev bot.Event
	switch {
	case msg.IsCommand():
		switch msg.Command() {
		case "start":
			ev = bot.ActionEvent(bot.ActionStart)
		case "cancel":
			ev = bot.ActionEvent(bot.ActionCancel)
		default:
			return
		}
	case len(msg.Photo) > 0:
		photo := msg.Photo[len(msg.Photo)-1]
		ev = t.stageMedia(user, photo.FileID, int64(photo.FileSize), bot.MediaImage, "jpg")
	case msg.Video != nil:
		ev = t.stageMedia(user, msg.Video.FileID, int64(msg.Video.FileSize), bot.MediaVideo, "mp4")
	case msg.Location != nil:
		ev = bot.LocationEvent(msg.Location.Latitude, msg.Location.Longitude)
	case msg.Text != "":
		ev = bot.TextEvent(msg.Text)
	default:
		return
	}

	replies := handler.HandleEvent(ctx, user, ev)
	t.send(user.ChatID, replies)
}

// stageMedia downloads the file into the staging directory. Files over
// the size cap are not downloaded at all: the event still carries the
// declared size so the state machine rejects it with a prompt.
func (t *Telegram) stageMedia(user bot.User, fileID string, size int64, kind bot.MediaKind, ext string) bot.Event {
	media := bot.StagedMedia{Kind: kind, Size: size}
	if t.maxFileSize > 0 && size > t.maxFileSize {
		return bot.MediaEvent(media)
	}

	fileURL, err := t.api.GetFileDirectURL(fileID)
	if err != nil {
		zap.S().Warnf("transport: failed to resolve file %s: %v", fileID, err)
		return bot.MediaEvent(media)
	}

	path := filepath.Join(t.mediaDir, fmt.Sprintf("%d_%s.%s", user.ID, uuid.NewString(), ext))
	if err := t.download(fileURL, path); err != nil {
		zap.S().Warnf("transport: failed to stage file %s: %v", fileID, err)
		return bot.MediaEvent(media)
	}

	media.Path = path
	return bot.MediaEvent(media)
}

func (t *Telegram) download(fileURL, path string) error {
	resp, err := t.http.Get(fileURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// PublishReport implements bot.Broadcaster: the finalized report goes
// to the company group, with the first staged photo when one exists.
func (t *Telegram) PublishReport(ctx context.Context, chatID int64, caption, photoPath string) error {
	if photoPath != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(photoPath))
		photo.Caption = caption
		if _, err := t.api.Send(photo); err != nil {
			return fmt.Errorf("failed to publish report photo: %w", err)
		}
		return nil
	}

	if _, err := t.api.Send(tgbotapi.NewMessage(chatID, caption)); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	return nil
}

func (t *Telegram) send(chatID int64, replies []bot.Reply) {
	for _, reply := range replies {
		target := reply.ChatID
		if target == 0 {
			target = chatID
		}

		msg := tgbotapi.NewMessage(target, reply.Text)
		if len(reply.Keyboard) > 0 {
			msg.ReplyMarkup = makeKeyboard(reply.Keyboard)
		}

		if _, err := t.api.Send(msg); err != nil {
			zap.S().Warnf("transport: failed to send reply to chat %d: %v", target, err)
		}
	}
}

func makeKeyboard(rows [][]bot.Button) tgbotapi.InlineKeyboardMarkup {
	keyboardRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Action))
		}
		keyboardRows = append(keyboardRows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboardRows...)
}

func makeUser(from *tgbotapi.User, chatID int64) bot.User {
	user := bot.User{ChatID: chatID}
	if from == nil {
		return user
	}
	user.ID = from.ID

	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if name == "" {
		name = from.UserName
	}
	user.DisplayName = name
	return user
}
