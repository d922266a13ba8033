// Package bot is the Telegram messaging surface: it feeds inbound attachments
// to the pipeline and renders progress by editing a single status message.
package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v3"

	"screennotes/internal/app"
	"screennotes/internal/i18n"
	"screennotes/internal/ratelimit"
	"screennotes/pkg/domain"
	"screennotes/pkg/store"
)

const (
	listLimit      = 5
	previewMaxLen  = 300
	pollTimeout    = 30 * time.Second
	runTimeout     = 3 * time.Minute
	maxUploadBytes = 10 << 20
)

// Config wires the bot's collaborators. Limiter may be nil to disable
// submission throttling.
type Config struct {
	Token    string
	Pipeline *app.App
	Store    store.Store
	Limiter  *ratelimit.FixedWindowLimiter
}

// Bot handles Telegram updates.
type Bot struct {
	tb       *tele.Bot
	pipeline *app.App
	store    store.Store
	limiter  *ratelimit.FixedWindowLimiter
}

// New builds the bot and registers all handlers.
func New(cfg Config) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	b := &Bot{tb: tb, pipeline: cfg.Pipeline, store: cfg.Store, limiter: cfg.Limiter}
	b.registerHandlers()
	return b, nil
}

// Run starts long polling and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		b.tb.Stop()
	}()
	slog.Info("telegram bot polling started")
	b.tb.Start()
	return nil
}

func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", func(c tele.Context) error {
		return c.Send(i18n.Text(b.language(c), i18n.KeyWelcome))
	})
	b.tb.Handle("/help", func(c tele.Context) error {
		return c.Send(i18n.Text(b.language(c), i18n.KeyHelp))
	})
	b.tb.Handle("/list", b.handleList)
	b.tb.Handle("/language", func(c tele.Context) error {
		return c.Send(i18n.Text(b.language(c), i18n.KeyLanguageSelection))
	})
	b.tb.Handle("/lang_ru", b.langSetter(domain.LangRU))
	b.tb.Handle("/lang_kz", b.langSetter(domain.LangKZ))
	b.tb.Handle("/lang_en", b.langSetter(domain.LangEN))

	b.tb.Handle(tele.OnPhoto, b.handlePhoto)
	b.tb.Handle(tele.OnDocument, b.handleDocument)
	b.tb.Handle(tele.OnText, func(c tele.Context) error {
		return c.Send(i18n.Text(b.language(c), i18n.KeySendImage))
	})
}

func (b *Bot) langSetter(lang domain.Language) tele.HandlerFunc {
	return func(c tele.Context) error {
		if err := b.store.SetUserLanguage(ownerID(c), lang); err != nil {
			slog.Error("set user language", "err", err)
			return c.Send(i18n.Text(b.language(c), i18n.KeyErrGeneric))
		}
		return c.Send(i18n.Text(lang, i18n.KeyLanguageChanged))
	}
}

func (b *Bot) handlePhoto(c tele.Context) error {
	photo := c.Message().Photo
	if photo == nil {
		return c.Send(i18n.Text(b.language(c), i18n.KeySendImage))
	}
	data, err := b.download(&photo.File)
	if err != nil {
		slog.Error("download photo", "err", err)
		return c.Send(i18n.Text(b.language(c), i18n.KeyErrGeneric))
	}
	return b.process(c, data, domain.MediaImage)
}

func (b *Bot) handleDocument(c tele.Context) error {
	doc := c.Message().Document
	lang := b.language(c)
	if doc == nil || doc.MIME != "application/pdf" {
		return c.Send(i18n.Text(lang, i18n.KeyErrUnsupportedMedia))
	}
	if doc.FileSize > maxUploadBytes {
		return c.Send(i18n.Text(lang, i18n.KeyErrUnsupportedMedia))
	}
	data, err := b.download(&doc.File)
	if err != nil {
		slog.Error("download document", "err", err)
		return c.Send(i18n.Text(lang, i18n.KeyErrGeneric))
	}
	return b.process(c, data, domain.MediaPDF)
}

// process runs the pipeline for one attachment, editing a single status
// message as stages progress and replacing it with the terminal result.
func (b *Bot) process(c tele.Context, data []byte, kind domain.MediaKind) error {
	lang := b.language(c)
	if !b.limiter.Allow(ownerID(c)) {
		return c.Send(i18n.Text(lang, i18n.KeyErrRateLimited))
	}
	status, err := b.tb.Send(c.Chat(), i18n.Text(lang, i18n.KeyProcessing))
	if err != nil {
		return err
	}
	edit := func(text string) {
		if _, err := b.tb.Edit(status, text); err != nil {
			slog.Debug("edit status message", "err", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	note, err := b.pipeline.Run(ctx, domain.Attachment{
		Data:       data,
		Kind:       kind,
		OwnerID:    ownerID(c),
		ReceivedAt: time.Now().UTC(),
	}, func(stage app.Stage) {
		if key, ok := stageKeys[stage]; ok {
			edit(i18n.Text(lang, key))
		}
	})
	if err != nil {
		slog.Warn("pipeline run failed", "owner", ownerID(c), "err", err)
		edit(i18n.Text(lang, failureKey(err)))
		return nil
	}
	edit(renderSuccess(lang, note))
	return nil
}

func (b *Bot) handleList(c tele.Context) error {
	lang := b.language(c)
	notes, err := b.store.ListRecentNotes(ownerID(c), listLimit)
	if err != nil {
		slog.Error("list notes", "err", err)
		return c.Send(i18n.Text(lang, i18n.KeyErrFetchingNotes))
	}
	if len(notes) == 0 {
		return c.Send(i18n.Text(lang, i18n.KeyNoNotes))
	}
	return c.Send(renderList(lang, notes))
}

func (b *Bot) download(file *tele.File) ([]byte, error) {
	rc, err := b.tb.File(file)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) > maxUploadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", maxUploadBytes)
	}
	return data, nil
}

// language resolves the sender's preferred language, defaulting when the
// lookup fails or nothing is stored.
func (b *Bot) language(c tele.Context) domain.Language {
	lang, ok, err := b.store.GetUserLanguage(ownerID(c))
	if err != nil {
		slog.Warn("get user language", "err", err)
		return domain.DefaultLanguage
	}
	if !ok || !domain.ValidLanguage(lang) {
		return domain.DefaultLanguage
	}
	return lang
}

func ownerID(c tele.Context) string {
	return strconv.FormatInt(c.Sender().ID, 10)
}
