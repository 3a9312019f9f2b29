package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/tastybot/internal/config"
	"github.com/sandevgo/tastybot/internal/service/turn"
	"github.com/sandevgo/tastybot/pkg/log"
)

const baseContextKey = "base_context"

type Bot struct {
	bot    *tele.Bot
	cfg    *config.TelegramConfig
	turns  *turn.Orchestrator
	sender *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	turns *turn.Orchestrator,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:    b,
		cfg:    cfg,
		turns:  turns,
		sender: newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: restrict to the owner when one is configured
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if cfg.OwnerID != 0 && c.Sender().ID != cfg.OwnerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send("Hi! Tell me what you feel like eating and I'll find you a recipe.")
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	conversationID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	response, err := b.turns.HandleTurn(ctx, conversationID, c.Text())
	if err != nil {
		logger.Error().Err(err).Msg("turn failed")
		return c.Send("Sorry, I could not save this conversation. Please try again.")
	}

	return b.sender.sendMarkdown(ctx, c.Chat(), response, false)
}
