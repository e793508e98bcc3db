package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/VladPetriv/flastel/pkg/bot"
	"github.com/VladPetriv/flastel/pkg/errs"
	"github.com/VladPetriv/flastel/pkg/keyboard"
	"github.com/VladPetriv/flastel/pkg/logger"
	"github.com/VladPetriv/flastel/pkg/models"
	"github.com/VladPetriv/flastel/pkg/money"
	"github.com/VladPetriv/flastel/pkg/router"
	"github.com/google/uuid"
)

const (
	callbackAbout = "about"
	banModeSoft   = "soft"
	projectURL    = "https://github.com/VladPetriv/flastel"
)

var defaultKeyboardRows = [][]string{
	{"/help", "/buy"},
	{"hello"},
}

type handlers struct {
	logger        *logger.Logger
	api           bot.API
	price         money.Money
	providerToken string
}

type handlersOptions struct {
	Logger        *logger.Logger
	API           bot.API
	Price         money.Money
	ProviderToken string
}

func newHandlers(opts handlersOptions) *handlers {
	return &handlers{
		logger:        opts.Logger.Named("handlers"),
		api:           opts.API,
		price:         opts.Price,
		providerToken: opts.ProviderToken,
	}
}

// register binds the example bot handlers to the router.
func (h *handlers) register(r *router.Router) {
	amount := []int{int(h.price.MinorUnits())}

	r.HandleCommand("start", h.start)
	r.HandleCommand("help", h.help)
	r.HandleCommand("ban", h.ban)
	r.HandleCommandWithParams("ban", []string{banModeSoft}, h.banWithMode)
	r.HandleCommand("buy", h.buy)
	r.HandlePreCheckout(h.price.Currency(), amount, h.preCheckout)
	r.HandleSuccessfulPayment(h.price.Currency(), amount, h.successfulPayment)
	r.HandleMessage(models.KindPhoto, h.photo)
	r.HandleText("hello", h.hello, router.CaseInsensitive())
	r.HandleCallback(callbackAbout, h.about)
	r.HandleUnknown(h.unknown)
}

func (h *handlers) reply(msg *models.Message, text string) error {
	_, err := h.api.SendMessage(&bot.SendMessageOptions{
		ChatID: msg.ChatID(),
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func (h *handlers) start(_ context.Context, msg *models.Message) error {
	logger := h.logger
	logger.Debug().Int64("chatID", msg.ChatID()).Msg("got args")

	_, err := h.api.SendMessage(&bot.SendMessageOptions{
		ChatID: msg.ChatID(),
		Text:   fmt.Sprintf("Hello, %s!\nI'm an example of flastel bot.", msg.From.AllName()),
		Keyboard: keyboard.Options{
			Reply: defaultKeyboardRows,
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("send welcome message")
		return fmt.Errorf("send welcome message: %w", err)
	}

	_, err = h.api.SendMessage(&bot.SendMessageOptions{
		ChatID: msg.ChatID(),
		Text:   "Want to know more?",
		Keyboard: keyboard.Options{
			Inline: []keyboard.Button{
				{Text: "About", Target: callbackAbout},
				{Text: "Source code", Target: projectURL},
			},
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("send about message")
		return fmt.Errorf("send about message: %w", err)
	}

	logger.Info().Msg("handled start command")
	return nil
}

func (h *handlers) help(_ context.Context, msg *models.Message) error {
	text := strings.Join([]string{
		"/start - show the keyboard",
		"/buy - buy premium for " + formatPrice(h.price),
		"/ban [soft] - ban yourself",
		"Send me a photo and I'll tell its size.",
	}, "\n")

	return h.reply(msg, text)
}

func (h *handlers) ban(_ context.Context, msg *models.Message) error {
	return h.reply(msg, "You are banned. Use /ban soft if you want to come back later.")
}

func (h *handlers) banWithMode(_ context.Context, msg *models.Message, params []string) error {
	return h.reply(msg, fmt.Sprintf("You are banned in %s mode.", params[0]))
}

func (h *handlers) buy(_ context.Context, msg *models.Message) error {
	logger := h.logger

	payload := uuid.NewString()
	_, err := h.api.SendInvoice(&bot.SendInvoiceOptions{
		ChatID:        msg.ChatID(),
		Title:         "Premium",
		Description:   "One month of flastel premium",
		Payload:       payload,
		ProviderToken: h.providerToken,
		Currency:      h.price.Currency(),
		PriceLabel:    "Premium",
		Amount:        int(h.price.MinorUnits()),
	})
	if err != nil {
		logger.Error().Err(err).Msg("send invoice")
		return fmt.Errorf("send invoice: %w", err)
	}

	logger.Info().Str("payload", payload).Msg("sent invoice")
	return nil
}

func (h *handlers) preCheckout(_ context.Context, query *models.PreCheckoutQuery) error {
	logger := h.logger.With().Str("queryID", query.ID).Logger()

	err := h.api.AnswerPreCheckoutQuery(query.ID, true, "")
	if err != nil {
		logger.Error().Err(err).Msg("answer pre-checkout query")
		return fmt.Errorf("answer pre-checkout query: %w", err)
	}

	logger.Info().Str("payload", query.InvoicePayload).Msg("approved pre-checkout query")
	return nil
}

func (h *handlers) successfulPayment(_ context.Context, msg *models.Message) error {
	payment := msg.SuccessfulPayment
	h.logger.Info().
		Str("payload", payment.InvoicePayload).
		Str("chargeID", payment.TelegramPaymentChargeID).
		Msg("got successful payment")

	return h.reply(msg, "Thank you for the purchase! Premium is active now.")
}

func (h *handlers) photo(ctx context.Context, msg *models.Message) error {
	logger := h.logger

	largest := msg.LargestPhoto()
	if largest == nil {
		return errs.New("photo has no sizes")
	}

	content, err := h.api.DownloadFile(ctx, largest.FileID)
	if err != nil {
		logger.Error().Err(err).Msg("download photo")
		return fmt.Errorf("download photo: %w", err)
	}

	return h.reply(msg, fmt.Sprintf("Got your photo %dx%d, %d bytes.", largest.Width, largest.Height, len(content)))
}

func (h *handlers) hello(_ context.Context, msg *models.Message) error {
	return h.reply(msg, fmt.Sprintf("Hello, %s!", msg.From.AllName()))
}

func (h *handlers) about(_ context.Context, query *models.CallbackQuery) error {
	chatID := query.ChatID()
	if chatID == 0 {
		return errs.New("callback query without message")
	}

	_, err := h.api.SendMessage(&bot.SendMessageOptions{
		ChatID: chatID,
		Text:   "flastel routes Telegram updates to handlers.",
	})
	if err != nil {
		return fmt.Errorf("send about message: %w", err)
	}

	return nil
}

func (h *handlers) unknown(_ context.Context, msg *models.Message) error {
	return h.reply(msg, "Sorry, I don't understand. Try /help.")
}

func formatPrice(price money.Money) string {
	if price.Currency() == models.CurrencyStars {
		return price.String() + " ⭐"
	}

	return price.String() + " " + price.Currency()
}
