package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/VladPetriv/flastel/pkg/keyboard"
	"github.com/VladPetriv/flastel/pkg/logger"
	"github.com/VladPetriv/flastel/pkg/models"
	"github.com/VladPetriv/flastel/pkg/money"
	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoutil"
	"resty.dev/v3"
)

// DefaultAPIServer is the address of the public Bot API server.
const DefaultAPIServer = "https://api.telegram.org"

// allowedUpdates lists the update types the router is able to dispatch.
var allowedUpdates = []string{"message", "pre_checkout_query", "callback_query"}

// Telegram is the Bot API client.
type Telegram struct {
	api         *telego.Bot
	files       *resty.Client
	token       string
	pollTimeout int
}

var _ API = (*Telegram)(nil)

// TelegramOptions represents options that required for creating new instance of telegram API.
type TelegramOptions struct {
	// Token represents telegram bot token.
	Token string
	// APIServer represents the Bot API server address. DefaultAPIServer is used when empty.
	APIServer string
	// PollTimeout represents long polling timeout in seconds.
	PollTimeout int
	Logger      *logger.Logger
}

// NewTelegram creates a new instance of telegram API.
func NewTelegram(opts TelegramOptions) (*Telegram, error) {
	apiServer := opts.APIServer
	if apiServer == "" {
		apiServer = DefaultAPIServer
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	api, err := telego.NewBot(
		opts.Token,
		telego.WithAPIServer(apiServer),
		telego.WithLogger(newTelegoLogger(log.Named("telego"), opts.Token)),
	)
	if err != nil {
		return nil, fmt.Errorf("init bot instance: %w", err)
	}

	return &Telegram{
		api:         api,
		files:       resty.New().SetBaseURL(apiServer),
		token:       opts.Token,
		pollTimeout: opts.PollTimeout,
	}, nil
}

// Close releases the resources held by the client.
func (t *Telegram) Close() error {
	return t.files.Close()
}

// BotID returns the ID of the bot the token belongs to.
func (t *Telegram) BotID() (int64, error) {
	me, err := t.api.GetMe()
	if err != nil {
		return 0, fmt.Errorf("get me: %w", err)
	}

	return me.ID, nil
}

func (t *Telegram) FetchUpdates(ctx context.Context, offset int) ([]RawUpdate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	updates, err := t.api.GetUpdates(&telego.GetUpdatesParams{
		Offset:         offset,
		Timeout:        t.pollTimeout,
		AllowedUpdates: allowedUpdates,
	})
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}

	result := make([]RawUpdate, 0, len(updates))
	for _, update := range updates {
		rawUpdateData, err := json.Marshal(update)
		if err != nil {
			return nil, fmt.Errorf("marshal telegram update %d: %w", update.UpdateID, err)
		}

		result = append(result, RawUpdate{ID: update.UpdateID, Payload: rawUpdateData})
	}

	return result, nil
}

func (t *Telegram) SendMessage(opts *SendMessageOptions) (*models.Message, error) {
	message := telegoutil.Message(telegoutil.ID(opts.ChatID), opts.Text).
		WithParseMode(opts.ParseMode).
		WithReplyMarkup(keyboard.Build(opts.Keyboard))

	sent, err := t.api.SendMessage(message)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	return convertMessage(sent)
}

func (t *Telegram) SendPhoto(opts *SendFileOptions) (*models.Message, error) {
	return t.sendFile(opts, func(file telego.InputFile, markup telego.ReplyMarkup) (*telego.Message, error) {
		return t.api.SendPhoto(
			telegoutil.Photo(telegoutil.ID(opts.ChatID), file).
				WithCaption(opts.Caption).
				WithParseMode(opts.ParseMode).
				WithReplyMarkup(markup),
		)
	})
}

func (t *Telegram) SendDocument(opts *SendFileOptions) (*models.Message, error) {
	return t.sendFile(opts, func(file telego.InputFile, markup telego.ReplyMarkup) (*telego.Message, error) {
		return t.api.SendDocument(
			telegoutil.Document(telegoutil.ID(opts.ChatID), file).
				WithCaption(opts.Caption).
				WithParseMode(opts.ParseMode).
				WithReplyMarkup(markup),
		)
	})
}

func (t *Telegram) SendAudio(opts *SendFileOptions) (*models.Message, error) {
	return t.sendFile(opts, func(file telego.InputFile, markup telego.ReplyMarkup) (*telego.Message, error) {
		return t.api.SendAudio(
			telegoutil.Audio(telegoutil.ID(opts.ChatID), file).
				WithCaption(opts.Caption).
				WithParseMode(opts.ParseMode).
				WithReplyMarkup(markup),
		)
	})
}

func (t *Telegram) SendVideo(opts *SendFileOptions) (*models.Message, error) {
	return t.sendFile(opts, func(file telego.InputFile, markup telego.ReplyMarkup) (*telego.Message, error) {
		return t.api.SendVideo(
			telegoutil.Video(telegoutil.ID(opts.ChatID), file).
				WithCaption(opts.Caption).
				WithParseMode(opts.ParseMode).
				WithReplyMarkup(markup),
		)
	})
}

type sendFileFunc func(file telego.InputFile, markup telego.ReplyMarkup) (*telego.Message, error)

func (t *Telegram) sendFile(opts *SendFileOptions, send sendFileFunc) (*models.Message, error) {
	file, err := os.Open(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	sent, err := send(telegoutil.File(file), keyboard.Build(opts.Keyboard))
	if err != nil {
		return nil, fmt.Errorf("send file %s: %w", file.Name(), err)
	}

	return convertMessage(sent)
}

// PayButtonText returns the label of the invoice pay button.
func PayButtonText(currency string, amount int) string {
	if currency == models.CurrencyStars {
		return fmt.Sprintf("⭐Pay %d", amount)
	}

	return fmt.Sprintf("Pay %s %s", money.NewFromMinorUnits(int64(amount), currency), currency)
}

func (t *Telegram) SendInvoice(opts *SendInvoiceOptions) (*models.Message, error) {
	params := &telego.SendInvoiceParams{
		ChatID:         telegoutil.ID(opts.ChatID),
		Title:          opts.Title,
		Description:    opts.Description,
		Payload:        opts.Payload,
		ProviderToken:  opts.ProviderToken,
		Currency:       opts.Currency,
		Prices:         []telego.LabeledPrice{{Label: opts.PriceLabel, Amount: opts.Amount}},
		StartParameter: "payment_start",
		ReplyMarkup:    keyboard.Pay(PayButtonText(opts.Currency, opts.Amount)),
	}

	if opts.PhotoURL != "" {
		params.PhotoURL = opts.PhotoURL
		params.PhotoSize = opts.PhotoSize
		params.PhotoWidth = opts.PhotoWidth
		params.PhotoHeight = opts.PhotoHeight
	}

	sent, err := t.api.SendInvoice(params)
	if err != nil {
		return nil, fmt.Errorf("send invoice: %w", err)
	}

	return convertMessage(sent)
}

func (t *Telegram) AnswerPreCheckoutQuery(queryID string, ok bool, errorMessage string) error {
	err := t.api.AnswerPreCheckoutQuery(&telego.AnswerPreCheckoutQueryParams{
		PreCheckoutQueryID: queryID,
		Ok:                 ok,
		ErrorMessage:       errorMessage,
	})
	if err != nil {
		return fmt.Errorf("answer pre-checkout query: %w", err)
	}

	return nil
}

// SetWebhook registers host/<token> as the webhook url. Updates are not received by this client then.
func (t *Telegram) SetWebhook(host string) error {
	err := t.api.SetWebhook(&telego.SetWebhookParams{
		URL: host + "/" + t.token,
	})
	if err != nil {
		return fmt.Errorf("set webhook url: %w", err)
	}

	return nil
}

// DeleteWebhook removes the webhook, it's required before polling updates.
func (t *Telegram) DeleteWebhook() error {
	err := t.api.DeleteWebhook(&telego.DeleteWebhookParams{})
	if err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}

	return nil
}

func (t *Telegram) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := t.api.GetFile(&telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	response, err := t.files.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/file/bot%s/%s", t.token, file.FilePath))
	if err != nil {
		return nil, fmt.Errorf("send download file request: %w", err)
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("could not download file(statusCode: %d)", response.StatusCode())
	}

	return response.Bytes(), nil
}

func convertMessage(message *telego.Message) (*models.Message, error) {
	if message == nil {
		return nil, nil
	}

	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("marshal telegram message: %w", err)
	}

	var result models.Message
	err = json.Unmarshal(data, &result)
	if err != nil {
		return nil, fmt.Errorf("unmarshal telegram message: %w", err)
	}

	return &result, nil
}
