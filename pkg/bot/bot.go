package bot

import (
	"context"

	"github.com/VladPetriv/flastel/pkg/keyboard"
	"github.com/VladPetriv/flastel/pkg/models"
)

// API provides functionality to work with bot API.
type API interface {
	// FetchUpdates is used to get updates starting from the offset.
	FetchUpdates(ctx context.Context, offset int) ([]RawUpdate, error)
	// SendMessage is used to send text message to the chat.
	SendMessage(opts *SendMessageOptions) (*models.Message, error)
	// SendPhoto is used to send photo from local file.
	SendPhoto(opts *SendFileOptions) (*models.Message, error)
	// SendDocument is used to send document from local file.
	SendDocument(opts *SendFileOptions) (*models.Message, error)
	// SendAudio is used to send audio from local file.
	SendAudio(opts *SendFileOptions) (*models.Message, error)
	// SendVideo is used to send video from local file.
	SendVideo(opts *SendFileOptions) (*models.Message, error)
	// SendInvoice is used to send an invoice with a single price.
	SendInvoice(opts *SendInvoiceOptions) (*models.Message, error)
	// AnswerPreCheckoutQuery is used to confirm or reject the payment.
	AnswerPreCheckoutQuery(queryID string, ok bool, errorMessage string) error
	// DownloadFile is used to download the file content by its ID.
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// RawUpdate represents an update as it was received from the Bot API.
type RawUpdate struct {
	ID      int
	Payload []byte
}

// SendMessageOptions represents input structure for SendMessage method.
type SendMessageOptions struct {
	ChatID    int64
	Text      string
	ParseMode string
	Keyboard  keyboard.Options
}

// SendFileOptions represents input structure for methods that send a local file.
type SendFileOptions struct {
	ChatID    int64
	Path      string
	Caption   string
	ParseMode string
	Keyboard  keyboard.Options
}

// SendInvoiceOptions represents input structure for SendInvoice method.
type SendInvoiceOptions struct {
	ChatID      int64
	Title       string
	Description string
	// Payload is not shown to the user, it's returned back in payment updates.
	Payload string
	// ProviderToken is empty for payments in Telegram Stars.
	ProviderToken string
	Currency      string
	PriceLabel    string
	// Amount is the price in the smallest units of the currency.
	Amount int

	PhotoURL    string
	PhotoSize   int
	PhotoWidth  int
	PhotoHeight int
}
