package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingChat happens when message doesn't contain chat information.
	ErrMissingChat = errors.New("message chat is missing")
	// ErrMissingSender happens when message doesn't contain sender information.
	ErrMissingSender = errors.New("message sender is missing")
)

// MessageKind represents a content type of the message.
type MessageKind string

const (
	KindPhoto      MessageKind = "photo"
	KindVideo      MessageKind = "video"
	KindDocument   MessageKind = "document"
	KindAudio      MessageKind = "audio"
	KindVoice      MessageKind = "voice"
	KindContact    MessageKind = "contact"
	KindSticker    MessageKind = "sticker"
	KindLocation   MessageKind = "location"
	KindVenue      MessageKind = "venue"
	KindPoll       MessageKind = "poll"
	KindDice       MessageKind = "dice"
	KindWebAppData MessageKind = "web_app_data"
	KindGame       MessageKind = "game"
	KindText       MessageKind = "text"
	KindUnknown    MessageKind = "unknown"
)

// MessageKindPriority is the order in which message kinds are checked.
// When a message has several kinds populated the first one in this list wins.
var MessageKindPriority = []MessageKind{
	KindPhoto,
	KindVideo,
	KindDocument,
	KindAudio,
	KindVoice,
	KindContact,
	KindSticker,
	KindLocation,
	KindVenue,
	KindPoll,
	KindDice,
	KindWebAppData,
	KindGame,
	KindText,
}

// Message represents a Telegram message.
type Message struct {
	ID      int    `json:"message_id"`
	Date    int64  `json:"date"`
	Chat    *Chat  `json:"chat"`
	From    *User  `json:"from"`
	Text    string `json:"text,omitempty"`
	Caption string `json:"caption,omitempty"`

	Photo      []PhotoSize `json:"photo,omitempty"`
	Video      *Video      `json:"video,omitempty"`
	Document   *Document   `json:"document,omitempty"`
	Audio      *Audio      `json:"audio,omitempty"`
	Voice      *Voice      `json:"voice,omitempty"`
	Contact    *Contact    `json:"contact,omitempty"`
	Sticker    *Sticker    `json:"sticker,omitempty"`
	Location   *Location   `json:"location,omitempty"`
	Venue      *Venue      `json:"venue,omitempty"`
	Poll       *Poll       `json:"poll,omitempty"`
	Dice       *Dice       `json:"dice,omitempty"`
	WebAppData *WebAppData `json:"web_app_data,omitempty"`
	Game       *Game       `json:"game,omitempty"`

	SuccessfulPayment *SuccessfulPayment `json:"successful_payment,omitempty"`
}

// ParseMessage decodes raw message data.
func ParseMessage(data []byte) (*Message, error) {
	var message Message

	err := json.Unmarshal(data, &message)
	if err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}

	err = message.Validate()
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// Validate checks that message has all required fields.
func (m *Message) Validate() error {
	if m.Chat == nil {
		return ErrMissingChat
	}
	if m.From == nil {
		return ErrMissingSender
	}

	return nil
}

// ChatID returns the ID of the chat the message belongs to.
func (m *Message) ChatID() int64 {
	if m.Chat == nil {
		return 0
	}

	return m.Chat.ID
}

// IsCommand reports whether the message text is a bot command.
func (m *Message) IsCommand() bool {
	return strings.HasPrefix(m.Text, "/")
}

// Has reports whether the field of the given kind is populated.
func (m *Message) Has(kind MessageKind) bool {
	switch kind {
	case KindPhoto:
		return len(m.Photo) > 0
	case KindVideo:
		return m.Video != nil
	case KindDocument:
		return m.Document != nil
	case KindAudio:
		return m.Audio != nil
	case KindVoice:
		return m.Voice != nil
	case KindContact:
		return m.Contact != nil
	case KindSticker:
		return m.Sticker != nil
	case KindLocation:
		return m.Location != nil
	case KindVenue:
		return m.Venue != nil
	case KindPoll:
		return m.Poll != nil
	case KindDice:
		return m.Dice != nil
	case KindWebAppData:
		return m.WebAppData != nil
	case KindGame:
		return m.Game != nil
	case KindText:
		return m.Text != ""
	default:
		return false
	}
}

// Kind returns the first populated kind of the message.
func (m *Message) Kind() MessageKind {
	for _, kind := range MessageKindPriority {
		if m.Has(kind) {
			return kind
		}
	}

	return KindUnknown
}

// LargestPhoto returns the biggest available photo size or nil when message has no photo.
func (m *Message) LargestPhoto() *PhotoSize {
	if len(m.Photo) == 0 {
		return nil
	}

	largest := &m.Photo[0]
	for i := range m.Photo {
		if m.Photo[i].Width*m.Photo[i].Height > largest.Width*largest.Height {
			largest = &m.Photo[i]
		}
	}

	return largest
}

// Chat represents a Telegram chat.
type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

// CallbackQuery represents an incoming callback query from an inline keyboard button.
type CallbackQuery struct {
	ID              string   `json:"id"`
	From            *User    `json:"from"`
	Message         *Message `json:"message,omitempty"`
	InlineMessageID string   `json:"inline_message_id,omitempty"`
	ChatInstance    string   `json:"chat_instance,omitempty"`
	Data            string   `json:"data,omitempty"`
}

// ChatID returns the ID of the chat where the keyboard was shown.
func (c *CallbackQuery) ChatID() int64 {
	if c.Message == nil {
		return 0
	}

	return c.Message.ChatID()
}
