package models

import (
	"encoding/json"
	"fmt"
)

// UpdateKind represents the type of an incoming update.
type UpdateKind string

const (
	// UpdateKindSuccessfulPayment represents a message that carries a completed payment.
	UpdateKindSuccessfulPayment UpdateKind = "successful_payment"
	// UpdateKindPreCheckoutQuery represents a pre-checkout query that must be answered before the payment.
	UpdateKindPreCheckoutQuery UpdateKind = "pre_checkout_query"
	// UpdateKindCallbackQuery represents a press on an inline keyboard callback button.
	UpdateKindCallbackQuery UpdateKind = "callback_query"
	// UpdateKindMessage represents a regular message.
	UpdateKindMessage UpdateKind = "message"
	// UpdateKindUnknown represents an update type the library doesn't handle.
	UpdateKindUnknown UpdateKind = "unknown"
)

// Update represents one event delivered by the Bot API.
type Update struct {
	// ID is the update sequence number, the polling offset is derived from it.
	ID int `json:"update_id"`

	Message          *Message          `json:"message,omitempty"`
	PreCheckoutQuery *PreCheckoutQuery `json:"pre_checkout_query,omitempty"`
	CallbackQuery    *CallbackQuery    `json:"callback_query,omitempty"`
}

// Kind returns the kind of the update.
func (u *Update) Kind() UpdateKind {
	switch {
	case u.Message != nil && u.Message.SuccessfulPayment != nil:
		return UpdateKindSuccessfulPayment
	case u.PreCheckoutQuery != nil:
		return UpdateKindPreCheckoutQuery
	case u.CallbackQuery != nil:
		return UpdateKindCallbackQuery
	case u.Message != nil:
		return UpdateKindMessage
	default:
		return UpdateKindUnknown
	}
}

// ParseUpdate decodes raw update data received from the Bot API.
// Absent optional fields are left with zero values, a message without chat or sender is rejected.
func ParseUpdate(data []byte) (*Update, error) {
	var update Update

	err := json.Unmarshal(data, &update)
	if err != nil {
		return nil, fmt.Errorf("unmarshal update: %w", err)
	}

	if update.Message != nil {
		err = update.Message.Validate()
		if err != nil {
			return &update, fmt.Errorf("validate update %d message: %w", update.ID, err)
		}
	}

	return &update, nil
}
