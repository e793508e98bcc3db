// Package keyboard builds reply markups for outgoing messages.
package keyboard

import (
	"sort"
	"strings"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoutil"
)

// Button represents an inline keyboard button. Target is either an URL or callback data.
type Button struct {
	Text   string
	Target string
}

// Options represents the keyboards that could be attached to a message.
// When both are set the inline keyboard is used.
type Options struct {
	// Inline buttons, one per row.
	Inline []Button
	// Reply keyboard rows with button labels.
	Reply [][]string
}

// IsEmpty reports whether no keyboard is requested.
func (o Options) IsEmpty() bool {
	return len(o.Inline) == 0 && len(o.Reply) == 0
}

// Build returns the reply markup for the given options or nil when there is nothing to build.
func Build(opts Options) telego.ReplyMarkup {
	if len(opts.Inline) != 0 {
		return createInlineKeyboard(opts.Inline)
	}

	if len(opts.Reply) != 0 {
		return createKeyboard(opts.Reply)
	}

	return nil
}

// FromMap converts label to target mapping into buttons sorted by label.
func FromMap(buttons map[string]string) []Button {
	result := make([]Button, 0, len(buttons))
	for text, target := range buttons {
		result = append(result, Button{Text: text, Target: target})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Text < result[j].Text
	})

	return result
}

// Pay returns an inline keyboard with a single pay button, it must be the first button of an invoice.
func Pay(text string) *telego.InlineKeyboardMarkup {
	return telegoutil.InlineKeyboard(
		telegoutil.InlineKeyboardRow(telegoutil.InlineKeyboardButton(text).WithPay()),
	)
}

func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

func createInlineKeyboard(buttons []Button) *telego.InlineKeyboardMarkup {
	rows := make([][]telego.InlineKeyboardButton, 0, len(buttons))

	for _, b := range buttons {
		button := telegoutil.InlineKeyboardButton(b.Text)

		if isURL(b.Target) {
			button = button.WithURL(b.Target)
		} else {
			button = button.WithCallbackData(b.Target)
		}

		rows = append(rows, telegoutil.InlineKeyboardRow(button))
	}

	return telegoutil.InlineKeyboard(rows...)
}

func createKeyboard(rows [][]string) *telego.ReplyKeyboardMarkup {
	convertedRows := make([][]telego.KeyboardButton, 0, len(rows))

	for _, r := range rows {
		buttons := make([]telego.KeyboardButton, 0, len(r))

		for _, b := range r {
			buttons = append(buttons, telegoutil.KeyboardButton(b))
		}

		convertedRows = append(convertedRows, buttons)
	}

	return telegoutil.Keyboard(convertedRows...).
		WithResizeKeyboard().
		WithOneTimeKeyboard()
}
