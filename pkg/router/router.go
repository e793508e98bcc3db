// Package router routes incoming Telegram updates to registered handlers.
//
// Every update is classified once and at most one handler is invoked:
// successful payment, pre-checkout query, callback query, command, message kind
// and finally the unknown fallback.
package router

import (
	"context"

	"github.com/VladPetriv/flastel/pkg/logger"
	"github.com/VladPetriv/flastel/pkg/models"
)

// MessageHandler handles a message.
type MessageHandler func(ctx context.Context, msg *models.Message) error

// ParamsHandler handles a command message together with its parameters.
type ParamsHandler func(ctx context.Context, msg *models.Message, params []string) error

// PreCheckoutHandler handles a pre-checkout query.
type PreCheckoutHandler func(ctx context.Context, query *models.PreCheckoutQuery) error

// CallbackHandler handles a callback query.
type CallbackHandler func(ctx context.Context, query *models.CallbackQuery) error

// Router owns the handler tables and dispatches updates to them.
type Router struct {
	logger   *logger.Logger
	registry *registry
}

// Options represents input options for new instance of router.
type Options struct {
	Logger *logger.Logger
}

// New returns new instance of router.
func New(opts Options) *Router {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Router{
		logger:   log.Named("router"),
		registry: newRegistry(),
	}
}
