package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/VladPetriv/flastel/pkg/models"
)

// Dispatch invokes the handler that matches the update.
// Errors returned by handlers are wrapped and returned, unmatched updates are dropped.
func (r *Router) Dispatch(ctx context.Context, update *models.Update) error {
	logger := r.logger.With().Int("updateID", update.ID).Logger()

	switch update.Kind() {
	case models.UpdateKindSuccessfulPayment:
		return r.dispatchSuccessfulPayment(ctx, update.Message)
	case models.UpdateKindPreCheckoutQuery:
		return r.dispatchPreCheckout(ctx, update.PreCheckoutQuery)
	case models.UpdateKindCallbackQuery:
		return r.dispatchCallback(ctx, update.CallbackQuery)
	case models.UpdateKindMessage:
		if update.Message.IsCommand() {
			return r.dispatchCommand(ctx, update.Message)
		}

		return r.dispatchMessage(ctx, update.Message)
	default:
		logger.Debug().Msg("skipped unsupported update")
		return nil
	}
}

func (r *Router) dispatchSuccessfulPayment(ctx context.Context, msg *models.Message) error {
	payment := msg.SuccessfulPayment
	key := PaymentKey{Currency: payment.Currency, Amount: payment.TotalAmount}

	r.registry.mu.RLock()
	handler, ok := r.registry.successfulPayments[key]
	r.registry.mu.RUnlock()

	r.logger.Info().
		Str("currency", payment.Currency).
		Int("totalAmount", payment.TotalAmount).
		Int64("chatID", msg.ChatID()).
		Bool("handled", ok).
		Msg("received successful payment")

	if !ok {
		return nil
	}

	err := handler(ctx, msg)
	if err != nil {
		return fmt.Errorf("handle successful payment %s %d: %w", key.Currency, key.Amount, err)
	}

	return nil
}

func (r *Router) dispatchPreCheckout(ctx context.Context, query *models.PreCheckoutQuery) error {
	key := PaymentKey{Currency: query.Currency, Amount: query.TotalAmount}

	r.registry.mu.RLock()
	handler, ok := r.registry.preCheckout[key]
	r.registry.mu.RUnlock()

	if !ok {
		r.logger.Info().
			Str("currency", query.Currency).
			Int("totalAmount", query.TotalAmount).
			Msg("no pre-checkout handler registered")
		return nil
	}

	err := handler(ctx, query)
	if err != nil {
		return fmt.Errorf("handle pre-checkout %s %d: %w", key.Currency, key.Amount, err)
	}

	return nil
}

func (r *Router) dispatchCallback(ctx context.Context, query *models.CallbackQuery) error {
	r.registry.mu.RLock()
	handler, ok := r.registry.callbacks[query.Data]
	r.registry.mu.RUnlock()

	if !ok {
		r.logger.Info().Str("data", query.Data).Msg("no callback handler registered")
		return nil
	}

	err := handler(ctx, query)
	if err != nil {
		return fmt.Errorf("handle callback %q: %w", query.Data, err)
	}

	return nil
}

// parseCommand splits command text into the command name and its parameters.
// The "@botname" suffix used in group chats is removed from the name.
func parseCommand(text string) (string, []string) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil
	}

	command := parts[0]
	if idx := strings.Index(command, "@"); idx > 0 {
		command = command[:idx]
	}

	return command, parts[1:]
}

func (r *Router) dispatchCommand(ctx context.Context, msg *models.Message) error {
	command, params := parseCommand(msg.Text)
	logger := r.logger.With().Str("command", command).Strs("params", params).Logger()

	r.registry.mu.RLock()
	paramsCommand, hasParamsCommand := r.registry.paramCommands.get(command)
	plainHandler, hasPlainHandler := r.registry.commands.get(command)
	r.registry.mu.RUnlock()

	if hasParamsCommand && paramsCommand.allows(params) {
		logger.Debug().Msg("found command with params")

		err := paramsCommand.handler(ctx, msg, params)
		if err != nil {
			return fmt.Errorf("handle command %s with params: %w", command, err)
		}

		return nil
	}

	if !hasPlainHandler {
		logger.Info().Msg("no handler registered for command")
		return nil
	}

	logger.Debug().Msg("found command")

	err := plainHandler(ctx, msg)
	if err != nil {
		return fmt.Errorf("handle command %s: %w", command, err)
	}

	return nil
}

func (r *Router) lookupText(text string) (MessageHandler, bool) {
	handler, ok := r.registry.texts.get(text)
	if ok {
		return handler, true
	}

	for _, entry := range r.registry.textPrefixes {
		if entry.matches(text) {
			return entry.handler, true
		}
	}

	return nil, false
}

func (r *Router) lookupKind(msg *models.Message) (models.MessageKind, MessageHandler) {
	r.registry.mu.RLock()
	defer r.registry.mu.RUnlock()

	for _, kind := range models.MessageKindPriority {
		if !msg.Has(kind) {
			continue
		}

		if kind == models.KindText {
			handler, ok := r.lookupText(msg.Text)
			if ok {
				return kind, handler
			}
		}

		handler, ok := r.registry.kinds[kind]
		if ok {
			return kind, handler
		}
	}

	if r.registry.unknown != nil {
		return models.KindUnknown, r.registry.unknown
	}

	return "", nil
}

func (r *Router) dispatchMessage(ctx context.Context, msg *models.Message) error {
	kind, handler := r.lookupKind(msg)
	if handler == nil {
		r.logger.Info().
			Str("kind", string(msg.Kind())).
			Int64("chatID", msg.ChatID()).
			Msg("no handler registered for message")
		return nil
	}

	r.logger.Debug().Str("kind", string(kind)).Msg("found message handler")

	err := handler(ctx, msg)
	if err != nil {
		return fmt.Errorf("handle %s message: %w", kind, err)
	}

	return nil
}
