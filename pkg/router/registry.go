package router

import (
	"strings"
	"sync"

	"github.com/VladPetriv/flastel/pkg/models"
	"golang.org/x/text/cases"
)

// PaymentKey identifies payment handlers. Several amounts of one currency may share a handler.
type PaymentKey struct {
	Currency string
	Amount   int
}

// registerOptions holds matching policy of a single registration.
type registerOptions struct {
	caseInsensitive bool
	prefix          bool
}

// RegisterOption changes how a trigger is matched.
type RegisterOption func(*registerOptions)

// CaseSensitive makes the trigger match only the exact spelling.
func CaseSensitive() RegisterOption {
	return func(o *registerOptions) {
		o.caseInsensitive = false
	}
}

// CaseInsensitive makes the trigger match regardless of letter case.
func CaseInsensitive() RegisterOption {
	return func(o *registerOptions) {
		o.caseInsensitive = true
	}
}

// MatchPrefix makes a text trigger match every text that starts with it.
// It has no effect on commands.
func MatchPrefix() RegisterOption {
	return func(o *registerOptions) {
		o.prefix = true
	}
}

func applyOptions(defaults registerOptions, opts []RegisterOption) registerOptions {
	for _, opt := range opts {
		opt(&defaults)
	}

	return defaults
}

func fold(s string) string {
	// Caser keeps state, so a new one is needed per call.
	return cases.Fold().String(s)
}

// triggerTable maps a trigger to a value. Case-insensitive triggers are stored folded.
type triggerTable[T any] struct {
	exact  map[string]T
	folded map[string]T
}

func newTriggerTable[T any]() *triggerTable[T] {
	return &triggerTable[T]{
		exact:  make(map[string]T),
		folded: make(map[string]T),
	}
}

func (t *triggerTable[T]) set(trigger string, value T, caseInsensitive bool) {
	if !caseInsensitive {
		t.exact[trigger] = value
		return
	}

	folded := fold(trigger)
	// A later case-insensitive registration replaces older exact spellings of the same trigger.
	for key := range t.exact {
		if fold(key) == folded {
			delete(t.exact, key)
		}
	}

	t.folded[folded] = value
}

func (t *triggerTable[T]) get(trigger string) (T, bool) {
	value, ok := t.exact[trigger]
	if ok {
		return value, true
	}

	value, ok = t.folded[fold(trigger)]
	return value, ok
}

type paramsEntry struct {
	handler ParamsHandler
	allowed map[string]struct{}
}

func (p paramsEntry) allows(params []string) bool {
	for _, param := range params {
		if _, ok := p.allowed[param]; ok {
			return true
		}
	}

	return false
}

type prefixEntry struct {
	prefix          string
	caseInsensitive bool
	handler         MessageHandler
}

func (p prefixEntry) matches(text string) bool {
	if p.caseInsensitive {
		return strings.HasPrefix(fold(text), fold(p.prefix))
	}

	return strings.HasPrefix(text, p.prefix)
}

// registry holds all handler tables of the router.
type registry struct {
	mu sync.RWMutex

	commands      *triggerTable[MessageHandler]
	paramCommands *triggerTable[paramsEntry]
	kinds         map[models.MessageKind]MessageHandler

	texts        *triggerTable[MessageHandler]
	textPrefixes []prefixEntry

	preCheckout        map[PaymentKey]PreCheckoutHandler
	successfulPayments map[PaymentKey]MessageHandler

	callbacks map[string]CallbackHandler
	unknown   MessageHandler
}

func newRegistry() *registry {
	return &registry{
		commands:           newTriggerTable[MessageHandler](),
		paramCommands:      newTriggerTable[paramsEntry](),
		kinds:              make(map[models.MessageKind]MessageHandler),
		texts:              newTriggerTable[MessageHandler](),
		preCheckout:        make(map[PaymentKey]PreCheckoutHandler),
		successfulPayments: make(map[PaymentKey]MessageHandler),
		callbacks:          make(map[string]CallbackHandler),
	}
}

func normalizeCommand(command string) string {
	command = strings.TrimSpace(command)
	if !strings.HasPrefix(command, "/") {
		command = "/" + command
	}

	return command
}

// HandleCommand registers handler for the command. Commands are case-insensitive by default.
func (r *Router) HandleCommand(command string, handler MessageHandler, opts ...RegisterOption) {
	options := applyOptions(registerOptions{caseInsensitive: true}, opts)
	command = normalizeCommand(command)

	r.registry.mu.Lock()
	r.registry.commands.set(command, handler, options.caseInsensitive)
	r.registry.mu.Unlock()

	r.logger.Debug().Str("command", command).Msg("registered command handler")
}

// HandleCommandWithParams registers handler for the command that is invoked only
// when at least one of the supplied parameters is in allowed list.
func (r *Router) HandleCommandWithParams(command string, allowed []string, handler ParamsHandler, opts ...RegisterOption) {
	options := applyOptions(registerOptions{caseInsensitive: true}, opts)
	command = normalizeCommand(command)

	entry := paramsEntry{
		handler: handler,
		allowed: make(map[string]struct{}, len(allowed)),
	}
	for _, param := range allowed {
		entry.allowed[param] = struct{}{}
	}

	r.registry.mu.Lock()
	r.registry.paramCommands.set(command, entry, options.caseInsensitive)
	r.registry.mu.Unlock()

	r.logger.Debug().Str("command", command).Strs("params", allowed).Msg("registered command with params handler")
}

// HandleMessage registers handler for messages of the given kind.
func (r *Router) HandleMessage(kind models.MessageKind, handler MessageHandler) {
	r.registry.mu.Lock()
	r.registry.kinds[kind] = handler
	r.registry.mu.Unlock()

	r.logger.Debug().Str("kind", string(kind)).Msg("registered message handler")
}

// HandleText registers handler for a specific text. Texts are case-sensitive by default.
// Text handlers are checked before the generic text kind handler.
func (r *Router) HandleText(text string, handler MessageHandler, opts ...RegisterOption) {
	options := applyOptions(registerOptions{}, opts)

	r.registry.mu.Lock()
	defer r.registry.mu.Unlock()

	if !options.prefix {
		r.registry.texts.set(text, handler, options.caseInsensitive)
		r.logger.Debug().Str("text", text).Msg("registered text handler")
		return
	}

	entry := prefixEntry{prefix: text, caseInsensitive: options.caseInsensitive, handler: handler}
	for i, existing := range r.registry.textPrefixes {
		if existing.prefix == text {
			r.registry.textPrefixes[i] = entry
			return
		}
	}
	r.registry.textPrefixes = append(r.registry.textPrefixes, entry)

	r.logger.Debug().Str("prefix", text).Msg("registered text prefix handler")
}

// HandlePreCheckout registers handler for pre-checkout queries with the given currency and amounts.
func (r *Router) HandlePreCheckout(currency string, amounts []int, handler PreCheckoutHandler) {
	r.registry.mu.Lock()
	for _, amount := range amounts {
		r.registry.preCheckout[PaymentKey{Currency: currency, Amount: amount}] = handler
	}
	r.registry.mu.Unlock()

	r.logger.Debug().Str("currency", currency).Ints("amounts", amounts).Msg("registered pre-checkout handler")
}

// HandleSuccessfulPayment registers handler for successful payments with the given currency and amounts.
func (r *Router) HandleSuccessfulPayment(currency string, amounts []int, handler MessageHandler) {
	r.registry.mu.Lock()
	for _, amount := range amounts {
		r.registry.successfulPayments[PaymentKey{Currency: currency, Amount: amount}] = handler
	}
	r.registry.mu.Unlock()

	r.logger.Debug().Str("currency", currency).Ints("amounts", amounts).Msg("registered successful payment handler")
}

// HandleCallback registers handler for callback queries with the given data.
func (r *Router) HandleCallback(data string, handler CallbackHandler) {
	r.registry.mu.Lock()
	r.registry.callbacks[data] = handler
	r.registry.mu.Unlock()

	r.logger.Debug().Str("data", data).Msg("registered callback handler")
}

// HandleUnknown registers handler for messages that no other handler accepted.
func (r *Router) HandleUnknown(handler MessageHandler) {
	r.registry.mu.Lock()
	r.registry.unknown = handler
	r.registry.mu.Unlock()
}
