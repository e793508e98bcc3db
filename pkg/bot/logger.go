package bot

import (
	"fmt"
	"strings"

	"github.com/VladPetriv/flastel/pkg/logger"
	"github.com/mymmrac/telego"
)

// telegoLogger writes telego logs into the application logger with the bot token hidden.
type telegoLogger struct {
	logger   *logger.Logger
	replacer *strings.Replacer
}

var _ telego.Logger = (*telegoLogger)(nil)

func newTelegoLogger(log *logger.Logger, token string) *telegoLogger {
	replacer := strings.NewReplacer()
	if token != "" {
		replacer = strings.NewReplacer(token, "BOT_TOKEN")
	}

	return &telegoLogger{
		logger:   log,
		replacer: replacer,
	}
}

func (l *telegoLogger) Debugf(format string, args ...any) {
	l.logger.Debug().Msg(l.replacer.Replace(fmt.Sprintf(format, args...)))
}

func (l *telegoLogger) Errorf(format string, args ...any) {
	l.logger.Error().Msg(l.replacer.Replace(fmt.Sprintf(format, args...)))
}
