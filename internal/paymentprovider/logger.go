package paymentprovider

import (
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v76"
)

// slogLogger переводит логи stripe SDK в slog.
type slogLogger struct {
	log *slog.Logger
}

// NewLogger оборачивает slog.Logger в stripe.LeveledLoggerInterface.
func NewLogger(log *slog.Logger) stripe.LeveledLoggerInterface {
	return &slogLogger{log: log.With(slog.String("component", "stripe"))}
}

func (l *slogLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

func (l *slogLogger) Infof(format string, v ...interface{}) {
	l.log.Info(fmt.Sprintf(format, v...))
}

func (l *slogLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...))
}

func (l *slogLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}
