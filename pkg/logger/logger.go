package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

func InitLogger() *zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}

	logger := zerolog.New(consoleWriter).
		With().
		Timestamp().
		Caller().
		Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.DefaultContextLogger = &logger
	return &logger
}

// SetLevel applies a configured level name. An unknown name leaves the
// current level untouched.
func SetLevel(level string) {
	lv, err := zerolog.ParseLevel(level)
	if err != nil || lv == zerolog.NoLevel {
		return
	}
	zerolog.SetGlobalLevel(lv)
}

func Logger(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
