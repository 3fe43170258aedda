package logger

import (
	"os"

	"github.com/rs/zerolog"
)

var Log zerolog.Logger

// Init sets up the process logger writing to stdout and logs/server.log.
func Init(env string) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		panic(err)
	}

	file, err := os.OpenFile("logs/server.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		panic(err)
	}

	multi := zerolog.MultiLevelWriter(os.Stdout, file)

	level := zerolog.InfoLevel
	if env == "development" {
		level = zerolog.DebugLevel
	}

	Log = zerolog.New(multi).Level(level).With().Timestamp().Logger()
}
