package common

import (
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"

	"github.com/simaogato/fundwise-backend/internal/config"
)

const defaultLogFile = "logs/fundwise.log"

// InitLogger builds the application logger from the logging settings
// Unknown outputs are ignored; no outputs means console only.
// If the log directory cannot be created, file logging is skipped and the
// logger falls back to the console with a warning.
func InitLogger(cfg config.LoggingConfig) arbor.ILogger {
	logger := arbor.NewLogger()
	console := false
	var fileErr error
	var filePath string

	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"console"}
	}

	for _, output := range outputs {
		switch output {
		case "console", "stdout":
			if console {
				continue
			}
			console = true
			logger = logger.WithConsoleWriter(consoleWriter())
		case "file":
			path := cfg.FilePath
			if path == "" {
				path = defaultLogFile
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				fileErr, filePath = err, path
				continue
			}
			logger = logger.WithFileWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeFile,
				FileName:   path,
				TimeFormat: "2006-01-02T15:04:05Z07:00",
			})
		}
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger = logger.WithLevelFromString(level)

	if fileErr != nil {
		if !console {
			logger = logger.WithConsoleWriter(consoleWriter())
		}
		logger.Warn().Err(fileErr).Str("path", filePath).Msg("File logging disabled: cannot create log directory")
	}
	return logger
}

func consoleWriter() models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:       models.LogWriterTypeConsole,
		Writer:     os.Stdout,
		TimeFormat: "15:04:05",
	}
}
