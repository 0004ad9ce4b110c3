// logger.go
package keyboardbehavior

import (
	"fmt"
	"io"
	"os"

	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/logger"
	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
)

// createDefaultLogger creates and returns a default logger instance.
func createDefaultLogger() (ports.Logger, error) {
	return logger.NewStdLogger()
}

// newConfiguredLogger creates a logger writing to "stdout", "stderr" or a
// file path. The returned closer releases the file, if one was opened.
func newConfiguredLogger(output string, jsonFormat bool) (ports.Logger, io.Closer, error) {
	var w io.Writer
	var closer io.Closer
	switch output {
	case "", "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}
	log, err := logger.NewWriterLogger(w, jsonFormat)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, nil, err
	}
	return log, closer, nil
}
