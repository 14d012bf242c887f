package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// SetupLogging routes the stdlib logger and both gin writers to stdout plus
// an append-only file under cfg.LogDir. The returned closer owns the file
// handle; close it on shutdown.
func SetupLogging(cfg Config, filename string) (io.Closer, error) {
	dir := firstNonEmpty(cfg.LogDir, "/var/log/session-token")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, firstNonEmpty(filename, "app.log"))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	out := io.MultiWriter(os.Stdout, f)
	log.SetOutput(out)
	gin.DefaultWriter = out
	gin.DefaultErrorWriter = out
	return f, nil
}
