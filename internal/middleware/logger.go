package middleware

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Logger logs only slow or failed requests. Property searches are the hot
// path and logging every 200 would drown out anything useful.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		Output: &filteredWriter{
			dest:             os.Stdout,
			slowThreshold:    500 * time.Millisecond,
			errorStatusFloor: 400,
		},
	})
}

// filteredWriter drops log lines for fast, successful requests. It parses
// status and latency back out of the formatted line:
//
//	"15:04:05 | 200 | 1.23ms | GET /properties\n"
type filteredWriter struct {
	dest             io.Writer
	slowThreshold    time.Duration
	errorStatusFloor int
}

func (w *filteredWriter) Write(p []byte) (int, error) {
	parts := strings.Split(string(p), " | ")
	if len(parts) < 3 {
		return w.dest.Write(p) // unparseable, write anyway
	}

	status, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
	if status >= w.errorStatusFloor {
		return w.dest.Write(p)
	}

	if latency, err := time.ParseDuration(strings.TrimSpace(parts[2])); err == nil && latency >= w.slowThreshold {
		return w.dest.Write(p)
	}

	return len(p), nil
}
