package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andrescamacho/agroinsight-go/internal/application/logging"
	"github.com/andrescamacho/agroinsight-go/internal/infrastructure/config"
)

var levelRank = map[string]int{
	logging.LevelDebug:   0,
	logging.LevelInfo:    1,
	logging.LevelWarning: 2,
	logging.LevelError:   3,
}

// config levels use lowercase short names
var configLevels = map[string]string{
	"debug": logging.LevelDebug,
	"info":  logging.LevelInfo,
	"warn":  logging.LevelWarning,
	"error": logging.LevelError,
}

// StdLogger writes structured entries through a stdlib log.Logger
type StdLogger struct {
	out     *log.Logger
	minRank int
	json    bool
	now     func() time.Time
	mu      sync.Mutex
	closer  io.Closer
}

// NewStdLogger builds a logger from the logging config
func NewStdLogger(cfg config.LoggingConfig) (*StdLogger, error) {
	var w io.Writer
	var closer io.Closer
	switch cfg.Output {
	case "stderr":
		w = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	default:
		w = os.Stdout
	}

	l := NewWriterLogger(w, cfg.Level, cfg.Format)
	l.closer = closer
	return l, nil
}

// NewWriterLogger writes to w; level is a config level (debug|info|warn|error)
// and format is json or text
func NewWriterLogger(w io.Writer, level, format string) *StdLogger {
	minLevel, ok := configLevels[strings.ToLower(level)]
	if !ok {
		minLevel = logging.LevelInfo
	}
	return &StdLogger{
		out:     log.New(w, "", 0),
		minRank: levelRank[minLevel],
		json:    format != "text",
		now:     time.Now,
	}
}

// Log writes one entry if level passes the filter
func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	rank, ok := levelRank[level]
	if !ok {
		rank = levelRank[logging.LevelInfo]
	}
	if rank < l.minRank {
		return
	}

	ts := l.now().UTC().Format(time.RFC3339Nano)

	var line string
	if l.json {
		entry := make(map[string]interface{}, len(metadata)+3)
		for k, v := range metadata {
			entry[k] = v
		}
		entry["time"] = ts
		entry["level"] = level
		entry["msg"] = message
		data, err := json.Marshal(entry)
		if err != nil {
			data = []byte(fmt.Sprintf(`{"time":%q,"level":"ERROR","msg":"unencodable log entry","error":%q}`, ts, err.Error()))
		}
		line = string(data)
	} else {
		var b strings.Builder
		fmt.Fprintf(&b, "time=%s level=%s msg=%q", ts, level, message)
		keys := make([]string, 0, len(metadata))
		for k := range metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, metadata[k])
		}
		line = b.String()
	}

	l.mu.Lock()
	l.out.Println(line)
	l.mu.Unlock()
}

// Close closes the log file when logging to one
func (l *StdLogger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
