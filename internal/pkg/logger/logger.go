// Package logger builds the process zap logger: console output plus an
// optional daily log file.
package logger

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultLogFilePerm = 0o644
	defaultLogDirPerm  = 0o755
)

// Options selects the logger flavour.
type Options struct {
	Development bool
	// Dir receives one file per day when set.
	Dir string
}

// DailyFilename returns the log file name for the day of now.
func DailyFilename(now time.Time) string {
	return "stdout_" + now.Format("2006-01-02") + ".log"
}

// DailyWriter appends to the log file of the current day, rolling over at
// midnight.
type DailyWriter struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// NewDailyWriter creates dir when missing.
func NewDailyWriter(dir string) (*DailyWriter, error) {
	if err := os.MkdirAll(dir, defaultLogDirPerm); err != nil {
		return nil, err
	}
	return &DailyWriter{dir: dir, now: time.Now}, nil
}

func (w *DailyWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Join(w.dir, DailyFilename(w.now()))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaultLogFilePerm)
	if err != nil {
		return 0, err
	}

	n, writeErr := file.Write(p)
	closeErr := file.Close()
	if writeErr != nil {
		return n, writeErr
	}
	return n, closeErr
}

func (w *DailyWriter) Sync() error { return nil }

// New builds the logger. Development mode logs at debug level with a
// colored console encoder; production logs JSON at info level.
func New(opts Options) (*zap.Logger, error) {
	var (
		encoder zapcore.Encoder
		level   zap.AtomicLevel
	)
	if opts.Development {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)}
	if opts.Dir != "" {
		writer, err := NewDailyWriter(opts.Dir)
		if err != nil {
			return nil, err
		}
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(writer), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	_ = zap.RedirectStdLog(logger)
	return logger, nil
}
