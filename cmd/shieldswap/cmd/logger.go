// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type logWrapper struct {
	logger       logging.Logger
	displayLevel zap.AtomicLevel
	logLevel     zap.AtomicLevel
}

// logFactory builds loggers that write to stderr at the display level and,
// when a directory is configured, to a rotating file at the log level.
type logFactory struct {
	config logging.Config
	lock   sync.RWMutex

	// Logger name --> the logger.
	loggers map[string]logWrapper
}

func newLogFactory(config logging.Config) *logFactory {
	return &logFactory{
		config:  config,
		loggers: make(map[string]logWrapper),
	}
}

// Assumes [f.lock] is held
func (f *logFactory) makeLogger(config logging.Config) (logging.Logger, error) {
	if _, ok := f.loggers[config.LoggerName]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", config.LoggerName)
	}
	consoleEnc := config.LogFormat.ConsoleEncoder()

	var consoleWriter io.WriteCloser
	if config.DisableWriterDisplaying {
		consoleWriter = newDiscardWriteCloser()
	} else {
		consoleWriter = os.Stderr
	}

	consoleCore := logging.NewWrappedCore(config.DisplayLevel, consoleWriter, consoleEnc)
	consoleCore.WriterDisabled = config.DisableWriterDisplaying
	cores := []logging.WrappedCore{consoleCore}
	w := logWrapper{displayLevel: consoleCore.AtomicLevel}

	if config.Directory != "" {
		rw := &lumberjack.Logger{
			Filename:   path.Join(config.Directory, config.LoggerName+".log"),
			MaxSize:    config.MaxSize,  // megabytes
			MaxAge:     config.MaxAge,   // days
			MaxBackups: config.MaxFiles, // files
			Compress:   config.Compress,
		}
		fileCore := logging.NewWrappedCore(config.LogLevel, rw, config.LogFormat.FileEncoder())
		cores = append(cores, fileCore)
		w.logLevel = fileCore.AtomicLevel
	}

	prefix := config.LogFormat.WrapPrefix(config.MsgPrefix)
	w.logger = logging.NewLogger(prefix, cores...)
	f.loggers[config.LoggerName] = w
	return w.logger, nil
}

func (f *logFactory) Make(name string) (logging.Logger, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	config := f.config
	config.LoggerName = name
	return f.makeLogger(config)
}

// SetDisplayLevel changes the stderr level of [name].
func (f *logFactory) SetDisplayLevel(name string, level logging.Level) error {
	f.lock.RLock()
	defer f.lock.RUnlock()

	w, ok := f.loggers[name]
	if !ok {
		return fmt.Errorf("unknown logger %q", name)
	}
	w.displayLevel.SetLevel(zapcore.Level(level))
	return nil
}

func (f *logFactory) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, lw := range f.loggers {
		lw.logger.Stop()
	}
	f.loggers = nil
}

type discardWriteCloser struct {
	io.Writer
}

func newDiscardWriteCloser() *discardWriteCloser {
	return &discardWriteCloser{io.Discard}
}

func (*discardWriteCloser) Close() error {
	return nil
}
