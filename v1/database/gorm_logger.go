package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormLogger bridges GORM's logging interface onto the client's Logger.
// With verbose enabled every executed statement is echoed at debug level,
// mirroring the verboseLogging configuration option.
type gormLogger struct {
	log     Logger
	verbose bool
}

func newGormLogger(log Logger, verbose bool) gormlogger.Interface {
	return &gormLogger{log: log, verbose: verbose}
}

// LogMode is part of the GORM logger interface. Level filtering is handled
// by the wrapped Logger, so this is a no-op.
func (g *gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return g
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	g.log.Info(fmt.Sprintf(msg, args...), nil)
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	g.log.Warn(fmt.Sprintf(msg, args...), nil)
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	g.log.Error(fmt.Sprintf(msg, args...), nil)
}

// Trace reports each executed statement. Failures are logged at warning
// level; successful statements only when verbose echoing is enabled.
func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if err == nil && !g.verbose {
		return
	}

	sql, rows := fc()
	fields := map[string]interface{}{
		"sql":     sql,
		"rows":    rows,
		"elapsed": time.Since(begin).String(),
	}

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		g.log.Warn("sql statement failed", err, fields)
		return
	}
	if g.verbose {
		g.log.Debug("sql statement executed", nil, fields)
	}
}
