package configs

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var rootLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Logger returns a child logger tagged with the component name.
func Logger(component string) *zerolog.Logger {
	l := rootLogger.With().Str("component", component).Logger()
	return &l
}

func SetLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
	log           *zerolog.Logger
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
		log:           Logger("gorm"),
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		l.log.Info().Msgf(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		l.log.Warn().Msgf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		l.log.Error().Msgf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && !isRecordNotFound(err) && l.LogLevel >= gormLogger.Error:
		l.log.Error().Err(err).Str("file", file).Dur("elapsed", elapsed).Int64("rows", rows).Msg(sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		l.log.Warn().Str("file", file).Dur("elapsed", elapsed).Int64("rows", rows).Msg("[SLOW SQL] " + sql)
	case l.LogLevel >= gormLogger.Info:
		l.log.Debug().Str("file", file).Dur("elapsed", elapsed).Int64("rows", rows).Msg(sql)
	}
}

func isRecordNotFound(err error) bool {
	return err != nil && err.Error() == "record not found"
}
