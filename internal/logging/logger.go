package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/2beens/pacelink/pkg"
)

const (
	logFileMaxSizeMB  = 50
	logFileMaxBackups = 30
	logFileMaxAgeDays = 180
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger and returns a func closing the
// rotated log file, if one was opened.
func Setup(params LoggerSetupParams) (closeLogs func() error) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	setupSentry(params)

	output := outputFor(params.LogFileName, params.LogToStdout)
	logrus.SetOutput(output)
	logrus.WithFields(logrus.Fields{
		"level":  logrus.GetLevel(),
		"file":   params.LogFileName,
		"stdout": params.LogFileName == "" || params.LogToStdout,
	}).Info("logging set up")

	return output.Close
}

func setupSentry(params LoggerSetupParams) {
	if !params.SentryEnabled {
		return
	}
	if params.SentryDSN == "" {
		logrus.Warnln("sentry enabled but SENTRY_DSN not set, skipping")
		return
	}

	if err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	}); err != nil {
		logrus.Errorf("sentry init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infoln("sentry hook installed")
}

// stdout is wrapped so closing the combined output never closes it.
var stdout io.Writer = struct{ io.Writer }{os.Stdout}

func outputFor(fileName string, toStdout bool) *pkg.CombinedWriter {
	if fileName == "" {
		return pkg.NewCombinedWriter(stdout)
	}

	if filepath.Ext(fileName) != ".log" {
		fileName += ".log"
	}
	sinks := []io.Writer{&lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
		Compress:   true,
	}}
	if toStdout {
		sinks = append(sinks, stdout)
	}

	return pkg.NewCombinedWriter(sinks...)
}

func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil || parsed == logrus.PanicLevel {
		return logrus.InfoLevel
	}
	return parsed
}
