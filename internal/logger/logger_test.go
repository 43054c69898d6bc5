package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Feature: brand-catalog, Property 14: Production logs are structured
func TestProperty_ProductionLogsAreStructured(t *testing.T) {
	config, err := buildConfig("production", "debug")
	require.NoError(t, err)

	properties := gopter.NewProperties(nil)

	properties.Property("production entries are JSON with level, timestamp and message", prop.ForAll(
		func(message string, level string) bool {
			var buf bytes.Buffer

			core := zapcore.NewCore(
				zapcore.NewJSONEncoder(config.EncoderConfig),
				zapcore.AddSync(&buf),
				config.Level,
			)

			logger := zap.New(core)
			defer logger.Sync()

			switch level {
			case "debug":
				logger.Debug(message, zap.String("brand_id", "b-1"))
			case "warn":
				logger.Warn(message, zap.String("brand_id", "b-1"))
			case "error":
				logger.Error(message, zap.String("brand_id", "b-1"))
			default:
				logger.Info(message, zap.String("brand_id", "b-1"))
			}

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				return false
			}

			for _, key := range []string{"level", "timestamp", "msg", "brand_id"} {
				if _, ok := logEntry[key]; !ok {
					return false
				}
			}

			return logEntry["msg"] == message && logEntry["level"] == level
		},
		gen.AnyString(),
		gen.OneConstOf("debug", "info", "warn", "error"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestBuildConfig_Encodings(t *testing.T) {
	prod, err := buildConfig("production", "")
	require.NoError(t, err)
	assert.Equal(t, "json", prod.Encoding)
	assert.Equal(t, []string{"stdout"}, prod.OutputPaths)
	assert.Equal(t, zapcore.InfoLevel, prod.Level.Level())

	dev, err := buildConfig("development", "")
	require.NoError(t, err)
	assert.Equal(t, "console", dev.Encoding)
	assert.Equal(t, zapcore.DebugLevel, dev.Level.Level())
}

func TestNew_RespectsLevel(t *testing.T) {
	logger, err := New("production", "warn")
	require.NoError(t, err)
	defer logger.Sync()

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("development", "loud")
	assert.Error(t, err)
}
