package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_ValidOptions(t *testing.T) {
	tests := []Options{
		{Level: "debug", Format: "json"},
		{Level: "info", Format: "console", EnableCaller: true},
		{Level: "warn", Output: "stderr"},
		{},
	}

	for _, opts := range tests {
		t.Run(opts.Level+"/"+opts.Format, func(t *testing.T) {
			l, err := New(opts)
			require.NoError(t, err)
			assert.NotPanics(t, func() {
				l.Info("test log", zap.String("level", opts.Level))
			})
		})
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{Level: "not-a-level"})
	assert.Error(t, err, "无效级别应返回错误")

	_, err = New(Options{Level: "info", Format: "xml"})
	assert.Error(t, err, "无效格式应返回错误")
}

func TestL_NopBeforeInit(t *testing.T) {
	assert.NotNil(t, L())
	assert.NotPanics(t, func() {
		L().Info("nop logger test")
		S().Infow("nop sugared logger test", "k", "v")
	})
}

func TestReplace(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := Replace(zap.New(core))

	L().Info("hello", zap.String("book_id", "b1"))
	restore()
	L().Info("after restore")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "b1", entry.ContextMap()["book_id"])
}
