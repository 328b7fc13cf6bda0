package xlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf))

	logger.Debug(context.Background(), "hidden")
	logger.Info(context.Background(), "visible", slog.String("k", "v"))

	out := buf.String()
	assert.NotContains(t, out, "hidden", "默认级别 Info，Debug 应被过滤")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "k=v")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf), WithFormat(FormatJSON))

	logger.Info(context.Background(), "hello", slog.Int("n", 7))

	out := buf.String()
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, `"n":7`)
}

func TestSetLevel_Dynamic(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf))

	logger.Debug(context.Background(), "before")
	logger.SetLevel(LevelDebug)
	logger.Debug(context.Background(), "after")

	out := buf.String()
	assert.NotContains(t, out, "before")
	assert.Contains(t, out, "after")
	assert.Equal(t, LevelDebug, logger.GetLevel())
}

func TestWith_SharesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf))
	derived := logger.With(slog.String("component", "pool"))

	// 父级调整级别，派生 logger 同步生效
	logger.SetLevel(LevelError)
	derived.Info(context.Background(), "filtered")
	derived.Error(context.Background(), "kept")

	out := buf.String()
	assert.NotContains(t, out, "filtered")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "component=pool")
}

func TestWith_Empty(t *testing.T) {
	logger := New()
	assert.Same(t, logger, logger.With().(LoggerWithLevel), "无属性时返回自身")
}

func TestFatal_ExitsProcess(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf), WithLevel(LevelFatal))

	exitCode := -1
	origExit := osExit
	osExit = func(code int) { exitCode = code }
	defer func() { osExit = origExit }()

	logger.Fatal(context.Background(), "unrecoverable")

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, buf.String(), "unrecoverable", "Fatal 永不被级别过滤")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"fatal", LevelFatal, false},
		{" info ", LevelInfo, false},
		{"trace", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "fatal", LevelFatal.String())
}

func TestDefault_Replace(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	var buf bytes.Buffer
	SetDefault(New(WithWriter(&buf)))

	Info(context.Background(), "via default")
	assert.True(t, strings.Contains(buf.String(), "via default"))

	// nil 被忽略
	SetDefault(nil)
	assert.NotNil(t, Default())
}

func TestNilContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf))

	// nil ctx 不得 panic
	logger.Info(nil, "survives") //nolint:staticcheck // 有意传 nil 验证防御行为
	assert.Contains(t, buf.String(), "survives")
}
