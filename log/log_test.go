//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLog(t *testing.T) {
	old := Default
	Default = &recordingLogger{}
	defer func() { Default = old }()

	Debug("test")
	Debugf("test %d", 1)
	Info("test")
	Infof("test %d", 1)
	Warn("test")
	Warnf("test %d", 1)
	Error("test")
	Errorf("test %d", 1)

	rec := Default.(*recordingLogger)
	require.Len(t, rec.lines, 8)
	require.Equal(t, "test 1", rec.lines[1])
}

func TestSetLevel(t *testing.T) {
	defer SetLevel(LevelInfo)
	cases := []struct {
		in       string
		expected zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
	}
	for _, c := range cases {
		SetLevel(c.in)
		if got := zapLevel.Level(); got != c.expected {
			t.Fatalf("SetLevel(%q) = %v; want %v", c.in, got, c.expected)
		}
	}
}

func TestNewAppLogger_WritesInfoToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, closeFn, err := NewAppLogger(dir, "")
	require.NoError(t, err)

	logger.Debugf("hidden %s", "debug")
	logger.Infof("ingested %d file(s)", 2)
	require.NoError(t, closeFn())

	path := filepath.Join(dir, "app_"+time.Now().Format("20060102")+".log")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "ingested 2 file(s)")
	require.Contains(t, content, DefaultName)
	require.False(t, strings.Contains(content, "hidden debug"))
}

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) add(s string) { r.lines = append(r.lines, s) }

func (r *recordingLogger) Debug(args ...any)                 { r.add(fmt.Sprint(args...)) }
func (r *recordingLogger) Debugf(format string, args ...any) { r.add(fmt.Sprintf(format, args...)) }
func (r *recordingLogger) Info(args ...any)                  { r.add(fmt.Sprint(args...)) }
func (r *recordingLogger) Infof(format string, args ...any)  { r.add(fmt.Sprintf(format, args...)) }
func (r *recordingLogger) Warn(args ...any)                  { r.add(fmt.Sprint(args...)) }
func (r *recordingLogger) Warnf(format string, args ...any)  { r.add(fmt.Sprintf(format, args...)) }
func (r *recordingLogger) Error(args ...any)                 { r.add(fmt.Sprint(args...)) }
func (r *recordingLogger) Errorf(format string, args ...any) { r.add(fmt.Sprintf(format, args...)) }
