package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestFromOptionsWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := FromOptions(Options{
		Level:  "info",
		JSON:   true,
		Rotate: FileRotate{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("account created", zap.String("username", "mluukkai"))
	l.Debug("dropped below level")
	cleanup()

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, `"msg":"account created"`) || !strings.Contains(out, `"username":"mluukkai"`) {
		t.Fatalf("unexpected log content: %s", out)
	}
	if strings.Contains(out, "dropped below level") {
		t.Fatalf("debug entry should be filtered: %s", out)
	}
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	l := zap.New(zapcore.NewCore(enc, zapcore.AddSync(&buf), zapcore.DebugLevel))

	w := ToWriter(l, zapcore.WarnLevel)
	if _, err := w.Write([]byte("gin warning\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) || !strings.Contains(buf.String(), `"msg":"gin warning"`) {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}
