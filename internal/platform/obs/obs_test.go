package obs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	l := NewLogger("warn", buf)
	l.Info().Msg("info-message")
	l.Warn().Msg("warn-message")

	if strings.Contains(buf.String(), "info-message") {
		t.Error("did not expect info message to be logged")
	}
	if !strings.Contains(buf.String(), "warn-message") {
		t.Error("expected warn message to be logged")
	}
}

func TestTime(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	l := NewLogger("debug", buf)
	ctx := WithRequestID(l.WithContext(context.Background()), "abc")
	if got := RequestID(ctx); got != "abc" {
		t.Fatalf("RequestID = %q, want abc", got)
	}

	func() (err error) {
		defer Time(ctx, "test.op")(&err)
		return errors.New("intentionally failing")
	}()

	out := buf.String()
	for _, want := range []string{`"op":"test.op"`, `"req_id":"abc"`, "intentionally failing", `"level":"warn"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log output to contain %s, got: %s", want, out)
		}
	}
}
