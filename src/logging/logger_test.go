package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	var buf bytes.Buffer
	saved := baseLogger
	SetOutput(&buf)
	defer func() { baseLogger = saved }()

	SetLogLevel("info")

	msg := "plot done metric=emailLength users=10 (100.0% of 10) took=231ms"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(100.0% of 10)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "%!o(MISSING)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestSetLogLevel_FiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	saved := baseLogger
	SetOutput(&buf)
	defer func() { baseLogger = saved; SetLogLevel("info") }()

	SetLogLevel("warn")
	Infof("hidden %d", 1)
	Debugf("hidden too")
	Warnf("shown %d", 2)
	Errorf("shown %s", "error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info/debug lines leaked at warn level: %s", out)
	}
	if !strings.Contains(out, "shown 2") || !strings.Contains(out, "shown error") {
		t.Fatalf("expected warn and error lines: %s", out)
	}
	if GetLogLevel() != LevelWarn {
		t.Fatalf("GetLogLevel = %v, want %v", GetLogLevel(), LevelWarn)
	}
}

func TestSetLogLevel_IgnoresUnknown(t *testing.T) {
	SetLogLevel("error")
	defer SetLogLevel("info")
	SetLogLevel("loud")
	if GetLogLevel() != LevelError {
		t.Fatalf("unknown level changed state: %v", GetLogLevel())
	}
}
