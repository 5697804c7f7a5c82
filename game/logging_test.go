package game

import (
	"bytes"
	"testing"
)

func TestSetLogWriterRedirectsLogf(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(&buf)
	defer SetLogWriter(nil)

	Logf("tick %d: %s", 42, "smoke")

	if got := buf.String(); got != "tick 42: smoke\n" {
		t.Errorf("log output = %q", got)
	}
}
