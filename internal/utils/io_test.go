package utils

import (
	"strings"
	"testing"
)

func TestReadEnvelope(t *testing.T) {
	got, err := ReadEnvelope(strings.NewReader("  AAAAAAAAAAAAAAAA\n"))
	if err != nil {
		t.Fatalf("ReadEnvelope failed: %v", err)
	}
	if got != "AAAAAAAAAAAAAAAA" {
		t.Errorf("ReadEnvelope() = %q", got)
	}
}

func TestReadEnvelopeEmpty(t *testing.T) {
	for _, input := range []string{"", "\n", "   \t\n"} {
		if _, err := ReadEnvelope(strings.NewReader(input)); err == nil {
			t.Errorf("Expected error for input %q", input)
		}
	}
}
