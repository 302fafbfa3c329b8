package logging

import "testing"

func TestNewReturnsUsableLogger(t *testing.T) {
	log := New(false)
	if log == nil {
		t.Fatal("expected a non-nil logger")
	}
	log.Info("smoke test")

	verbose := New(true)
	verbose.Debug("debug smoke test")
}
