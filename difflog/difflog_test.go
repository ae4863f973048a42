package difflog

import "testing"

func TestNew_BuildsLoggerAtBothVerbosities(t *testing.T) {
	if _, err := New(false); err != nil {
		t.Fatalf("New(false) returned error: %v", err)
	}
	if _, err := New(true); err != nil {
		t.Fatalf("New(true) returned error: %v", err)
	}
}

func TestNop_NeverPanicsOnLog(t *testing.T) {
	logger := Nop()
	logger.Info("test", String("key", "value"), Int("count", 1), Err(nil))
}
