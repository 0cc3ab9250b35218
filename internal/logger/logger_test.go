package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatKV(t *testing.T) {
	assert.Equal(t, "hello", formatKV("hello", nil))
	assert.Equal(t, "req done status=200 path=/health",
		formatKV("req done", []interface{}{"status", 200, "path", "/health"}))
	// odd trailing value is appended as-is
	assert.Equal(t, "oops dangling", formatKV("oops", []interface{}{"dangling"}))
}

func TestInfoWritesFields(t *testing.T) {
	Init()
	var buf bytes.Buffer
	InfoLogger = log.New(&buf, "INFO: ", 0)

	Info("booking committed", "user_id", 7, "instrument", "credits")

	out := buf.String()
	assert.True(t, strings.Contains(out, "booking committed"))
	assert.True(t, strings.Contains(out, "user_id=7"))
	assert.True(t, strings.Contains(out, "instrument=credits"))
}
