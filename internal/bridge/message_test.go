package bridge

import (
	"testing"

	"framekeys/internal/keyboard"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want keyboard.Event
	}{
		{"keydown", `{"type":"keydown","key":"a"}`, keyboard.Event{Key: "a", Down: true}},
		{"keyup", `{"type":"keyup","key":"a"}`, keyboard.Event{Key: "a"}},
		{"case kept", `{"type":"keydown","key":"A"}`, keyboard.Event{Key: "A", Down: true}},
		{"space key", `{"type":"keydown","key":" "}`, keyboard.Event{Key: " ", Down: true}},
		{"named key", `{"key":"ArrowLeft","type":"keyup"}`, keyboard.Event{Key: "ArrowLeft"}},
		{"extra fields", `{"type":"keydown","key":"Shift","code":"ShiftLeft","repeat":true}`, keyboard.Event{Key: "Shift", Down: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMessage([]byte(tt.msg))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMessageInvalid(t *testing.T) {
	tests := []struct {
		name string
		msg  string
	}{
		{"not json", `keydown a`},
		{"truncated", `{"type":"keydown","key":`},
		{"missing key", `{"type":"keydown"}`},
		{"empty key", `{"type":"keydown","key":""}`},
		{"numeric key", `{"type":"keydown","key":65}`},
		{"unknown type", `{"type":"keypress","key":"a"}`},
		{"missing type", `{"key":"a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage([]byte(tt.msg))
			require.Error(t, err)
			assert.True(t, errors.IsNotValid(err), "got %v", err)
		})
	}
}

func TestTruncate(t *testing.T) {
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, truncate(long), 67)
	assert.Equal(t, "short", truncate([]byte("short")))
}
