package bridge

import (
	"framekeys/internal/keyboard"

	"github.com/juju/errors"
	"github.com/tidwall/gjson"
)

// Message types sent by the page, named after the DOM events they forward.
const (
	TypeKeyDown = "keydown"
	TypeKeyUp   = "keyup"
)

// ParseMessage decodes {"type":"keydown","key":"a"} into a keyboard event.
// The key is KeyboardEvent.key exactly as the browser reported it.
func ParseMessage(msg []byte) (keyboard.Event, error) {
	if !gjson.ValidBytes(msg) {
		return keyboard.Event{}, errors.NotValidf("message %q", truncate(msg))
	}
	res := gjson.GetManyBytes(msg, "type", "key")
	typ, key := res[0], res[1]

	if key.Type != gjson.String || key.Str == "" {
		return keyboard.Event{}, errors.NotValidf("key in %q", truncate(msg))
	}
	switch typ.String() {
	case TypeKeyDown:
		return keyboard.Event{Key: key.Str, Down: true}, nil
	case TypeKeyUp:
		return keyboard.Event{Key: key.Str}, nil
	default:
		return keyboard.Event{}, errors.NotValidf("message type %q", typ.String())
	}
}

func truncate(b []byte) string {
	const max = 64
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
