package storefront

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

var nullJSON = []byte("null")

// Decode returns the T carried by raw. The API answers either with an envelope
// {statusCode, message, data} or with a bare T.
func Decode[T any](raw []byte) (T, error) {
	var value T
	err := decodeInto(raw, &value)
	return value, err
}

func decodeInto(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if data, ok := envelopeData(raw, wantsObject(out)); ok {
		raw = data
	}
	if bytes.Equal(raw, nullJSON) {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// wantsObject reports whether out decodes from a JSON object, in which case a
// "data" key may belong to the value itself.
func wantsObject(out any) bool {
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}

// envelopeData returns the "data" member of raw when raw is an envelope. For
// object targets a lone data key only counts when it holds an object or null;
// status or message keys always mark an envelope.
func envelopeData(raw []byte, objectTarget bool) (json.RawMessage, bool) {
	if raw[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	data, hasData := fields["data"]
	if !hasData {
		return nil, false
	}
	if !objectTarget {
		return data, true
	}
	_, hasStatus := fields["statusCode"]
	_, hasMessage := fields["message"]
	if hasStatus || hasMessage {
		return data, true
	}
	if len(fields) != 1 {
		return nil, false
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && (data[0] == '{' || bytes.Equal(data, nullJSON)) {
		return data, true
	}
	return nil, false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp accepts RFC 3339, zone-less local date-times (read as UTC), plain
// dates and the [y,m,d,h,min,s,ns] array form.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullJSON) {
		t.Time = time.Time{}
		return nil
	}

	if raw[0] == '[' {
		var parts []int
		if err := json.Unmarshal(raw, &parts); err != nil {
			return fmt.Errorf("parse timestamp %s: %w", raw, err)
		}
		if len(parts) < 3 {
			return fmt.Errorf("parse timestamp %s: too few fields", raw)
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		t.Time = time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("parse timestamp %s: %w", raw, err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return nullJSON, nil
	}
	return json.Marshal(t.UTC().Format("2006-01-02T15:04:05"))
}

// ParseTimestamp parses s with the layouts the API is known to emit.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: unknown layout", s)
}
