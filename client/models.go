package client

import (
	"bytes"
	"encoding/json"
	"sort"
)

// A Thought is a note as returned by the thoughts API. Every field the
// server sends is kept as raw JSON and written back out unchanged.
type Thought struct {
	// Content is the text of the thought. It is "" when the server sent no
	// content or sent one that is not a JSON string. Setting it replaces the
	// content on output.
	Content string

	// Fields holds the fields the server sent (id, content, created_at, ...)
	// keyed by their JSON name.
	Fields map[string]json.RawMessage
}

// ID returns the server-assigned id as text, or "" if the server sent none.
func (t Thought) ID() string {
	return t.text("id")
}

// CreatedAt returns the server-assigned creation timestamp as sent by the
// server, or "" if absent.
func (t Thought) CreatedAt() string {
	return t.text("created_at")
}

func (t Thought) text(name string) string {
	raw, ok := t.Fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Thought) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*t = Thought{}
	if raw, ok := fields["content"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			t.Content = s
		}
	}
	if len(fields) > 0 {
		t.Fields = fields
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Keys are written in sorted order.
func (t Thought) MarshalJSON() ([]byte, error) {
	fields := t.Fields
	if t.contentChanged() {
		content, err := encodeString(t.Content)
		if err != nil {
			return nil, err
		}
		fields = make(map[string]json.RawMessage, len(t.Fields)+1)
		for k, v := range t.Fields {
			fields[k] = v
		}
		fields["content"] = content
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(fields[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// contentChanged reports whether Content differs from the content held in
// Fields. A null, non-string or missing content counts as "".
func (t Thought) contentChanged() bool {
	raw, ok := t.Fields["content"]
	if !ok {
		return t.Content != ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return t.Content != ""
	}
	return s != t.Content
}

func encodeString(s string) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	// Encode terminates the value with a newline.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
