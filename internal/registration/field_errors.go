package registration

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FieldErrors is the server-side error shape: field name to an ordered list
// of messages. Field order is preserved from the wire so "first field" means
// the first key the API sent.
type FieldErrors struct {
	m *orderedmap.OrderedMap[string, []string]
}

// NewFieldErrors returns an empty FieldErrors.
func NewFieldErrors() *FieldErrors {
	return &FieldErrors{m: orderedmap.New[string, []string]()}
}

// Add appends msg to field, creating the field at the end when new.
func (e *FieldErrors) Add(field, msg string) {
	if e.m == nil {
		e.m = orderedmap.New[string, []string]()
	}
	msgs, _ := e.m.Get(field)
	e.m.Set(field, append(msgs, msg))
}

// Get returns the messages for field.
func (e *FieldErrors) Get(field string) []string {
	if e == nil || e.m == nil {
		return nil
	}
	msgs, _ := e.m.Get(field)
	return msgs
}

// Has reports whether field has at least one message.
func (e *FieldErrors) Has(field string) bool {
	return len(e.Get(field)) > 0
}

// Len returns the number of fields with errors.
func (e *FieldErrors) Len() int {
	if e == nil || e.m == nil {
		return 0
	}
	return e.m.Len()
}

// Empty reports whether there are no field errors.
func (e *FieldErrors) Empty() bool {
	return e.Len() == 0
}

// Fields returns the field names in order.
func (e *FieldErrors) Fields() []string {
	if e == nil || e.m == nil {
		return nil
	}
	out := make([]string, 0, e.m.Len())
	for pair := e.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// First returns the first message of the first field that has one.
func (e *FieldErrors) First() (field, msg string, ok bool) {
	if e == nil || e.m == nil {
		return "", "", false
	}
	for pair := e.m.Oldest(); pair != nil; pair = pair.Next() {
		if len(pair.Value) > 0 {
			return pair.Key, pair.Value[0], true
		}
	}
	return "", "", false
}

// MarshalJSON encodes the errors as a JSON object in field order.
func (e *FieldErrors) MarshalJSON() ([]byte, error) {
	if e == nil || e.m == nil {
		return []byte("{}"), nil
	}
	return e.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object keeping key order.
func (e *FieldErrors) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, []string]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	e.m = m
	return nil
}
