// Package report turns recognized lab-report text into structured records.
package report

import (
	"bytes"
	"encoding/json"

	"github.com/joseph-ayodele/labreport/constants"
)

// Field is one extracted basic-info value.
type Field struct {
	Name  string
	Value string
}

// BasicInfo is the patient/report metadata in field declaration order.
// Fields missing from the text are absent, never empty placeholders.
type BasicInfo []Field

// Get returns the value of the named field.
func (b BasicInfo) Get(name string) (string, bool) {
	for _, f := range b {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Map returns the fields as a plain map.
func (b BasicInfo) Map() map[string]string {
	out := make(map[string]string, len(b))
	for _, f := range b {
		out[f.Name] = f.Value
	}
	return out
}

// MarshalJSON writes a JSON object keeping declaration order.
func (b BasicInfo) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKV(&buf, f.Name, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TestRecord is one measured analyte line group.
type TestRecord struct {
	Result   string `json:"Result"`
	Units    string `json:"Units"`
	Interval string `json:"Bio. Ref. Interval"`
}

// ResultTable maps analyte keys to records in order of first appearance.
// Keys are the raw text blocks preceding each result and are not normalized.
type ResultTable struct {
	keys    []string
	records map[string]TestRecord
}

// NewResultTable returns an empty table.
func NewResultTable() *ResultTable {
	return &ResultTable{records: make(map[string]TestRecord)}
}

// Set stores rec under key. A repeated key replaces the record and keeps its position.
func (t *ResultTable) Set(key string, rec TestRecord) {
	if t.records == nil {
		t.records = make(map[string]TestRecord)
	}
	if _, ok := t.records[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.records[key] = rec
}

// Get returns the record stored under key.
func (t *ResultTable) Get(key string) (TestRecord, bool) {
	if t == nil {
		return TestRecord{}, false
	}
	rec, ok := t.records[key]
	return rec, ok
}

// Keys returns the analyte keys in order of first appearance.
func (t *ResultTable) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of distinct keys.
func (t *ResultTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// MarshalJSON writes a JSON object keeping key order.
func (t *ResultTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKV(&buf, k, t.records[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving key order.
func (t *ResultTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = ResultTable{records: make(map[string]TestRecord)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var rec TestRecord
		if err := dec.Decode(&rec); err != nil {
			return err
		}
		t.Set(key, rec)
	}
	_, err := dec.Token()
	return err
}

func writeKV(buf *bytes.Buffer, key string, value any) error {
	k, err := marshalNoEscape(key)
	if err != nil {
		return err
	}
	v, err := marshalNoEscape(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// RecordColumns are the TestRecord keys in table order, used as export column headers.
var RecordColumns = []string{constants.RecordResult, constants.RecordUnits, constants.RecordInterval}
