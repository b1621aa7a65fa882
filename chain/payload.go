package chain

import (
	"bytes"
	"encoding/json"

	"github.com/nicfit/clique/errors"
)

// Payload is an insertion-ordered string-keyed map used to hold a
// block's JSON payload. Ordering is preserved across Set/Delete and
// through JSON marshaling, since a block's signature covers the exact
// bytes produced by marshaling its payload.
type Payload struct {
	order []string
	data  map[string]interface{}
}

// NewPayload returns an empty Payload.
func NewPayload() *Payload {
	return &Payload{data: make(map[string]interface{})}
}

// Set assigns value to key, appending key to the insertion order if it
// is new. Re-setting an existing key overwrites its value in place.
func (p *Payload) Set(key string, value interface{}) {
	if _, ok := p.data[key]; !ok {
		p.order = append(p.order, key)
	}
	p.data[key] = value
}

// SetIfAbsent assigns value to key only if key is not already present,
// mirroring the merge-without-override semantics the source uses when
// seeding a block's payload from caller-supplied extras.
func (p *Payload) SetIfAbsent(key string, value interface{}) {
	if _, ok := p.data[key]; ok {
		return
	}
	p.Set(key, value)
}

// Get returns the value stored under key, if any.
func (p *Payload) Get(key string) (interface{}, bool) {
	v, ok := p.data[key]
	return v, ok
}

// Delete removes key, if present.
func (p *Payload) Delete(key string) {
	if _, ok := p.data[key]; !ok {
		return
	}
	delete(p.data, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Keys returns the payload's keys in insertion order.
func (p *Payload) Keys() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Clone returns an independent copy of the payload.
func (p *Payload) Clone() *Payload {
	c := NewPayload()
	for _, k := range p.order {
		c.Set(k, p.data[k])
	}
	return c
}

// MarshalJSON encodes the payload as a JSON object, with keys in
// insertion order.
func (p *Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(p.data[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the payload, preserving the
// key order found in the source document.
func (p *Payload) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "decode payload")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.ValueError("payload must be a JSON object")
	}

	p.order = nil
	p.data = make(map[string]interface{})
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "decode payload key")
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.ValueError("payload key must be a string")
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return errors.Wrapf(err, "decode payload value for %q", key)
		}
		p.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "decode payload")
	}
	return nil
}
