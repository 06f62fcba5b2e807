package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrMalformedPayload is returned when a live-status payload is not a JSON
// object with a string status.
var ErrMalformedPayload = errors.New("malformed resource payload")

// ResourceInfo is the live status of one resource. ID and Status are always
// present; Fields carries everything else the source returned, in the order
// it returned it. Fields are passed through to the agent untouched.
type ResourceInfo struct {
	ID     string
	Status string
	Fields *orderedmap.OrderedMap[string, any]
}

// NewResourceInfo returns an info with no extra fields.
func NewResourceInfo(id, status string) *ResourceInfo {
	return &ResourceInfo{ID: id, Status: status, Fields: orderedmap.New[string, any]()}
}

// Set adds or replaces an extra field and returns r for chaining. The id and
// status keys update the named fields instead.
func (r *ResourceInfo) Set(key string, value any) *ResourceInfo {
	switch key {
	case "id":
		if s, ok := value.(string); ok {
			r.ID = s
		}
	case "status":
		if s, ok := value.(string); ok {
			r.Status = s
		}
	default:
		if r.Fields == nil {
			r.Fields = orderedmap.New[string, any]()
		}
		r.Fields.Set(key, value)
	}
	return r
}

// Get returns an extra field.
func (r *ResourceInfo) Get(key string) (any, bool) {
	if r.Fields == nil {
		return nil, false
	}
	return r.Fields.Get(key)
}

// Len returns the number of extra fields.
func (r *ResourceInfo) Len() int {
	if r.Fields == nil {
		return 0
	}
	return r.Fields.Len()
}

// MarshalJSON writes {"id":…,"status":…,<fields in order>}.
func (r *ResourceInfo) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeMember(&buf, "id", r.ID)
	buf.WriteByte(',')
	writeMember(&buf, "status", r.Status)

	if r.Fields != nil {
		for pair := r.Fields.Oldest(); pair != nil; pair = pair.Next() {
			v, err := json.Marshal(pair.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", pair.Key, err)
			}
			buf.WriteByte(',')
			k, _ := json.Marshal(pair.Key)
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key, value string) {
	k, _ := json.Marshal(key)
	v, _ := json.Marshal(value)
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
}

// UnmarshalJSON decodes a live-status payload. The payload must be a JSON
// object whose status is a string; id is optional and, when present, must be
// a string too. All other keys are kept verbatim and in order.
func (r *ResourceInfo) UnmarshalJSON(data []byte) error {
	fields := orderedmap.New[string, any]()
	if err := json.Unmarshal(data, fields); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	status, ok := fields.Get("status")
	if !ok {
		return fmt.Errorf("%w: missing status", ErrMalformedPayload)
	}
	statusStr, ok := status.(string)
	if !ok {
		return fmt.Errorf("%w: status is %T, not a string", ErrMalformedPayload, status)
	}
	fields.Delete("status")

	var idStr string
	if id, ok := fields.Get("id"); ok {
		if idStr, ok = id.(string); !ok {
			return fmt.Errorf("%w: id is %T, not a string", ErrMalformedPayload, id)
		}
		fields.Delete("id")
	}

	r.ID = idStr
	r.Status = statusStr
	r.Fields = fields
	return nil
}
