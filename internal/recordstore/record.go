package recordstore

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const lastAccessedField = "_lastAccessed"

// Record is a persisted payload plus its last access time in Unix
// milliseconds. A zero LastAccessed sorts as oldest.
//
// On disk the access time is merged into the payload object:
//
//	{"id": 287, "name": "Brad Pitt", "_lastAccessed": 1717171717171}
type Record[T any] struct {
	Value        T
	LastAccessed int64
}

func (r Record[T]) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(r.Value)
	if err != nil {
		return nil, err
	}
	payload = bytes.TrimSpace(payload)
	if len(payload) < 2 || payload[0] != '{' {
		return nil, fmt.Errorf("record payload must be a JSON object, got %.20s", payload)
	}

	stamp := fmt.Sprintf("%q:%d", lastAccessedField, r.LastAccessed)
	body := bytes.TrimSpace(payload[1 : len(payload)-1])

	var buf bytes.Buffer
	buf.Grow(len(payload) + len(stamp) + 1)
	buf.WriteByte('{')
	if len(body) > 0 {
		buf.Write(body)
		buf.WriteByte(',')
	}
	buf.WriteString(stamp)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record[T]) UnmarshalJSON(data []byte) error {
	var meta struct {
		LastAccessed int64 `json:"_lastAccessed"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.Value = v
	r.LastAccessed = meta.LastAccessed
	return nil
}
