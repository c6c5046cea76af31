package restaurant

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// EncodeSnapshot serializes the full record map as a JSON object keyed by id.
func EncodeSnapshot(records map[string]*Record) ([]byte, error) {
	if records == nil {
		records = map[string]*Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "encode snapshot")
	}
	return data, nil
}

// DecodeSnapshot reads a keyed-object snapshot. The legacy form, a JSON array
// of records, is indexed by each element's id; elements without one are dropped.
func DecodeSnapshot(data []byte) (map[string]*Record, error) {
	data = bytes.TrimSpace(data)
	records := make(map[string]*Record)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return records, nil
	}

	if data[0] == '[' {
		var list []*Record
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, eris.Wrap(err, "decode legacy snapshot")
		}
		for _, r := range list {
			if r == nil || r.ID == "" {
				continue
			}
			records[r.ID] = r
		}
	} else if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrap(err, "decode snapshot")
	}

	for id, r := range records {
		if r == nil {
			delete(records, id)
			continue
		}
		r.ID = id
		r.normalize()
	}
	return records, nil
}
