package reminder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Encode serializes records as a JSON object keyed "0", "1", ... in list order.
func Encode(records []Record) ([]byte, error) {
	om := orderedmap.New[string, Record](orderedmap.WithCapacity[string, Record](len(records)))
	for i, r := range records {
		if r == nil {
			r = Record{}
		}
		om.Set(strconv.Itoa(i), r)
	}

	data, err := json.Marshal(om)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reminders: %w", err)
	}
	return data, nil
}

// Decode parses a JSON object and returns its values in enumeration order:
// array-index keys ("0", "1", ... "10") ascending by number, then any other
// keys in the order they appear in the file.
func Decode(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("content is not a JSON object")
	}

	om := orderedmap.New[string, Record]()
	if err := json.Unmarshal(trimmed, om); err != nil {
		return nil, err
	}

	type indexed struct {
		n uint64
		r Record
	}
	var (
		numbered []indexed
		named    []Record
	)
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		r := pair.Value
		if r == nil {
			r = Record{}
		}
		if n, ok := arrayIndex(pair.Key); ok {
			numbered = append(numbered, indexed{n: n, r: r})
		} else {
			named = append(named, r)
		}
	}
	sort.Slice(numbered, func(i, j int) bool { return numbered[i].n < numbered[j].n })

	records := make([]Record, 0, om.Len())
	for _, e := range numbered {
		records = append(records, e.r)
	}
	return append(records, named...), nil
}

// arrayIndex reports whether key is a canonical array index: decimal, no
// sign or leading zeros, below 2^32-1.
func arrayIndex(key string) (uint64, bool) {
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 || strconv.FormatUint(n, 10) != key {
		return 0, false
	}
	return n, true
}
