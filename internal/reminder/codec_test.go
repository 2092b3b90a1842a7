package reminder

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_KeyConvention(t *testing.T) {
	records := []Record{
		{"title": "Pay rent", "date": "2024-01-01"},
		{"title": "Call dentist", "date": "2024-01-03"},
		{"title": "Water plants"},
	}

	data, err := Encode(records)
	require.NoError(t, err)

	var obj map[string]Record
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Equal(t, map[string]Record{
		"0": records[0],
		"1": records[1],
		"2": records[2],
	}, obj)

	// keys are written in list order
	assert.Regexp(t, `^\{"0":.*,"1":.*,"2":.*\}$`, string(data))
}

func TestEncode_Empty(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Record
		wantErr bool
	}{
		{
			name:  "numeric keys",
			input: `{"0": {"title": "Pay rent", "date": "2024-01-01"}, "1": {"title": "Call dentist", "date": "2024-01-03"}}`,
			want: []Record{
				{"title": "Pay rent", "date": "2024-01-01"},
				{"title": "Call dentist", "date": "2024-01-03"},
			},
		},
		{
			name:  "numeric keys out of order",
			input: `{"1": {"title": "second"}, "0": {"title": "first"}, "10": {"title": "eleventh"}, "2": {"title": "third"}}`,
			want:  []Record{{"title": "first"}, {"title": "second"}, {"title": "third"}, {"title": "eleventh"}},
		},
		{
			name:  "mixed keys",
			input: `{"b": {"title": "named b"}, "1": {"title": "one"}, "01": {"title": "padded"}, "a": {"title": "named a"}, "0": {"title": "zero"}, "-1": {"title": "negative"}}`,
			want: []Record{
				{"title": "zero"}, {"title": "one"},
				{"title": "named b"}, {"title": "padded"}, {"title": "named a"}, {"title": "negative"},
			},
		},
		{
			name:  "non-numeric keys keep file order",
			input: `{"b": {"title": "first"}, "a": {"title": "second"}}`,
			want:  []Record{{"title": "first"}, {"title": "second"}},
		},
		{
			name:  "empty object",
			input: `{}`,
			want:  []Record{},
		},
		{
			name:  "nested fields",
			input: `{"0": {"title": "x", "meta": {"tags": ["a", "b"]}}}`,
			want:  []Record{{"title": "x", "meta": map[string]any{"tags": []any{"a", "b"}}}},
		},
		{name: "array", input: `[{"title": "x"}]`, wantErr: true},
		{name: "garbage", input: `hello`, wantErr: true},
		{name: "truncated", input: `{"0": {"title": `, wantErr: true},
		{name: "empty", input: ``, wantErr: true},
		{name: "scalar value", input: `{"0": 5}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArrayIndex(t *testing.T) {
	for key, want := range map[string]bool{
		"0": true, "7": true, "4294967294": true,
		"4294967295": false, "01": false, "-1": false, "+1": false, "1.0": false, "": false, "a": false,
	} {
		_, ok := arrayIndex(key)
		assert.Equal(t, want, ok, key)
	}
}

func TestRecord_Title(t *testing.T) {
	assert.Equal(t, "A", Record{"title": "A"}.Title())
	assert.Equal(t, "", Record{"title": 3}.Title())
	assert.Equal(t, "", Record{}.Title())
}
