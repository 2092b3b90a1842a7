package reminder

// Record is one reminder as submitted by the creation form: an open set of
// fields (title, date, note, ...). The store neither validates nor types them.
// A record is identified only by its position in the list.
type Record map[string]any

// Clone returns a copy of r that shares no maps or slices with it.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// Title returns the "title" field when it is a string.
func (r Record) Title() string {
	s, _ := r["title"].(string)
	return s
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Record:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// State tracks whether a load has been attempted.
type State int

const (
	StateUnloaded State = iota
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// Cause says which operation changed the list.
type Cause string

const (
	CauseAdd  Cause = "add"
	CauseLoad Cause = "load"
)

// ListChanged is published after the list changes. Records is a copy.
type ListChanged struct {
	Cause   Cause
	Records []Record
}
