package table

// Record is an ordered mapping from header cell to an optional value.
// Keys keep the position of their first insertion; re-setting a key
// overwrites its value in place.
type Record struct {
	keys   []string
	fields map[string]field
}

type field struct {
	value string
	set   bool
}

// ResultSet is the ordered concatenation of records across pages and files.
type ResultSet []*Record

func NewRecord(capacity int) *Record {
	return &Record{
		keys:   make([]string, 0, capacity),
		fields: make(map[string]field, capacity),
	}
}

// RecordFromPairs builds a record from alternating key/value strings.
func RecordFromPairs(kv ...string) *Record {
	r := NewRecord(len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

// Set stores value under key.
func (r *Record) Set(key, value string) {
	r.put(key, field{value: value, set: true})
}

// SetUnset records key without a value.
func (r *Record) SetUnset(key string) {
	r.put(key, field{})
}

func (r *Record) put(key string, f field) {
	if r.fields == nil {
		r.fields = make(map[string]field)
	}
	if _, exists := r.fields[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = f
}

// Get returns the value for key and whether it is set.
func (r *Record) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	f, ok := r.fields[key]
	if !ok {
		return "", false
	}
	return f.value, f.set
}

// Has reports whether key is present, set or not.
func (r *Record) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.fields[key]
	return ok
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Equal compares key order, set-ness and values.
func (r *Record) Equal(other *Record) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.Len() == 0 {
		return true
	}
	for i, key := range r.keys {
		if other.keys[i] != key {
			return false
		}
		if r.fields[key] != other.fields[key] {
			return false
		}
	}
	return true
}

func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := NewRecord(len(r.keys))
	for _, key := range r.keys {
		out.put(key, r.fields[key])
	}
	return out
}

// Equal compares two result sets record by record.
func (rs ResultSet) Equal(other ResultSet) bool {
	if len(rs) != len(other) {
		return false
	}
	for i := range rs {
		if !rs[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Clone deep-copies the result set.
func (rs ResultSet) Clone() ResultSet {
	if rs == nil {
		return nil
	}
	out := make(ResultSet, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}
