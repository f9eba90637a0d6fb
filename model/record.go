package model

// Field is one named template argument with its raw wikitext value.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Fields keeps template arguments in source order. Keys are unique.
type Fields []Field

// Get returns the value of the first field named key.
func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// Has reports whether a field named key exists.
func (f Fields) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Keys returns the field names in source order.
func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i, field := range f {
		keys[i] = field.Key
	}
	return keys
}

// Add appends a field unless the key is already present, the first value wins.
func (f Fields) Add(key string, value string) Fields {
	if f.Has(key) {
		return f
	}
	return append(f, Field{Key: key, Value: value})
}

// Without returns a copy without the fields whose key matches drop.
func (f Fields) Without(drop func(key string) bool) Fields {
	out := make(Fields, 0, len(f))
	for _, field := range f {
		if !drop(field.Key) {
			out = append(out, field)
		}
	}
	return out
}

// InfoboxRecord is the parsed infobox of one page.
// Embedded holds sub records recovered from content{N}/label{N} pairs.
type InfoboxRecord struct {
	EntityTitle  string           `json:"entity_title"`
	TemplateName string           `json:"template_name"`
	Fields       Fields           `json:"fields"`
	Embedded     []*InfoboxRecord `json:"embedded,omitempty"`
}

// IsEmpty is true for a record parsed from text without any template.
func (r *InfoboxRecord) IsEmpty() bool {
	return r.TemplateName == "" && len(r.Fields) == 0
}
