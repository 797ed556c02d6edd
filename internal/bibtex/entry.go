// Package bibtex provides the entry model, parser, and writer for BibTeX files.
package bibtex

// Field is a single name/value pair in an entry. Order is preserved from the
// source file so that rendered output stays diffable.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Entry is one bibliographic record.
type Entry struct {
	Type   string  // entry type, lowercased (article, inproceedings, ...)
	Key    string  // citation key
	Fields []Field // field names lowercased by the parser
	Line   int     // 1-indexed line of the @type{key, header in the source
}

// Get returns the value for a field name. The parser lowercases field names,
// so lookups use the lowercase name.
func (e Entry) Get(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Has reports whether the entry has a field with the given name.
func (e Entry) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Venue returns the venue field value: booktitle for proceedings entries,
// falling back to journal.
func (e Entry) Venue() string {
	if v, ok := e.Get("booktitle"); ok && v != "" {
		return v
	}
	v, _ := e.Get("journal")
	return v
}

// Clone returns a deep copy of the entry. Callers that add fields must not
// alias the original's field slice.
func (e Entry) Clone() Entry {
	out := e
	out.Fields = append([]Field(nil), e.Fields...)
	return out
}
