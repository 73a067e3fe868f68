package cdaibatch

// Record holds one roster row: the scalar value of every field that was
// present and non-empty in the row. Absent fields have no entry at all, so
// a missing column and an empty cell are indistinguishable downstream and
// neither is ever rendered onto a page.
type Record map[Field]string

// Get returns the value of f and whether it is present.
func (r Record) Get(f Field) (string, bool) {
	v, ok := r[f]
	return v, ok
}

// Has reports whether f carries a value.
func (r Record) Has(f Field) bool {
	_, ok := r[f]
	return ok
}

// Set stores v under f. Empty values are dropped: setting the empty string
// leaves the field absent.
func (r Record) Set(f Field, v string) {
	if v == "" {
		return
	}
	r[f] = v
}

// PatientName is the display name used to identify the record in report
// lines: "{firstname} {lastname}", with an empty first name and "N/A" for a
// missing last name.
func (r Record) PatientName() string {
	first, _ := r.Get(FieldFirstName)
	last, ok := r.Get(FieldLastName)
	if !ok {
		last = "N/A"
	}
	return first + " " + last
}
