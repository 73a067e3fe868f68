package cdaibatch

import "strings"

// Field identifies one of the known roster columns. The synonym table and
// every page placement are keyed on Field, so a name mismatch between the
// two surfaces as a construction-time validation error instead of a silent
// no-op at stamp time.
type Field string

const (
	FieldMC        Field = "mc"
	FieldLastName  Field = "lastname"
	FieldFirstName Field = "firstname"
	FieldDOB       Field = "dob"
	FieldWeight    Field = "wt"
	FieldHeight    Field = "ht"
	FieldLocation  Field = "location"
)

// knownFields is the closed set of fields a record can carry.
var knownFields = map[Field]bool{
	FieldMC:        true,
	FieldLastName:  true,
	FieldFirstName: true,
	FieldDOB:       true,
	FieldWeight:    true,
	FieldHeight:    true,
	FieldLocation:  true,
}

// synonyms maps normalized roster headers onto their canonical field.
var synonyms = map[string]Field{
	"birthdate":        FieldDOB,
	"medicarenumber":   FieldMC,
	"infusionlocation": FieldLocation,
	"height":           FieldHeight,
	"weight":           FieldWeight,
}

// KnownFields returns every field in the enumeration, in a fixed order.
func KnownFields() []Field {
	return []Field{
		FieldMC,
		FieldLastName,
		FieldFirstName,
		FieldDOB,
		FieldWeight,
		FieldHeight,
		FieldLocation,
	}
}

// ParseField reports whether s names a known field exactly.
func ParseField(s string) (Field, bool) {
	f := Field(s)
	return f, knownFields[f]
}

// NormalizeHeader canonicalizes a roster column header: surrounding
// whitespace is trimmed, the result is lowercased, and interior spaces are
// removed, so "Medicare Number" and " medicarenumber " both normalize to
// "medicarenumber".
func NormalizeHeader(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
}

// ResolveField maps a raw roster header onto its field: the header is
// normalized, synonym-resolved, and matched against the enumeration.
// Headers naming no known field resolve to false and are dropped by the
// roster reader.
func ResolveField(header string) (Field, bool) {
	n := NormalizeHeader(header)
	if f, ok := synonyms[n]; ok {
		return f, true
	}
	return ParseField(n)
}
