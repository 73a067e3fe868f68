// Package cdaibatch generates filled CDAI application forms from a tabular
// patient roster. Each roster row is turned into one PDF by splitting a fixed
// multi-page template, stamping the row's values onto the pages that carry
// field placements, and merging the pages back into a single document. A
// batch run bundles every generated document together with a plain-text
// processing report into one archive.
//
// The package itself holds the domain model: the field enumeration, records,
// placements, the run configuration, per-record results, and the error
// taxonomy. The roster, pageops, and batch packages consume it.
package cdaibatch

import "fmt"

// Point is a stamp position in PDF points. The origin is the top-left corner
// of the page, Y grows downward, and Y is the text baseline before the fixed
// baseline drop applied at stamp time.
type Point struct {
	X float64
	Y float64
}

// FieldPlacement maps fields to the coordinates where their values are
// stamped on one page. A field may appear at several positions on the page.
type FieldPlacement map[Field][]Point

// Config describes one batch run: which template to fill, which pages carry
// placements, and how output documents are named. It is passed explicitly to
// the batch processor; nothing reads it from process-wide state.
type Config struct {
	// TemplatePath is the multi-page form template every record is
	// stamped onto.
	TemplatePath string

	// Placements maps 1-based template page numbers to the fields stamped
	// on that page. Pages without an entry pass through untouched, as do
	// configured pages beyond the template's page count.
	Placements map[int]FieldPlacement

	// OutputName derives the output document filename from a record.
	// Nil selects DefaultOutputName.
	OutputName func(Record) string
}

// DefaultTemplateFile is the blank CDAI application shipped alongside the
// service.
const DefaultTemplateFile = "BLANK_CDAI_APP_DEC-25.pdf"

// DefaultConfig returns the production CDAI configuration: the blank
// application template with the medicare number, name, date of birth, weight
// and height stamped on page 1, and the weight repeated on page 3.
func DefaultConfig() Config {
	return Config{
		TemplatePath: DefaultTemplateFile,
		Placements: map[int]FieldPlacement{
			1: {
				FieldMC:        {{X: 75, Y: 250}},
				FieldLastName:  {{X: 75, Y: 330}},
				FieldFirstName: {{X: 75, Y: 360}},
				FieldDOB:       {{X: 75, Y: 400}},
				FieldWeight:    {{X: 75, Y: 430}},
				FieldHeight:    {{X: 75, Y: 475}},
			},
			3: {
				FieldWeight: {{X: 325, Y: 525}},
			},
		},
		OutputName: DefaultOutputName,
	}
}

// DefaultOutputName names an output document {lastname}_{firstname}_CDAI.pdf,
// substituting placeholders for absent name fields.
func DefaultOutputName(r Record) string {
	last, ok := r.Get(FieldLastName)
	if !ok {
		last = "unknown_lastname"
	}
	first, ok := r.Get(FieldFirstName)
	if !ok {
		first = "unknown_firstname"
	}
	return fmt.Sprintf("%s_%s_CDAI.pdf", last, first)
}

// Validate checks that the configuration can drive a batch run.
func (c Config) Validate() error {
	if c.TemplatePath == "" {
		return fmt.Errorf("cdaibatch: config: template path is empty")
	}
	if len(c.Placements) == 0 {
		return fmt.Errorf("cdaibatch: config: no page placements configured")
	}
	for page, placement := range c.Placements {
		if page < 1 {
			return fmt.Errorf("cdaibatch: config: page index %d is not 1-based", page)
		}
		if len(placement) == 0 {
			return fmt.Errorf("cdaibatch: config: page %d has an empty placement", page)
		}
		for field, points := range placement {
			if _, ok := ParseField(string(field)); !ok {
				return fmt.Errorf("cdaibatch: config: page %d places unknown field %q", page, field)
			}
			if len(points) == 0 {
				return fmt.Errorf("cdaibatch: config: page %d field %q has no coordinates", page, field)
			}
		}
	}
	return nil
}
