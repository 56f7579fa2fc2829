package jobsift

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Columns is the output dataset schema, in order.
var Columns = []string{
	"url",
	"company",
	"title",
	"description",
	KeyPythonRequired,
	KeyExperienceRequired,
	KeyOtherProgrammingLanguages,
	KeyRequiredTechnologies,
	KeyNiceToKnow,
}

// Row is a scraped record widened with its extracted attributes.
// Attributes is nil when extraction failed or was skipped.
type Row struct {
	*JobRecord
	Attributes *Attributes
}

// Values returns the row's cells in Columns order. A nil cell is a null value.
// List fields are encoded as JSON arrays.
func (r *Row) Values() []*string {
	vals := []*string{
		StringPtr(r.URL),
		r.Company,
		r.Title,
		r.Description,
		nil, nil, nil, nil, nil,
	}
	a := r.Attributes
	if a == nil {
		return vals
	}
	if a.PythonRequired != nil {
		vals[4] = StringPtr(strconv.FormatBool(*a.PythonRequired))
	}
	if a.ExperienceRequired != nil {
		vals[5] = StringPtr(a.ExperienceRequired.String())
	}
	vals[6] = EncodeList(a.OtherProgrammingLanguages)
	vals[7] = EncodeList(a.RequiredTechnologies)
	vals[8] = EncodeList(a.NiceToKnow)
	return vals
}

// RowFromValues rebuilds a Row from cells in Columns order.
func RowFromValues(vals []*string) (*Row, error) {
	if len(vals) != len(Columns) {
		return nil, Errorf(EINVALID, "row has %d columns, want %d", len(vals), len(Columns))
	}
	if vals[0] == nil || *vals[0] == "" {
		return nil, Errorf(EINVALID, "row URL required")
	}

	row := &Row{JobRecord: &JobRecord{
		URL:         *vals[0],
		Company:     vals[1],
		Title:       vals[2],
		Description: vals[3],
	}}

	attrs := &Attributes{URL: row.URL}
	present := false
	if vals[4] != nil {
		b, err := strconv.ParseBool(*vals[4])
		if err != nil {
			return nil, Errorf(EINVALID, "invalid %s %q", KeyPythonRequired, *vals[4])
		}
		attrs.PythonRequired = &b
		present = true
	}
	if vals[5] != nil {
		exp, err := ParseExperience(*vals[5])
		if err != nil {
			return nil, Errorf(EINVALID, "invalid %s: %v", KeyExperienceRequired, err)
		}
		attrs.ExperienceRequired = &exp
		present = true
	}
	lists := []*[]string{&attrs.OtherProgrammingLanguages, &attrs.RequiredTechnologies, &attrs.NiceToKnow}
	for i, dst := range lists {
		v, err := DecodeList(vals[6+i])
		if err != nil {
			return nil, Errorf(EINVALID, "invalid %s: %v", Columns[6+i], err)
		}
		if v != nil {
			*dst = v
			present = true
		}
	}
	if present {
		row.Attributes = attrs
	}
	return row, nil
}

// EncodeList encodes a list field as a JSON array. A nil list stays null.
func EncodeList(items []string) *string {
	if items == nil {
		return nil
	}
	b, _ := json.Marshal(items)
	return StringPtr(string(b))
}

// DecodeList decodes a list field encoded by EncodeList.
func DecodeList(s *string) ([]string, error) {
	if s == nil {
		return nil, nil
	}
	items := []string{}
	if err := json.Unmarshal([]byte(*s), &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return items, nil
}
