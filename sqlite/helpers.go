package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/jobsift"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// attributeColumns holds the nullable column values of one Attributes.
type attributeColumns struct {
	pythonRequired     sql.NullBool
	experienceRequired sql.NullString
	languages          sql.NullString
	technologies       sql.NullString
	niceToKnow         sql.NullString
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// encodeAttributes converts a to column values. Missing fields become NULL.
func encodeAttributes(a *jobsift.Attributes) attributeColumns {
	var c attributeColumns
	if a.PythonRequired != nil {
		c.pythonRequired = sql.NullBool{Bool: *a.PythonRequired, Valid: true}
	}
	if a.ExperienceRequired != nil {
		c.experienceRequired = sql.NullString{String: a.ExperienceRequired.String(), Valid: true}
	}
	c.languages = nullString(jobsift.EncodeList(a.OtherProgrammingLanguages))
	c.technologies = nullString(jobsift.EncodeList(a.RequiredTechnologies))
	c.niceToKnow = nullString(jobsift.EncodeList(a.NiceToKnow))
	return c
}

// decode rebuilds Attributes for url from column values.
func (c attributeColumns) decode(url string) (*jobsift.Attributes, error) {
	a := &jobsift.Attributes{URL: url}
	if c.pythonRequired.Valid {
		b := c.pythonRequired.Bool
		a.PythonRequired = &b
	}
	if c.experienceRequired.Valid {
		exp, err := jobsift.ParseExperience(c.experienceRequired.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse experience_required: %w", err)
		}
		a.ExperienceRequired = &exp
	}
	lists := []struct {
		col sql.NullString
		dst *[]string
	}{
		{c.languages, &a.OtherProgrammingLanguages},
		{c.technologies, &a.RequiredTechnologies},
		{c.niceToKnow, &a.NiceToKnow},
	}
	for _, l := range lists {
		v, err := jobsift.DecodeList(stringPtr(l.col))
		if err != nil {
			return nil, fmt.Errorf("failed to parse list column: %w", err)
		}
		*l.dst = v
	}
	return a, nil
}

// scanDest returns scan targets in column order.
func (c *attributeColumns) scanDest() []any {
	return []any{&c.pythonRequired, &c.experienceRequired, &c.languages, &c.technologies, &c.niceToKnow}
}

// args returns the column values as query arguments.
func (c attributeColumns) args() []any {
	return []any{c.pythonRequired, c.experienceRequired, c.languages, c.technologies, c.niceToKnow}
}
