package fs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/jobsift"
	"github.com/parquet-go/parquet-go"
)

// datasetRow is the parquet layout of a jobsift.Row. Pointer fields are
// optional columns, so a null cell and an empty string stay distinct.
type datasetRow struct {
	URL                       string  `parquet:"url"`
	Company                   *string `parquet:"company"`
	Title                     *string `parquet:"title"`
	Description               *string `parquet:"description"`
	PythonRequired            *bool   `parquet:"python_required"`
	ExperienceRequired        *string `parquet:"experience_required"`
	OtherProgrammingLanguages *string `parquet:"other_programming_languages"`
	RequiredTechnologies      *string `parquet:"required_technologies"`
	NiceToKnow                *string `parquet:"nice_to_know"`
}

func toDatasetRow(row *jobsift.Row) datasetRow {
	v := row.Values()
	out := datasetRow{
		URL:                       row.URL,
		Company:                   v[1],
		Title:                     v[2],
		Description:               v[3],
		ExperienceRequired:        v[5],
		OtherProgrammingLanguages: v[6],
		RequiredTechnologies:      v[7],
		NiceToKnow:                v[8],
	}
	if row.Attributes != nil {
		out.PythonRequired = row.Attributes.PythonRequired
	}
	return out
}

func (r datasetRow) row() (*jobsift.Row, error) {
	var python *string
	if r.PythonRequired != nil {
		python = jobsift.StringPtr(strconv.FormatBool(*r.PythonRequired))
	}
	return jobsift.RowFromValues([]*string{
		jobsift.StringPtr(r.URL),
		r.Company,
		r.Title,
		r.Description,
		python,
		r.ExperienceRequired,
		r.OtherProgrammingLanguages,
		r.RequiredTechnologies,
		r.NiceToKnow,
	})
}

// SaveDataset writes rows as a parquet file to path, one column per
// jobsift.Columns entry. The file is written to a temporary sibling and
// renamed into place, so a failed write never leaves a truncated dataset behind.
func SaveDataset(rows []*jobsift.Row, path string) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	records := make([]datasetRow, len(rows))
	for i, row := range rows {
		records[i] = toDatasetRow(row)
	}
	if err := parquet.Write(tmp, records); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadDataset reads a parquet dataset written by SaveDataset.
func LoadDataset(path string) ([]*jobsift.Row, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, jobsift.Errorf(jobsift.ENOTFOUND, "dataset %s not found", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	records, err := parquet.Read[datasetRow](f, info.Size())
	if err != nil {
		return nil, jobsift.Errorf(jobsift.EINVALID, "reading dataset %s: %v", path, err)
	}

	rows := make([]*jobsift.Row, len(records))
	for i, rec := range records {
		row, err := rec.row()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = row
	}
	return rows, nil
}

// WriteCSV writes rows to w as CSV with a header of jobsift.Columns.
// It is a display format: null cells and empty strings are both written as
// empty fields. Use SaveDataset for a dataset that can be loaded back.
func WriteCSV(w io.Writer, rows []*jobsift.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(jobsift.Columns); err != nil {
		return err
	}
	record := make([]string, len(jobsift.Columns))
	for _, row := range rows {
		for i, v := range row.Values() {
			record[i] = ""
			if v != nil {
				record[i] = *v
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
