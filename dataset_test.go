package jobsift_test

import (
	"testing"

	"github.com/fwojciec/jobsift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_Values(t *testing.T) {
	t.Parallel()

	t.Run("null attributes leave cells null", func(t *testing.T) {
		t.Parallel()

		row := &jobsift.Row{JobRecord: &jobsift.JobRecord{URL: "u", Title: jobsift.StringPtr("T")}}

		vals := row.Values()

		require.Len(t, vals, len(jobsift.Columns))
		assert.Equal(t, "u", *vals[0])
		assert.Nil(t, vals[1])
		assert.Equal(t, "T", *vals[2])
		for _, v := range vals[3:] {
			assert.Nil(t, v)
		}
	})

	t.Run("encodes attributes", func(t *testing.T) {
		t.Parallel()

		python := true
		row := &jobsift.Row{
			JobRecord: &jobsift.JobRecord{URL: "u"},
			Attributes: &jobsift.Attributes{
				URL:                  "u",
				PythonRequired:       &python,
				ExperienceRequired:   &jobsift.Experience{Years: 2, Required: true},
				RequiredTechnologies: []string{"Spark"},
				NiceToKnow:           []string{},
			},
		}

		vals := row.Values()

		assert.Equal(t, "true", *vals[4])
		assert.Equal(t, "2", *vals[5])
		assert.Nil(t, vals[6])
		assert.Equal(t, `["Spark"]`, *vals[7])
		assert.Equal(t, `[]`, *vals[8])
	})
}

func TestRowFromValues(t *testing.T) {
	t.Parallel()

	t.Run("rebuilds row", func(t *testing.T) {
		t.Parallel()

		python := false
		want := &jobsift.Row{
			JobRecord: &jobsift.JobRecord{URL: "u", Company: jobsift.StringPtr("Acme")},
			Attributes: &jobsift.Attributes{
				URL:                       "u",
				PythonRequired:            &python,
				OtherProgrammingLanguages: []string{"Java"},
			},
		}

		got, err := jobsift.RowFromValues(want.Values())

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("all-null attribute cells yield nil attributes", func(t *testing.T) {
		t.Parallel()

		got, err := jobsift.RowFromValues((&jobsift.Row{JobRecord: &jobsift.JobRecord{URL: "u"}}).Values())

		require.NoError(t, err)
		assert.Nil(t, got.Attributes)
	})

	t.Run("rejects wrong width", func(t *testing.T) {
		t.Parallel()

		_, err := jobsift.RowFromValues([]*string{jobsift.StringPtr("u")})

		assert.Equal(t, jobsift.EINVALID, jobsift.ErrorCode(err))
	})

	t.Run("rejects missing URL", func(t *testing.T) {
		t.Parallel()

		_, err := jobsift.RowFromValues(make([]*string, len(jobsift.Columns)))

		assert.Equal(t, jobsift.EINVALID, jobsift.ErrorCode(err))
	})

	t.Run("rejects malformed list", func(t *testing.T) {
		t.Parallel()

		vals := make([]*string, len(jobsift.Columns))
		vals[0] = jobsift.StringPtr("u")
		vals[7] = jobsift.StringPtr("Spark, dbt")

		_, err := jobsift.RowFromValues(vals)

		assert.Equal(t, jobsift.EINVALID, jobsift.ErrorCode(err))
	})
}
