package jobsift_test

import (
	"testing"

	"github.com/fwojciec/jobsift"
	"github.com/stretchr/testify/assert"
)

func TestNewJobRecord(t *testing.T) {
	t.Parallel()

	t.Run("nil posting yields all-null record", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, &jobsift.JobRecord{URL: "u"}, jobsift.NewJobRecord("u", nil))
	})

	t.Run("copies posting fields", func(t *testing.T) {
		t.Parallel()

		p := &jobsift.Posting{Company: jobsift.StringPtr("Acme"), Description: jobsift.StringPtr("")}

		rec := jobsift.NewJobRecord("u", p)

		assert.Equal(t, "Acme", *rec.Company)
		assert.Nil(t, rec.Title)
		assert.Equal(t, "", *rec.Description)
	})
}

func TestJobRecord_HasDescription(t *testing.T) {
	t.Parallel()

	assert.False(t, (&jobsift.JobRecord{URL: "u"}).HasDescription())
	assert.False(t, (&jobsift.JobRecord{URL: "u", Description: jobsift.StringPtr("")}).HasDescription())
	assert.True(t, (&jobsift.JobRecord{URL: "u", Description: jobsift.StringPtr("x")}).HasDescription())
}

func TestJobRecord_Validate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, jobsift.EINVALID, jobsift.ErrorCode((&jobsift.JobRecord{}).Validate()))
	assert.NoError(t, (&jobsift.JobRecord{URL: "u"}).Validate())
}

func TestResponse_OK(t *testing.T) {
	t.Parallel()

	var nilResp *jobsift.Response
	assert.False(t, nilResp.OK())
	assert.False(t, (&jobsift.Response{StatusCode: 404}).OK())
	assert.True(t, (&jobsift.Response{StatusCode: 200}).OK())
}

func TestBatch_Validate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, jobsift.EINVALID, jobsift.ErrorCode((&jobsift.Batch{}).Validate()))
	assert.Equal(t, jobsift.EINVALID, jobsift.ErrorCode((&jobsift.Batch{Source: "a", Total: -1}).Validate()))
	assert.NoError(t, (&jobsift.Batch{Source: "a"}).Validate())
}

func TestSite_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(unknown)", jobsift.SiteUnknown.String())
	assert.Equal(t, "indeed", jobsift.SiteIndeed.String())
}
