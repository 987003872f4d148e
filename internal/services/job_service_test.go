package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"fabric-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJobStartsRaw(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.jobSvc.CreateJob(ctx, &models.CreateJobRequest{
		PartyName:    " Acme ",
		FabricType:   "cotton",
		Quantity:     100,
		Rate:         50,
		MobileNumber: "9876543210",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(job.JobID, "FAB"))
	assert.Equal(t, "Acme", job.PartyName)
	assert.Equal(t, models.StageRaw, job.Stage)
	assert.Nil(t, job.DeliveryDate)

	stored, err := f.jobSvc.GetJob(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, job.JobID, stored.JobID)
}

func TestCreateJobIDsAreUnique(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		job := f.createJob(ctx, "Acme", 1, 1)
		require.False(t, seen[job.JobID], job.JobID)
		seen[job.JobID] = true
	}
}

func TestNextJobIDIsIncreasing(t *testing.T) {
	now := time.Now()
	a := nextJobID(now)
	b := nextJobID(now)
	c := nextJobID(now.Add(-time.Hour))
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestCreateJobValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	valid := func() *models.CreateJobRequest {
		return &models.CreateJobRequest{PartyName: "Acme", FabricType: "cotton", Quantity: 1, Rate: 1, MobileNumber: "9876543210"}
	}

	cases := map[string]func(r *models.CreateJobRequest){
		"missing party":  func(r *models.CreateJobRequest) { r.PartyName = "  " },
		"missing fabric": func(r *models.CreateJobRequest) { r.FabricType = "" },
		"zero quantity":  func(r *models.CreateJobRequest) { r.Quantity = 0 },
		"negative rate":  func(r *models.CreateJobRequest) { r.Rate = -5 },
		"missing mobile": func(r *models.CreateJobRequest) { r.MobileNumber = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := valid()
			mutate(req)
			_, err := f.jobSvc.CreateJob(ctx, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	counts, _ := f.jobs.StageCounts(ctx)
	assert.Empty(t, counts)
}

func TestGetJobNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.jobSvc.GetJob(context.Background(), "FAB0")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.jobSvc.GetJob(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSearchByPartyNameIgnoresCase(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.createJob(ctx, "Shree Ram Textiles", 1, 1)
	f.createJob(ctx, "Acme", 1, 1)

	jobs, err := f.jobSvc.SearchByPartyName(ctx, "ram tex")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Shree Ram Textiles", jobs[0].PartyName)

	none, err := f.jobSvc.SearchByPartyName(ctx, "zzz")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestScanReportsNextStage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	job := f.createJob(ctx, "Acme", 1, 1)

	res, err := f.jobSvc.Scan(ctx, "  "+job.JobID+" ")
	require.NoError(t, err)
	require.NotNil(t, res.NextStage)
	assert.Equal(t, models.StageCoated, *res.NextStage)

	_, err = f.stageSvc.AdvanceStage(ctx, job.JobID, "delivered")
	require.NoError(t, err)

	res, err = f.jobSvc.Scan(ctx, job.JobID)
	require.NoError(t, err)
	assert.Nil(t, res.NextStage)
	assert.Equal(t, models.StageDelivered, res.Stage)
}

func TestScanUnknownStoredStage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	job := f.createJob(ctx, "Acme", 1, 1)
	f.jobs.jobs[job.JobID].Stage = "dyed"

	res, err := f.jobSvc.Scan(ctx, job.JobID)
	require.NoError(t, err)
	assert.Nil(t, res.NextStage)
}
