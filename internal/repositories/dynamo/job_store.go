package dynamo

import (
	"context"
	"fmt"
	"sort"

	"fabric-backend/internal/models"
	"fabric-backend/internal/repositories"
)

type jobItem struct {
	JobID        string  `dynamodbav:"job_id"`
	PartyName    string  `dynamodbav:"party_name"`
	FabricType   string  `dynamodbav:"fabric_type"`
	Quantity     float64 `dynamodbav:"quantity"`
	Rate         float64 `dynamodbav:"rate"`
	MobileNumber string  `dynamodbav:"mobile_number"`
	Stage        string  `dynamodbav:"stage"`
	DeliveryDate string  `dynamodbav:"delivery_date,omitempty"`
	CreatedAt    string  `dynamodbav:"created_at"`
	UpdatedAt    string  `dynamodbav:"updated_at"`
}

func toJobItem(j *models.Job) jobItem {
	it := jobItem{
		JobID:        j.JobID,
		PartyName:    j.PartyName,
		FabricType:   j.FabricType,
		Quantity:     j.Quantity,
		Rate:         j.Rate,
		MobileNumber: j.MobileNumber,
		Stage:        string(j.Stage),
		CreatedAt:    formatTime(j.CreatedAt),
		UpdatedAt:    formatTime(j.UpdatedAt),
	}
	if j.DeliveryDate != nil {
		it.DeliveryDate = formatTime(*j.DeliveryDate)
	}
	return it
}

func fromJobItem(it jobItem) *models.Job {
	j := &models.Job{
		JobID:        it.JobID,
		PartyName:    it.PartyName,
		FabricType:   it.FabricType,
		Quantity:     it.Quantity,
		Rate:         it.Rate,
		MobileNumber: it.MobileNumber,
		Stage:        models.Stage(it.Stage),
		CreatedAt:    parseTime(it.CreatedAt),
		UpdatedAt:    parseTime(it.UpdatedAt),
	}
	if it.DeliveryDate != "" {
		d := parseTime(it.DeliveryDate)
		j.DeliveryDate = &d
	}
	return j
}

// JobStore persists jobs keyed by job_id
type JobStore struct {
	ddb   API
	table string
}

func NewJobStore(ddb API, table string) *JobStore {
	return &JobStore{ddb: ddb, table: table}
}

func (s *JobStore) Create(ctx context.Context, job *models.Job) error {
	err := put(ctx, s.ddb, s.table, "job_id", toJobItem(job), condNotExists)
	if isConditionFailed(err) {
		return fmt.Errorf("job %s already exists", job.JobID)
	}
	return err
}

func (s *JobStore) GetByJobID(ctx context.Context, jobID string) (*models.Job, error) {
	var it jobItem
	ok, err := get(ctx, s.ddb, s.table, "job_id", jobID, &it)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return fromJobItem(it), nil
}

func (s *JobStore) SearchByPartyName(ctx context.Context, pattern string) ([]*models.Job, error) {
	items, err := scanAll[jobItem](ctx, s.ddb, s.table)
	if err != nil {
		return nil, err
	}
	var jobs []*models.Job
	for _, it := range items {
		if containsFold(it.PartyName, pattern) {
			jobs = append(jobs, fromJobItem(it))
		}
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].CreatedAt.After(jobs[k].CreatedAt) })
	return jobs, nil
}

// UpdateStage rewrites the job item; it fails with ErrNotFound if the job is gone
func (s *JobStore) UpdateStage(ctx context.Context, job *models.Job) error {
	err := put(ctx, s.ddb, s.table, "job_id", toJobItem(job), condExists)
	if isConditionFailed(err) {
		return repositories.ErrNotFound
	}
	return err
}

func (s *JobStore) StageCounts(ctx context.Context) (map[models.Stage]int, error) {
	items, err := scanAll[jobItem](ctx, s.ddb, s.table)
	if err != nil {
		return nil, err
	}
	counts := make(map[models.Stage]int)
	for _, it := range items {
		counts[models.Stage(it.Stage)]++
	}
	return counts, nil
}
