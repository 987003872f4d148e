package repositories

import (
	"context"
	"errors"

	"fabric-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JobRepository struct {
	DB *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) *JobRepository {
	return &JobRepository{DB: db}
}

const jobColumns = `id, job_id, party_name, fabric_type, quantity::float8, rate::float8, mobile_number,
		       stage, delivery_date, created_at, updated_at`

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO fabric_jobs (job_id, party_name, fabric_type, quantity, rate, mobile_number, stage, delivery_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRow(ctx, query,
		job.JobID, job.PartyName, job.FabricType, job.Quantity, job.Rate,
		job.MobileNumber, string(job.Stage), job.DeliveryDate, job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
}

func (r *JobRepository) GetByJobID(ctx context.Context, jobID string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM fabric_jobs WHERE job_id = $1`

	job, err := scanJob(r.DB.QueryRow(ctx, query, jobID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return job, err
}

// SearchByPartyName matches party names containing pattern, ignoring case
func (r *JobRepository) SearchByPartyName(ctx context.Context, pattern string) ([]*models.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM fabric_jobs
		WHERE party_name ILIKE $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(ctx, query, ContainsPattern(pattern))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *JobRepository) UpdateStage(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE fabric_jobs
		SET stage = $2, delivery_date = $3, updated_at = $4
		WHERE job_id = $1
	`
	tag, err := r.DB.Exec(ctx, query, job.JobID, string(job.Stage), job.DeliveryDate, job.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *JobRepository) StageCounts(ctx context.Context) (map[models.Stage]int, error) {
	rows, err := r.DB.Query(ctx, `SELECT stage, COUNT(*) FROM fabric_jobs GROUP BY stage`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Stage]int)
	for rows.Next() {
		var stage string
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, err
		}
		counts[models.Stage(stage)] = n
	}
	return counts, rows.Err()
}

func scanJob(row pgx.Row) (*models.Job, error) {
	job := &models.Job{}
	var stage string
	err := row.Scan(
		&job.ID, &job.JobID, &job.PartyName, &job.FabricType, &job.Quantity, &job.Rate,
		&job.MobileNumber, &stage, &job.DeliveryDate, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Stage = models.Stage(stage)
	return job, nil
}
