package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"time"

	"fabric-backend/internal/models"
	"fabric-backend/internal/repositories"
)

type memJobStore struct {
	mu        sync.Mutex
	jobs      map[string]*models.Job
	updateErr error
}

func newMemJobStore() *memJobStore {
	return &memJobStore{jobs: map[string]*models.Job{}}
}

func (m *memJobStore) Create(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.JobID]; ok {
		return fmt.Errorf("duplicate job id %s", job.JobID)
	}
	job.ID = len(m.jobs) + 1
	c := *job
	m.jobs[job.JobID] = &c
	return nil
}

func (m *memJobStore) GetByJobID(ctx context.Context, jobID string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *j
	return &c, nil
}

func (m *memJobStore) SearchByPartyName(ctx context.Context, pattern string) ([]*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Job
	for _, j := range m.jobs {
		if strings.Contains(strings.ToLower(j.PartyName), strings.ToLower(pattern)) {
			c := *j
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memJobStore) UpdateStage(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	j, ok := m.jobs[job.JobID]
	if !ok {
		return repositories.ErrNotFound
	}
	j.Stage = job.Stage
	j.DeliveryDate = job.DeliveryDate
	j.UpdatedAt = job.UpdatedAt
	return nil
}

func (m *memJobStore) StageCounts(ctx context.Context) (map[models.Stage]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[models.Stage]int{}
	for _, j := range m.jobs {
		counts[j.Stage]++
	}
	return counts, nil
}

type memExpenseStore struct {
	mu       sync.Mutex
	expenses []*models.Expense
}

func (m *memExpenseStore) Create(ctx context.Context, e *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *e
	m.expenses = append(m.expenses, &c)
	return nil
}

func (m *memExpenseStore) find(id string) *models.Expense {
	for _, e := range m.expenses {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (m *memExpenseStore) Get(ctx context.Context, id string) (*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.find(id)
	if e == nil {
		return nil, repositories.ErrNotFound
	}
	c := *e
	return &c, nil
}

func (m *memExpenseStore) UpdateAmount(ctx context.Context, id string, amount, gst float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.find(id)
	if e == nil {
		return repositories.ErrNotFound
	}
	e.Amount, e.GST = amount, gst
	return nil
}

func (m *memExpenseStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.expenses {
		if e.ID == id {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *memExpenseStore) List(ctx context.Context, f models.ExpenseFilter) ([]*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Expense
	for _, e := range m.expenses {
		if f.Pattern != "" && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(f.Pattern)) {
			continue
		}
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !e.Date.Before(*f.To) {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memExpenseStore) ListByJob(ctx context.Context, jobID string) ([]*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Expense
	for _, e := range m.expenses {
		if strings.Contains(e.Description, jobID) || (e.JobID != nil && *e.JobID == jobID) {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memExpenseStore) Total(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var t float64
	for _, e := range m.expenses {
		t += e.Amount
	}
	return t, nil
}

func (m *memExpenseStore) MonthlyTotals(ctx context.Context) ([]models.MonthExpense, error) {
	return nil, nil
}

func (m *memExpenseStore) all() []*models.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Expense(nil), m.expenses...)
}

type memRateStore struct {
	cfg   *models.RateConfig
	gets  int
	fails bool
}

func (m *memRateStore) Get(ctx context.Context) (*models.RateConfig, error) {
	m.gets++
	if m.fails {
		return nil, errors.New("connection refused")
	}
	if m.cfg == nil {
		return nil, repositories.ErrNotFound
	}
	c := *m.cfg
	return &c, nil
}

func (m *memRateStore) Upsert(ctx context.Context, coating, washing float64) (*models.RateConfig, error) {
	m.cfg = &models.RateConfig{CoatingRate: coating, WashingRate: washing, UpdatedAt: time.Now()}
	c := *m.cfg
	return &c, nil
}

type memBillStore struct {
	mu    sync.Mutex
	files map[string][]byte
	order []string
}

func newMemBillStore() *memBillStore {
	return &memBillStore{files: map[string][]byte{}}
}

func (m *memBillStore) Save(ctx context.Context, name string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		m.order = append(m.order, name)
	}
	m.files[name] = content
	return nil
}

func (m *memBillStore) FindByJobID(ctx context.Context, jobID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.order {
		if strings.Contains(n, jobID) {
			return n, nil
		}
	}
	return "", fmt.Errorf("bill for %s: %w", jobID, fs.ErrNotExist)
}

func (m *memBillStore) Open(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("bill %s: %w", name, fs.ErrNotExist)
	}
	return c, nil
}

type sentMessage struct {
	to, body, mediaURL string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeSender) SendMedia(ctx context.Context, to, body, mediaURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{to, body, mediaURL})
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("SM%d", len(f.sent)), nil
}

func (f *fakeSender) GetName() string { return "fake" }

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

// syncQueue runs side effects inline so tests observe them on return
type syncQueue struct {
	engine *StageService
	errs   []error
	fail   error
}

func (q *syncQueue) Enqueue(ctx context.Context, change models.StageChange) error {
	if q.fail != nil {
		return q.fail
	}
	q.errs = append(q.errs, q.engine.RunSideEffects(ctx, change))
	return nil
}

type recordingObserver struct {
	changes []models.Stage
}

func (o *recordingObserver) StageChanged(job *models.Job) {
	o.changes = append(o.changes, job.Stage)
}

// fixture wires every service against in-memory stores
type fixture struct {
	jobs     *memJobStore
	expenses *memExpenseStore
	rates    *memRateStore
	bills    *memBillStore
	sender   *fakeSender
	queue    *syncQueue
	observer *recordingObserver

	jobSvc     *JobService
	stageSvc   *StageService
	expenseSvc *ExpenseService
	rateSvc    *RateService
	invoiceSvc *InvoiceService
	notifySvc  *NotificationService
	dashSvc    *DashboardService
}

func newFixture() *fixture {
	f := &fixture{
		jobs:     newMemJobStore(),
		expenses: &memExpenseStore{},
		rates:    &memRateStore{},
		bills:    newMemBillStore(),
		sender:   &fakeSender{},
		observer: &recordingObserver{},
	}
	f.jobSvc = NewJobService(f.jobs)
	f.expenseSvc = NewExpenseService(f.expenses)
	f.rateSvc = NewRateService(f.rates)
	f.invoiceSvc = NewInvoiceService(f.bills, f.jobs, testBusiness, "https://fabric.example.com/")
	f.notifySvc = NewNotificationService(f.sender, f.jobs, f.invoiceSvc)
	f.dashSvc = NewDashboardService(f.jobs, f.expenses)
	f.stageSvc = NewStageService(f.jobs, f.expenses, f.rateSvc, f.invoiceSvc, f.notifySvc)
	f.queue = &syncQueue{engine: f.stageSvc}
	f.stageSvc.Queue = f.queue
	f.stageSvc.Observer = f.observer
	return f
}

func (f *fixture) createJob(ctx context.Context, party string, qty, rate float64) *models.Job {
	job, err := f.jobSvc.CreateJob(ctx, &models.CreateJobRequest{
		PartyName:    party,
		FabricType:   "cotton",
		Quantity:     qty,
		Rate:         rate,
		MobileNumber: "9876543210",
	})
	if err != nil {
		panic(err)
	}
	return job
}

func ptr(v float64) *float64 { return &v }
