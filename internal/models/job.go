package models

import "time"

// Stage is one step of the fabric processing pipeline
type Stage string

const (
	StageRaw       Stage = "raw"
	StageCoated    Stage = "coated"
	StagePrinted   Stage = "printed"
	StageWashed    Stage = "washed"
	StagePacked    Stage = "packed"
	StageDelivered Stage = "delivered"
)

// Stages lists every stage in processing order
var Stages = []Stage{StageRaw, StageCoated, StagePrinted, StageWashed, StagePacked, StageDelivered}

// Index returns the position of the stage in the pipeline, or -1 if unknown
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the known stages
func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// Next returns the stage after s. Terminal and unknown stages have no successor.
func (s Stage) Next() (Stage, bool) {
	idx := s.Index()
	if idx < 0 || idx+1 >= len(Stages) {
		return "", false
	}
	return Stages[idx+1], true
}

// Job is a unit of fabric work for a party, tracked from intake to delivery
type Job struct {
	ID           int        `json:"-"`
	JobID        string     `json:"jobId"`
	PartyName    string     `json:"partyName"`
	FabricType   string     `json:"fabricType"`
	Quantity     float64    `json:"quantity"`
	Rate         float64    `json:"rate"`
	MobileNumber string     `json:"mobileNumber"`
	Stage        Stage      `json:"stage"`
	DeliveryDate *time.Time `json:"deliveryDate"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreateJobRequest represents the request to register a new job
type CreateJobRequest struct {
	PartyName    string  `json:"partyName" validate:"required"`
	FabricType   string  `json:"fabricType" validate:"required"`
	Quantity     float64 `json:"quantity" validate:"required,gt=0"`
	Rate         float64 `json:"rate" validate:"required,gt=0"`
	MobileNumber string  `json:"mobileNumber" validate:"required"`
}

// UpdateStageRequest moves a job to a new stage
type UpdateStageRequest struct {
	JobID string `json:"jobId"`
	Stage string `json:"stage"`
}

// ScanRequest looks a job up by the id printed on its tag
type ScanRequest struct {
	JobID string `json:"jobId"`
}

// ScanResult is what the floor scanner sees for a job
type ScanResult struct {
	JobID        string  `json:"jobId"`
	PartyName    string  `json:"partyName"`
	FabricType   string  `json:"fabricType"`
	Quantity     float64 `json:"quantity"`
	Stage        Stage   `json:"stage"`
	NextStage    *Stage  `json:"nextStage"`
	MobileNumber string  `json:"mobileNumber"`
}

// StageChange is the snapshot handed to the background side-effect runner
type StageChange struct {
	Job       Job       `json:"job"`
	Stage     Stage     `json:"stage"`
	ChangedAt time.Time `json:"changed_at"`
}
