package api

import "time"

// PlanRequest is the body of POST /api/plan. Zero values fall back to the
// server's default run options.
type PlanRequest struct {
	Facilities         []string `json:"facilities,omitempty"`
	FacilityGroup      string   `json:"facility_group,omitempty"`
	Product            string   `json:"product,omitempty"`
	Supplier           string   `json:"supplier,omitempty"`
	DefaultHorizonDays int      `json:"default_horizon_days,omitempty"`
	Precision          *int32   `json:"precision,omitempty"`
	InterimRounding    string   `json:"interim_rounding,omitempty"`
	FinalRounding      string   `json:"final_rounding,omitempty"`
	ForecastPercent    string   `json:"forecast_percent,omitempty"`
	DeferredOrders     *bool    `json:"deferred_orders,omitempty"`
	Reinitialize       *bool    `json:"reinitialize,omitempty"`
}

// PlanResponse summarizes a completed planning run.
type PlanResponse struct {
	RunID         string           `json:"run_id"`
	StartedAt     time.Time        `json:"started_at"`
	CompletedAt   time.Time        `json:"completed_at"`
	LevelsScanned int              `json:"levels_scanned"`
	Requirements  []RequirementDTO `json:"requirements"`
	Commitments   []CommitmentDTO  `json:"commitments"`
	Warnings      []string         `json:"warnings"`
}

// RequirementDTO represents a proposed requirement in API responses.
type RequirementDTO struct {
	ID           string    `json:"id"`
	Product      string    `json:"product"`
	FacilityFrom string    `json:"facility_from,omitempty"`
	FacilityTo   string    `json:"facility_to"`
	Kind         string    `json:"kind"`
	Quantity     string    `json:"quantity"`
	StartDate    time.Time `json:"start_date"`
	RequiredBy   time.Time `json:"required_by"`
	Status       string    `json:"status"`
}

// CommitmentDTO links a demand order line to a requirement.
type CommitmentDTO struct {
	OrderID       string `json:"order_id"`
	OrderLineID   string `json:"order_line_id"`
	RequirementID string `json:"requirement_id"`
	Quantity      string `json:"quantity"`
}

// LedgerEventDTO represents one row of the ledger projection.
type LedgerEventDTO struct {
	Product  string    `json:"product"`
	Facility string    `json:"facility"`
	At       time.Time `json:"at"`
	Type     string    `json:"type"`
	Quantity string    `json:"quantity"`
	Balance  string    `json:"balance,omitempty"`
	Label    string    `json:"label,omitempty"`
	Late     bool      `json:"late,omitempty"`
	Level    int       `json:"level"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
