package models

import "time"

type RequestStatus string

const (
	StatusPending    RequestStatus = "PENDING"
	StatusAssigned   RequestStatus = "ASSIGNED"
	StatusInProgress RequestStatus = "IN_PROGRESS"
	StatusCompleted  RequestStatus = "COMPLETED"
	StatusCancelled  RequestStatus = "CANCELLED"
)

var RequestStatuses = []RequestStatus{
	StatusPending,
	StatusAssigned,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Active statuses keep the assigned mechanic busy.
func (s RequestStatus) Active() bool {
	return s == StatusAssigned || s == StatusInProgress
}

type AssistanceRequest struct {
	ID          string        `json:"id"`
	ProblemType string        `json:"problemType"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Status      RequestStatus `json:"status"`
	DriverID    string        `json:"driverId"`
	MechanicID  *string       `json:"mechanicId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	CompletedAt *time.Time    `json:"completedAt"`

	Driver   *UserSummary `json:"driver,omitempty"`
	Mechanic *UserSummary `json:"mechanic,omitempty"`
}

func (r *AssistanceRequest) AssignedTo(userID string) bool {
	return r.MechanicID != nil && *r.MechanicID == userID
}

type NewAssistanceRequest struct {
	ProblemType string `json:"problemType" form:"problemType"`
	Description string `json:"description" form:"description"`
	Location    string `json:"location" form:"location"`
}

// RequestFilter selects requests for listing. Empty fields do not filter.
// When IncludeOpen is set, unassigned PENDING requests are returned in
// addition to those matching MechanicID.
type RequestFilter struct {
	DriverID    string
	MechanicID  string
	IncludeOpen bool
	Status      RequestStatus
	Limit       int
}

// RequestPatch is the body of PATCH /assistance-requests/{id}. Action is
// "assign" or "update"; an empty action with a status means "update".
type RequestPatch struct {
	Action     string        `json:"action" form:"action"`
	Status     RequestStatus `json:"status" form:"status"`
	MechanicID string        `json:"mechanicId" form:"mechanicId"`
}
