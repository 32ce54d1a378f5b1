// Package notify publishes lifecycle events so that other services (push
// notifications, dashboards) can follow requests without polling.
package notify

import (
	"context"
	"time"

	"roadside/pkg/models"
)

type EventType string

const (
	RequestCreated        EventType = "request.created"
	RequestAssigned       EventType = "request.assigned"
	RequestStarted        EventType = "request.started"
	RequestCompleted      EventType = "request.completed"
	RequestCancelled      EventType = "request.cancelled"
	MechanicStatusChanged EventType = "mechanic.status_changed"
)

type Event struct {
	Type           EventType             `json:"type"`
	RequestID      string                `json:"requestId,omitempty"`
	Status         models.RequestStatus  `json:"status,omitempty"`
	DriverID       string                `json:"driverId,omitempty"`
	MechanicID     string                `json:"mechanicId,omitempty"`
	MechanicStatus models.MechanicStatus `json:"mechanicStatus,omitempty"`
	ActorID        string                `json:"actorId"`
	OccurredAt     time.Time             `json:"occurredAt"`
}

// EventFor names the event emitted when a request enters status.
func EventFor(status models.RequestStatus) EventType {
	switch status {
	case models.StatusAssigned:
		return RequestAssigned
	case models.StatusInProgress:
		return RequestStarted
	case models.StatusCompleted:
		return RequestCompleted
	case models.StatusCancelled:
		return RequestCancelled
	default:
		return RequestCreated
	}
}

// RequestEvent describes req as it is after the change made by actor.
func RequestEvent(req *models.AssistanceRequest, actor models.Actor, at time.Time) Event {
	ev := Event{
		Type:       EventFor(req.Status),
		RequestID:  req.ID,
		Status:     req.Status,
		DriverID:   req.DriverID,
		ActorID:    actor.ID,
		OccurredAt: at,
	}
	if req.MechanicID != nil {
		ev.MechanicID = *req.MechanicID
	}
	return ev
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                       { return nil }
