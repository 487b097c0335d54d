package proposal

import "time"

type EventType string

const (
	EventCreated            EventType = "ProposalCreated"
	EventSubmitted          EventType = "ProposalSubmitted"
	EventApproved           EventType = "ProposalApproved"
	EventRejected           EventType = "ProposalRejected"
	EventPending            EventType = "ProposalPending"
	EventResubmitted        EventType = "ProposalResubmitted"
	EventContractGenerated  EventType = "ProposalContractGenerated"
	EventSignatureCompleted EventType = "ProposalSignatureCompleted"
	EventCancelled          EventType = "ProposalCancelled"
	EventSuspended          EventType = "ProposalSuspended"
)

// Event is a lifecycle fact recorded by the aggregate and published by the
// caller after a successful persistence call.
type Event struct {
	AggregateID string         `json:"aggregateId"`
	Type        EventType      `json:"eventType"`
	OccurredAt  time.Time      `json:"occurredAt"`
	Payload     map[string]any `json:"payload,omitempty"`
}

func (p *Proposal) recordEvent(t EventType, payload map[string]any) {
	p.events = append(p.events, Event{
		AggregateID: p.ID,
		Type:        t,
		OccurredAt:  time.Now(),
		Payload:     payload,
	})
}

// UncommittedEvents returns the outbox collected since the last drain.
func (p *Proposal) UncommittedEvents() []Event {
	return p.events
}

// MarkEventsCommitted clears the outbox once the caller has acknowledged
// persistence of the aggregate and publication of its events.
func (p *Proposal) MarkEventsCommitted() {
	p.events = nil
}
