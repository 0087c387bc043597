package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/leadbase/apiserver/types"
	"github.com/sirupsen/logrus"
)

const (
	EventLeadCreated = "lead.created"
	EventLeadUpdated = "lead.updated"
	EventLeadDeleted = "lead.deleted"
)

// LeadRepository defines persistence operations for leads.
type LeadRepository interface {
	Create(ctx context.Context, lead types.LeadInput) (int64, error)
	List(ctx context.Context) ([]types.Lead, error)
	Update(ctx context.Context, id int64, lead types.LeadInput) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	CountByGender(ctx context.Context) ([]types.GenderCount, error)
	CountByStatus(ctx context.Context) ([]types.StatusCount, error)
}

// Publisher sends lead events to a broker channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// LeadEvent is the payload published after a lead mutation.
type LeadEvent struct {
	Type    string           `json:"type"`
	LeadID  int64            `json:"lead_id"`
	Lead    *types.LeadInput `json:"lead,omitempty"`
	Changes int64            `json:"changes,omitempty"`
	At      time.Time        `json:"at"`
}

// LeadService encapsulates lead use-cases.
type LeadService struct {
	repo    LeadRepository
	events  Publisher
	channel string
	log     logrus.FieldLogger
}

// NewLeadService constructs a LeadService. events may be nil, in which case
// no lead events are published.
func NewLeadService(repo LeadRepository, events Publisher, channel string, log logrus.FieldLogger) *LeadService {
	return &LeadService{
		repo:    repo,
		events:  events,
		channel: channel,
		log:     log,
	}
}

// Create stores a new lead. Any status supplied by the caller is replaced
// with types.StatusRegistered.
func (s *LeadService) Create(ctx context.Context, lead types.LeadInput) (int64, error) {
	status := types.StatusRegistered
	lead.Status = &status

	id, err := s.repo.Create(ctx, lead)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, LeadEvent{Type: EventLeadCreated, LeadID: id, Lead: &lead})
	return id, nil
}

func (s *LeadService) List(ctx context.Context) ([]types.Lead, error) {
	return s.repo.List(ctx)
}

// Update overwrites all fields of the lead and returns the match count.
func (s *LeadService) Update(ctx context.Context, id int64, lead types.LeadInput) (int64, error) {
	changes, err := s.repo.Update(ctx, id, lead)
	if err != nil {
		return 0, err
	}
	if changes > 0 {
		s.publish(ctx, LeadEvent{Type: EventLeadUpdated, LeadID: id, Lead: &lead, Changes: changes})
	}
	return changes, nil
}

// Delete removes the lead and returns the match count.
func (s *LeadService) Delete(ctx context.Context, id int64) (int64, error) {
	changes, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if changes > 0 {
		s.publish(ctx, LeadEvent{Type: EventLeadDeleted, LeadID: id, Changes: changes})
	}
	return changes, nil
}

func (s *LeadService) CountByGender(ctx context.Context) ([]types.GenderCount, error) {
	return s.repo.CountByGender(ctx)
}

func (s *LeadService) CountByStatus(ctx context.Context) ([]types.StatusCount, error) {
	return s.repo.CountByStatus(ctx)
}

// publish never fails the caller; broker errors are only logged.
func (s *LeadService) publish(ctx context.Context, event LeadEvent) {
	if s.events == nil {
		return
	}
	event.At = time.Now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		s.log.WithError(err).WithField("event", event.Type).Error("failed to encode lead event")
		return
	}

	attrs := map[string]string{
		"type":    event.Type,
		"lead_id": strconv.FormatInt(event.LeadID, 10),
	}
	if _, err := s.events.Publish(ctx, s.channel, data, attrs); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event":   event.Type,
			"lead_id": event.LeadID,
			"channel": s.channel,
		}).Error("failed to publish lead event")
	}
}
