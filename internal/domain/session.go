package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a study session. It is derived from
// the session record and the current time on every read, never stored.
type SessionStatus string

const (
	// StatusNew means no time slots have been proposed yet.
	StatusNew SessionStatus = "new"
	// StatusVoting means at least one slot is proposed but none is finalized.
	StatusVoting SessionStatus = "voting"
	// StatusConfirmed means a slot is finalized and the session has not ended.
	StatusConfirmed SessionStatus = "confirmed"
	// StatusCompleted means a slot is finalized and its end time has passed.
	StatusCompleted SessionStatus = "completed"
)

// UserRef is a resolved reference to a user, embedded in session payloads so
// the presentation layer can render display names without extra lookups.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Vote records one user's vote for a time slot.
type Vote struct {
	User      UserRef   `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// TimeSlot is a candidate (or, once finalized, confirmed) meeting window.
type TimeSlot struct {
	ID         string    `json:"id"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Location   string    `json:"location,omitempty"`
	ProposedBy UserRef   `json:"proposedBy"`
	Votes      []Vote    `json:"votes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewTimeSlot returns a TimeSlot with a fresh ID and an empty vote set.
func NewTimeSlot(proposedBy UserRef, startTime, endTime time.Time, location string, createdAt time.Time) *TimeSlot {
	return &TimeSlot{
		ID:         uuid.NewString(),
		StartTime:  startTime,
		EndTime:    endTime,
		Location:   location,
		ProposedBy: proposedBy,
		Votes:      []Vote{},
		CreatedAt:  createdAt,
	}
}

// Clone returns a deep copy of the slot. Finalization stores a clone so the
// frozen snapshot is independent of later mutations to the live slot.
func (t *TimeSlot) Clone() *TimeSlot {
	c := *t
	c.Votes = make([]Vote, len(t.Votes))
	copy(c.Votes, t.Votes)
	return &c
}

// HasVote reports whether userID has a vote recorded on this slot.
func (t *TimeSlot) HasVote(userID string) bool {
	for _, v := range t.Votes {
		if v.User.ID == userID {
			return true
		}
	}
	return false
}

// Resource type values accepted for shared study material.
const (
	ResourceTypeLink  = "link"
	ResourceTypeNote  = "note"
	ResourceTypePDF   = "pdf"
	ResourceTypeOther = "other"
)

// ValidResourceType reports whether t is one of the accepted resource types.
func ValidResourceType(t string) bool {
	switch t {
	case ResourceTypeLink, ResourceTypeNote, ResourceTypePDF, ResourceTypeOther:
		return true
	}
	return false
}

// Resource is shared study material attached to a session.
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	URL         string    `json:"url,omitempty"`
	Description string    `json:"description,omitempty"`
	User        UserRef   `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewResource returns a Resource with a fresh ID.
func NewResource(user UserRef, title, resourceType, url, description string, createdAt time.Time) *Resource {
	return &Resource{
		ID:          uuid.NewString(),
		Title:       title,
		Type:        resourceType,
		URL:         url,
		Description: description,
		User:        user,
		CreatedAt:   createdAt,
	}
}

// Feedback is a post-session review. At most one entry per user per session.
type Feedback struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	User      UserRef   `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewFeedback returns a Feedback entry with a fresh ID.
func NewFeedback(user UserRef, rating int, comment string, createdAt time.Time) *Feedback {
	return &Feedback{
		ID:        uuid.NewString(),
		Rating:    rating,
		Comment:   comment,
		User:      user,
		CreatedAt: createdAt,
	}
}

// Session is the study-session aggregate: proposed time slots, participants,
// shared resources, and post-session feedback.
type Session struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Subject       string      `json:"subject,omitempty"`
	Host          UserRef     `json:"host"`
	Participants  []UserRef   `json:"participants"`
	TimeSlots     []*TimeSlot `json:"timeSlots"`
	FinalizedSlot *TimeSlot   `json:"finalizedSlot"`
	Resources     []*Resource `json:"resources"`
	Feedback      []*Feedback `json:"feedback"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// NewSession returns a Session with empty slot, resource, and feedback lists.
// ID is set by the repository on create.
func NewSession(title, description, subject string, host UserRef, participants []UserRef, createdAt time.Time) *Session {
	if participants == nil {
		participants = []UserRef{}
	}
	return &Session{
		Title:        title,
		Description:  description,
		Subject:      subject,
		Host:         host,
		Participants: participants,
		TimeSlots:    []*TimeSlot{},
		Resources:    []*Resource{},
		Feedback:     []*Feedback{},
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// Status derives the lifecycle state from the record and the given time.
func (s *Session) Status(now time.Time) SessionStatus {
	if s.FinalizedSlot != nil {
		if now.Before(s.FinalizedSlot.EndTime) {
			return StatusConfirmed
		}
		return StatusCompleted
	}
	if len(s.TimeSlots) > 0 {
		return StatusVoting
	}
	return StatusNew
}

// TimeSlotByID returns the slot with the given ID, or nil if absent.
func (s *Session) TimeSlotByID(id string) *TimeSlot {
	for _, slot := range s.TimeSlots {
		if slot.ID == id {
			return slot
		}
	}
	return nil
}

// FeedbackByUser returns userID's feedback entry for this session, or nil.
func (s *Session) FeedbackByUser(userID string) *Feedback {
	for _, f := range s.Feedback {
		if f.User.ID == userID {
			return f
		}
	}
	return nil
}

// IsMember reports whether userID is the host or a participant.
func (s *Session) IsMember(userID string) bool {
	if s.Host.ID == userID {
		return true
	}
	for _, p := range s.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// SessionRepository defines storage operations for the session aggregate.
// GetByID and the list methods return sessions with resolved display names
// for host, participants, proposers, voters, and resource/feedback authors.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	ListForUser(ctx context.Context, userID string) ([]*Session, error)
	ListAll(ctx context.Context, params PaginationParams) ([]*Session, int, error)
	AddTimeSlot(ctx context.Context, sessionID string, slot *TimeSlot) error
	// SetVote removes any existing vote by the voter on any slot of the
	// session and records the vote on the given slot, in one transaction.
	SetVote(ctx context.Context, sessionID, slotID string, vote Vote) error
	SetFinalizedSlot(ctx context.Context, sessionID string, slot *TimeSlot, finalizedAt time.Time) error
	AddResource(ctx context.Context, sessionID string, resource *Resource) error
	AddFeedback(ctx context.Context, sessionID string, feedback *Feedback) error
}

// SessionService defines the business logic for the session lifecycle:
// create, propose, vote, finalize, share resources, leave feedback.
type SessionService interface {
	CreateSession(ctx context.Context, hostID, title, description, subject string, participantEmails []string) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	ListSessionsForUser(ctx context.Context, userID string) ([]*Session, error)
	ListAllSessions(ctx context.Context, params PaginationParams) ([]*Session, int, error)
	ProposeTimeSlot(ctx context.Context, sessionID, proposerID string, startTime, endTime time.Time, location string) (*Session, error)
	VoteForTimeSlot(ctx context.Context, sessionID, slotID, voterID string) (*Session, error)
	FinalizeTimeSlot(ctx context.Context, sessionID, slotID, requesterID string) (*Session, error)
	AddResource(ctx context.Context, sessionID, userID, title, resourceType, url, description string) (*Session, error)
	SubmitFeedback(ctx context.Context, sessionID, userID string, rating int, comment string) (*Session, error)
}
