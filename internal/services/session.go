package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studysync/internal/domain"
)

type sessionService struct {
	sessionRepo    domain.SessionRepository
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewSessionService creates a SessionService with the given collaborators.
func NewSessionService(
	sessionRepo domain.SessionRepository,
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		userRepo:       userRepo,
		hasher:         hasher,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, hostID, title, description, subject string, participantEmails []string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}

	host, err := s.userRepo.GetByID(ctx, hostID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get host: %w", err)
	}

	participants, err := s.resolveParticipants(ctx, host, participantEmails)
	if err != nil {
		return nil, err
	}

	session := domain.NewSession(title, strings.TrimSpace(description), strings.TrimSpace(subject), host.Ref(), participants, s.now())
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	// Invitations are best-effort: a mail failure never fails the request.
	for _, p := range participants {
		data := &domain.SessionInviteEmailData{
			Email:        p.Email,
			HostName:     host.Name,
			SessionTitle: session.Title,
			Subject:      session.Subject,
		}
		if err := s.emailService.SendSessionInvite(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "session invite email failed", "email", p.Email, "err", err)
		}
	}

	return session, nil
}

// resolveParticipants maps emails to users, creating placeholder accounts for
// unknown addresses. The host's own address and duplicates are skipped.
func (s *sessionService) resolveParticipants(ctx context.Context, host *domain.User, emails []string) ([]domain.UserRef, error) {
	refs := []domain.UserRef{}
	seen := map[string]struct{}{strings.ToLower(host.Email): {}}
	for _, email := range emails {
		email = strings.TrimSpace(strings.ToLower(email))
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}

		user, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			if !errors.Is(err, domain.ErrUserNotFound) {
				return nil, fmt.Errorf("get participant by email: %w", err)
			}
			user, err = s.createPlaceholderUser(ctx, email)
			if err != nil {
				return nil, err
			}
		}
		refs = append(refs, user.Ref())
	}
	return refs, nil
}

// createPlaceholderUser registers an invited address that has no account yet.
// The local part of the address becomes the display name and the password is
// random; the user can claim the account via a later password reset.
func (s *sessionService) createPlaceholderUser(ctx context.Context, email string) (*domain.User, error) {
	password, err := randomPassword()
	if err != nil {
		return nil, fmt.Errorf("generate placeholder password: %w", err)
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	user := domain.NewUser(name, email, hash, salt, s.now())
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create placeholder user: %w", err)
	}
	return user, nil
}

func randomPassword() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (s *sessionService) ListSessionsForUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sessions, err := s.sessionRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions for user: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return sessions, nil
}

func (s *sessionService) ListAllSessions(ctx context.Context, params domain.PaginationParams) ([]*domain.Session, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sessions, total, err := s.sessionRepo.ListAll(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return sessions, total, nil
}

func (s *sessionService) ProposeTimeSlot(ctx context.Context, sessionID, proposerID string, startTime, endTime time.Time, location string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !endTime.After(startTime) {
		return nil, domain.ErrInvalidRange
	}

	proposer, err := s.userRepo.GetByID(ctx, proposerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get proposer: %w", err)
	}

	slot := domain.NewTimeSlot(proposer.Ref(), startTime, endTime, strings.TrimSpace(location), s.now())
	if err := s.sessionRepo.AddTimeSlot(ctx, sessionID, slot); err != nil {
		return nil, fmt.Errorf("add time slot: %w", err)
	}
	session.TimeSlots = append(session.TimeSlots, slot)
	return session, nil
}

func (s *sessionService) VoteForTimeSlot(ctx context.Context, sessionID, slotID, voterID string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	slot := session.TimeSlotByID(slotID)
	if slot == nil {
		return nil, domain.ErrNotFound
	}
	if slot.HasVote(voterID) {
		return nil, domain.ErrAlreadyVoted
	}

	voter, err := s.userRepo.GetByID(ctx, voterID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get voter: %w", err)
	}

	vote := domain.Vote{User: voter.Ref(), CreatedAt: s.now()}
	if err := s.sessionRepo.SetVote(ctx, sessionID, slotID, vote); err != nil {
		return nil, fmt.Errorf("set vote: %w", err)
	}

	// A user holds one vote per session: switching slots retracts the old vote.
	for _, ts := range session.TimeSlots {
		kept := ts.Votes[:0]
		for _, v := range ts.Votes {
			if v.User.ID != voterID {
				kept = append(kept, v)
			}
		}
		ts.Votes = kept
	}
	slot.Votes = append(slot.Votes, vote)
	return session, nil
}

func (s *sessionService) FinalizeTimeSlot(ctx context.Context, sessionID, slotID, requesterID string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.Host.ID != requesterID {
		return nil, domain.ErrForbidden
	}
	slot := session.TimeSlotByID(slotID)
	if slot == nil {
		return nil, domain.ErrNotFound
	}

	// Vote counts are advisory; the host may finalize any slot, any number
	// of times. The snapshot freezes the votes as of this moment.
	frozen := slot.Clone()
	if err := s.sessionRepo.SetFinalizedSlot(ctx, sessionID, frozen, s.now()); err != nil {
		return nil, fmt.Errorf("set finalized slot: %w", err)
	}
	session.FinalizedSlot = frozen
	return session, nil
}

func (s *sessionService) AddResource(ctx context.Context, sessionID, userID, title, resourceType, url, description string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}
	if resourceType == "" {
		resourceType = domain.ResourceTypeLink
	}
	if !domain.ValidResourceType(resourceType) {
		return nil, domain.ErrInvalidInput
	}
	url = strings.TrimSpace(url)
	if resourceType == domain.ResourceTypeLink && url == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	resource := domain.NewResource(user.Ref(), title, resourceType, url, strings.TrimSpace(description), s.now())
	if err := s.sessionRepo.AddResource(ctx, sessionID, resource); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	session.Resources = append(session.Resources, resource)
	return session, nil
}

func (s *sessionService) SubmitFeedback(ctx context.Context, sessionID, userID string, rating int, comment string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.FinalizedSlot == nil {
		return nil, domain.ErrNoFinalizedSlot
	}
	// Feedback opens exactly at the finalized end time.
	if s.now().Before(session.FinalizedSlot.EndTime) {
		return nil, domain.ErrSessionNotEnded
	}
	if session.FeedbackByUser(userID) != nil {
		return nil, domain.ErrDuplicateFeedback
	}
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	feedback := domain.NewFeedback(user.Ref(), rating, strings.TrimSpace(comment), s.now())
	if err := s.sessionRepo.AddFeedback(ctx, sessionID, feedback); err != nil {
		return nil, fmt.Errorf("add feedback: %w", err)
	}
	session.Feedback = append(session.Feedback, feedback)
	return session, nil
}
