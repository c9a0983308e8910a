package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"studysync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeSessionRepo is an in-memory SessionRepository. GetByID returns deep
// copies so tests can assert that rejected operations leave the stored
// aggregate untouched.
type fakeSessionRepo struct {
	byID   map[string]*domain.Session
	nextID int
	err    error // if set, every method returns this error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byID: make(map[string]*domain.Session), nextID: 1}
}

func cloneSession(s *domain.Session) *domain.Session {
	raw, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	var out domain.Session
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return &out
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	if f.err != nil {
		return f.err
	}
	s.ID = fmt.Sprintf("sess-%d", f.nextID)
	f.nextID++
	f.byID[s.ID] = cloneSession(s)
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.byID[id]; ok {
		return cloneSession(s), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSessionRepo) ListForUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Session
	for _, s := range f.byID {
		if s.IsMember(userID) {
			out = append(out, cloneSession(s))
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ListAll(ctx context.Context, params domain.PaginationParams) ([]*domain.Session, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []*domain.Session
	for _, s := range f.byID {
		out = append(out, cloneSession(s))
	}
	return out, len(out), nil
}

func (f *fakeSessionRepo) AddTimeSlot(ctx context.Context, sessionID string, slot *domain.TimeSlot) error {
	if f.err != nil {
		return f.err
	}
	s, ok := f.byID[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	clone := slot.Clone()
	s.TimeSlots = append(s.TimeSlots, clone)
	return nil
}

func (f *fakeSessionRepo) SetVote(ctx context.Context, sessionID, slotID string, vote domain.Vote) error {
	if f.err != nil {
		return f.err
	}
	s, ok := f.byID[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, ts := range s.TimeSlots {
		kept := ts.Votes[:0]
		for _, v := range ts.Votes {
			if v.User.ID != vote.User.ID {
				kept = append(kept, v)
			}
		}
		ts.Votes = kept
	}
	target := s.TimeSlotByID(slotID)
	if target == nil {
		return domain.ErrNotFound
	}
	target.Votes = append(target.Votes, vote)
	return nil
}

func (f *fakeSessionRepo) SetFinalizedSlot(ctx context.Context, sessionID string, slot *domain.TimeSlot, finalizedAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	s, ok := f.byID[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	s.FinalizedSlot = slot.Clone()
	return nil
}

func (f *fakeSessionRepo) AddResource(ctx context.Context, sessionID string, resource *domain.Resource) error {
	if f.err != nil {
		return f.err
	}
	s, ok := f.byID[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Resources = append(s.Resources, resource)
	return nil
}

func (f *fakeSessionRepo) AddFeedback(ctx context.Context, sessionID string, feedback *domain.Feedback) error {
	if f.err != nil {
		return f.err
	}
	s, ok := f.byID[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Feedback = append(s.Feedback, feedback)
	return nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) add(name, email string) *domain.User {
	u := domain.NewUser(name, email, "hash", "salt", time.Now())
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) SearchByEmail(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.byEmail {
		if len(out) >= limit {
			break
		}
		out = append(out, u)
	}
	return out, nil
}

// fakeHasher is a deterministic PasswordHasher.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hashed:" + salt + ":" + password, nil
}
func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "hashed:"+salt+":"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// fakeEmailService records sent emails.
type fakeEmailService struct {
	welcomes []*domain.WelcomeMessageEmailData
	invites  []*domain.SessionInviteEmailData
	sendErr  error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.welcomes = append(f.welcomes, data)
	return nil
}

func (f *fakeEmailService) SendSessionInvite(ctx context.Context, data *domain.SessionInviteEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.invites = append(f.invites, data)
	return nil
}

type sessionFixture struct {
	svc         *sessionService
	sessionRepo *fakeSessionRepo
	userRepo    *fakeUserRepo
	email       *fakeEmailService
	host        *domain.User
	guest       *domain.User
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	sessionRepo := newFakeSessionRepo()
	userRepo := newFakeUserRepo()
	email := &fakeEmailService{}
	svc := NewSessionService(sessionRepo, userRepo, fakeHasher{}, email, testLogger, time.Second).(*sessionService)
	return &sessionFixture{
		svc:         svc,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		email:       email,
		host:        userRepo.add("Alice", "alice@example.com"),
		guest:       userRepo.add("Bob", "bob@example.com"),
	}
}

func (fx *sessionFixture) createSession(t *testing.T, emails ...string) *domain.Session {
	t.Helper()
	s, err := fx.svc.CreateSession(context.Background(), fx.host.ID, "Linear Algebra", "weekly review", "math", emails)
	require.NoError(t, err)
	return s
}

func TestSessionService_CreateSession(t *testing.T) {
	fx := newSessionFixture(t)

	s := fx.createSession(t, "bob@example.com", "newcomer@example.com")

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, fx.host.ID, s.Host.ID)
	require.Len(t, s.Participants, 2)
	assert.Equal(t, fx.guest.ID, s.Participants[0].ID)

	// Unknown address gets a placeholder account named after the local part.
	created, err := fx.userRepo.GetByEmail(context.Background(), "newcomer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "newcomer", created.Name)

	// Both participants are invited by email.
	require.Len(t, fx.email.invites, 2)
	assert.Equal(t, "Alice", fx.email.invites[0].HostName)
	assert.Equal(t, "Linear Algebra", fx.email.invites[0].SessionTitle)
}

func TestSessionService_CreateSession_SkipsHostAndDuplicates(t *testing.T) {
	fx := newSessionFixture(t)

	s := fx.createSession(t, "alice@example.com", "bob@example.com", "BOB@example.com", "")

	require.Len(t, s.Participants, 1)
	assert.Equal(t, fx.guest.ID, s.Participants[0].ID)
}

func TestSessionService_CreateSession_RequiresTitle(t *testing.T) {
	fx := newSessionFixture(t)

	_, err := fx.svc.CreateSession(context.Background(), fx.host.ID, "   ", "", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionService_CreateSession_MailFailureIsNotFatal(t *testing.T) {
	fx := newSessionFixture(t)
	fx.email.sendErr = fmt.Errorf("ses unavailable")

	s := fx.createSession(t, "bob@example.com")
	assert.NotEmpty(t, s.ID)
}

func TestSessionService_ProposeTimeSlot(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t)
	start := time.Now().Add(24 * time.Hour)

	updated, err := fx.svc.ProposeTimeSlot(context.Background(), s.ID, fx.guest.ID, start, start.Add(2*time.Hour), "library")
	require.NoError(t, err)

	require.Len(t, updated.TimeSlots, 1)
	slot := updated.TimeSlots[0]
	assert.NotEmpty(t, slot.ID)
	assert.Empty(t, slot.Votes)
	assert.Equal(t, "Bob", slot.ProposedBy.Name)
	assert.Equal(t, domain.StatusVoting, updated.Status(time.Now()))

	stored, err := fx.sessionRepo.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Len(t, stored.TimeSlots, 1)
}

func TestSessionService_ProposeTimeSlot_InvalidRange(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t)
	start := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name string
		end  time.Time
	}{
		{name: "end before start", end: start.Add(-time.Hour)},
		{name: "end equals start", end: start},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.svc.ProposeTimeSlot(context.Background(), s.ID, fx.host.ID, start, tt.end, "")
			assert.ErrorIs(t, err, domain.ErrInvalidRange)

			stored, err := fx.sessionRepo.GetByID(context.Background(), s.ID)
			require.NoError(t, err)
			assert.Empty(t, stored.TimeSlots)
		})
	}
}

func TestSessionService_ProposeTimeSlot_SessionNotFound(t *testing.T) {
	fx := newSessionFixture(t)
	start := time.Now()

	_, err := fx.svc.ProposeTimeSlot(context.Background(), "missing", fx.host.ID, start, start.Add(time.Hour), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func proposeTwoSlots(t *testing.T, fx *sessionFixture, s *domain.Session) (slotA, slotB string) {
	t.Helper()
	start := time.Now().Add(24 * time.Hour)
	updated, err := fx.svc.ProposeTimeSlot(context.Background(), s.ID, fx.host.ID, start, start.Add(time.Hour), "")
	require.NoError(t, err)
	updated, err = fx.svc.ProposeTimeSlot(context.Background(), s.ID, fx.host.ID, start.Add(2*time.Hour), start.Add(3*time.Hour), "")
	require.NoError(t, err)
	return updated.TimeSlots[0].ID, updated.TimeSlots[1].ID
}

func TestSessionService_VoteForTimeSlot_SwitchingSlotsMovesVote(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t, "bob@example.com")
	slotA, slotB := proposeTwoSlots(t, fx, s)

	_, err := fx.svc.VoteForTimeSlot(context.Background(), s.ID, slotA, fx.guest.ID)
	require.NoError(t, err)

	updated, err := fx.svc.VoteForTimeSlot(context.Background(), s.ID, slotB, fx.guest.ID)
	require.NoError(t, err)

	assert.Empty(t, updated.TimeSlotByID(slotA).Votes)
	votes := updated.TimeSlotByID(slotB).Votes
	require.Len(t, votes, 1)
	assert.Equal(t, fx.guest.ID, votes[0].User.ID)

	// The store agrees with the returned aggregate.
	stored, err := fx.sessionRepo.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.TimeSlotByID(slotA).Votes)
	assert.Len(t, stored.TimeSlotByID(slotB).Votes, 1)
}

func TestSessionService_VoteForTimeSlot_SameSlotRejected(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t, "bob@example.com")
	slotA, _ := proposeTwoSlots(t, fx, s)

	_, err := fx.svc.VoteForTimeSlot(context.Background(), s.ID, slotA, fx.guest.ID)
	require.NoError(t, err)

	_, err = fx.svc.VoteForTimeSlot(context.Background(), s.ID, slotA, fx.guest.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	stored, err := fx.sessionRepo.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Len(t, stored.TimeSlotByID(slotA).Votes, 1)
}

func TestSessionService_VoteForTimeSlot_OtherVotersUnaffected(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t, "bob@example.com")
	slotA, slotB := proposeTwoSlots(t, fx, s)

	_, err := fx.svc.VoteForTimeSlot(context.Background(), s.ID, slotA, fx.host.ID)
	require.NoError(t, err)
	_, err = fx.svc.VoteForTimeSlot(context.Background(), s.ID, slotA, fx.guest.ID)
	require.NoError(t, err)

	updated, err := fx.svc.VoteForTimeSlot(context.Background(), s.ID, slotB, fx.guest.ID)
	require.NoError(t, err)

	votesA := updated.TimeSlotByID(slotA).Votes
	require.Len(t, votesA, 1)
	assert.Equal(t, fx.host.ID, votesA[0].User.ID)
}

func TestSessionService_VoteForTimeSlot_SlotNotFound(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t)

	_, err := fx.svc.VoteForTimeSlot(context.Background(), s.ID, "missing", fx.guest.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionService_FinalizeTimeSlot_OnlyHost(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t, "bob@example.com")
	slotA, _ := proposeTwoSlots(t, fx, s)

	_, err := fx.svc.FinalizeTimeSlot(context.Background(), s.ID, slotA, fx.guest.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := fx.sessionRepo.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.FinalizedSlot)
}

func TestSessionService_FinalizeTimeSlot_FreezesVotes(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t, "bob@example.com")
	slotA, slotB := proposeTwoSlots(t, fx, s)

	_, err := fx.svc.VoteForTimeSlot(context.Background(), s.ID, slotA, fx.guest.ID)
	require.NoError(t, err)

	updated, err := fx.svc.FinalizeTimeSlot(context.Background(), s.ID, slotA, fx.host.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.FinalizedSlot)
	assert.Equal(t, slotA, updated.FinalizedSlot.ID)
	assert.Len(t, updated.FinalizedSlot.Votes, 1)

	// A vote switch after finalization must not touch the frozen snapshot.
	_, err = fx.svc.VoteForTimeSlot(context.Background(), s.ID, slotB, fx.guest.ID)
	require.NoError(t, err)

	stored, err := fx.sessionRepo.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Len(t, stored.FinalizedSlot.Votes, 1)
	assert.Empty(t, stored.TimeSlotByID(slotA).Votes)
}

func TestSessionService_FinalizeTimeSlot_RefinalizeOverwrites(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t)
	slotA, slotB := proposeTwoSlots(t, fx, s)

	_, err := fx.svc.FinalizeTimeSlot(context.Background(), s.ID, slotA, fx.host.ID)
	require.NoError(t, err)

	updated, err := fx.svc.FinalizeTimeSlot(context.Background(), s.ID, slotB, fx.host.ID)
	require.NoError(t, err)
	assert.Equal(t, slotB, updated.FinalizedSlot.ID)
}

func TestSessionService_FinalizeTimeSlot_SlotNotFound(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t)

	_, err := fx.svc.FinalizeTimeSlot(context.Background(), s.ID, "missing", fx.host.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionService_AddResource(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t)

	tests := []struct {
		name    string
		title   string
		typ     string
		url     string
		wantErr error
	}{
		{name: "link with url", title: "lecture notes", typ: "link", url: "https://example.com/notes"},
		{name: "empty type defaults to link", title: "slides", typ: "", url: "https://example.com/slides"},
		{name: "note without url", title: "summary", typ: "note"},
		{name: "link without url", title: "broken", typ: "link", wantErr: domain.ErrInvalidInput},
		{name: "unknown type", title: "video", typ: "video", url: "https://example.com", wantErr: domain.ErrInvalidInput},
		{name: "missing title", typ: "note", wantErr: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := fx.svc.AddResource(context.Background(), s.ID, fx.host.ID, tt.title, tt.typ, tt.url, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			added := updated.Resources[len(updated.Resources)-1]
			assert.Equal(t, tt.title, added.Title)
			if tt.typ == "" {
				assert.Equal(t, domain.ResourceTypeLink, added.Type)
			}
		})
	}
}

func finalizeEndedSession(t *testing.T, fx *sessionFixture, s *domain.Session, endedAt time.Time) {
	t.Helper()
	updated, err := fx.svc.ProposeTimeSlot(context.Background(), s.ID, fx.host.ID, endedAt.Add(-time.Hour), endedAt, "")
	require.NoError(t, err)
	_, err = fx.svc.FinalizeTimeSlot(context.Background(), s.ID, updated.TimeSlots[0].ID, fx.host.ID)
	require.NoError(t, err)
}

func TestSessionService_SubmitFeedback(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t, "bob@example.com")
	end := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	finalizeEndedSession(t, fx, s, end)
	fx.svc.now = func() time.Time { return end.Add(time.Hour) }

	updated, err := fx.svc.SubmitFeedback(context.Background(), s.ID, fx.guest.ID, 4, "great prep")
	require.NoError(t, err)
	require.Len(t, updated.Feedback, 1)
	assert.Equal(t, 4, updated.Feedback[0].Rating)
	assert.Equal(t, fx.guest.ID, updated.Feedback[0].User.ID)
}

func TestSessionService_SubmitFeedback_NoFinalizedSlot(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t)

	_, err := fx.svc.SubmitFeedback(context.Background(), s.ID, fx.host.ID, 4, "")
	assert.ErrorIs(t, err, domain.ErrNoFinalizedSlot)
}

func TestSessionService_SubmitFeedback_BeforeEndRejected(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t)
	end := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	finalizeEndedSession(t, fx, s, end)
	fx.svc.now = func() time.Time { return end.Add(-time.Minute) }

	_, err := fx.svc.SubmitFeedback(context.Background(), s.ID, fx.host.ID, 4, "")
	assert.ErrorIs(t, err, domain.ErrSessionNotEnded)

	stored, err := fx.sessionRepo.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Feedback)
}

func TestSessionService_SubmitFeedback_ExactlyAtEndSucceeds(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t)
	end := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	finalizeEndedSession(t, fx, s, end)
	fx.svc.now = func() time.Time { return end }

	updated, err := fx.svc.SubmitFeedback(context.Background(), s.ID, fx.host.ID, 5, "")
	require.NoError(t, err)
	assert.Len(t, updated.Feedback, 1)
}

func TestSessionService_SubmitFeedback_Duplicate(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t)
	end := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	finalizeEndedSession(t, fx, s, end)
	fx.svc.now = func() time.Time { return end.Add(time.Hour) }

	_, err := fx.svc.SubmitFeedback(context.Background(), s.ID, fx.host.ID, 4, "")
	require.NoError(t, err)

	_, err = fx.svc.SubmitFeedback(context.Background(), s.ID, fx.host.ID, 5, "again")
	assert.ErrorIs(t, err, domain.ErrDuplicateFeedback)

	stored, err := fx.sessionRepo.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Feedback, 1)
}

func TestSessionService_SubmitFeedback_InvalidRating(t *testing.T) {
	fx := newSessionFixture(t)
	s := fx.createSession(t)
	end := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	finalizeEndedSession(t, fx, s, end)
	fx.svc.now = func() time.Time { return end.Add(time.Hour) }

	for _, rating := range []int{0, -1, 6} {
		_, err := fx.svc.SubmitFeedback(context.Background(), s.ID, fx.host.ID, rating, "")
		assert.ErrorIs(t, err, domain.ErrInvalidRating, "rating %d", rating)
	}
}

func TestSessionService_GetSession_NotFound(t *testing.T) {
	fx := newSessionFixture(t)

	_, err := fx.svc.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionService_ListSessionsForUser_Empty(t *testing.T) {
	fx := newSessionFixture(t)

	sessions, err := fx.svc.ListSessionsForUser(context.Background(), fx.guest.ID)
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}
