package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"studysync/internal/domain"
)

type sessionRepository struct {
	DB *sql.DB
}

// NewSessionRepository creates a SessionRepository backed by Postgres. The
// session aggregate is stored relationally and reassembled on read, with
// display names resolved via joins; the finalized slot is stored as a JSONB
// snapshot so it stays frozen regardless of later slot or vote changes.
func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{DB: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO sessions (title, description, subject, host_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, query, s.Title, s.Description, s.Subject, s.Host.ID, s.CreatedAt, s.UpdatedAt).Scan(&s.ID); err != nil {
		return err
	}
	for _, p := range s.Participants {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_participants (session_id, user_id, added_at) VALUES ($1, $2, $3)`,
			s.ID, p.ID, s.CreatedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT s.id, s.title, s.description, s.subject, s.created_at, s.updated_at,
		       u.id, u.name, u.email
		FROM sessions s
		JOIN users u ON u.id = s.host_id
		WHERE s.id = $1
	`
	s := &domain.Session{
		Participants: []domain.UserRef{},
		TimeSlots:    []*domain.TimeSlot{},
		Resources:    []*domain.Resource{},
		Feedback:     []*domain.Feedback{},
	}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Title, &s.Description, &s.Subject, &s.CreatedAt, &s.UpdatedAt,
		&s.Host.ID, &s.Host.Name, &s.Host.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := r.loadParticipants(ctx, s); err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	if err := r.loadTimeSlots(ctx, s); err != nil {
		return nil, fmt.Errorf("load time slots: %w", err)
	}
	if err := r.loadFinalizedSlot(ctx, s); err != nil {
		return nil, fmt.Errorf("load finalized slot: %w", err)
	}
	if err := r.loadResources(ctx, s); err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	if err := r.loadFeedback(ctx, s); err != nil {
		return nil, fmt.Errorf("load feedback: %w", err)
	}
	return s, nil
}

func (r *sessionRepository) loadParticipants(ctx context.Context, s *domain.Session) error {
	query := `
		SELECT u.id, u.name, u.email
		FROM session_participants sp
		JOIN users u ON u.id = sp.user_id
		WHERE sp.session_id = $1
		ORDER BY sp.added_at, u.id
	`
	rows, err := r.DB.QueryContext(ctx, query, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.UserRef
		if err := rows.Scan(&p.ID, &p.Name, &p.Email); err != nil {
			return err
		}
		s.Participants = append(s.Participants, p)
	}
	return rows.Err()
}

func (r *sessionRepository) loadTimeSlots(ctx context.Context, s *domain.Session) error {
	query := `
		SELECT t.id, t.start_time, t.end_time, t.location, t.created_at, u.id, u.name
		FROM time_slots t
		JOIN users u ON u.id = t.proposed_by
		WHERE t.session_id = $1
		ORDER BY t.seq
	`
	rows, err := r.DB.QueryContext(ctx, query, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := make(map[string]*domain.TimeSlot)
	for rows.Next() {
		slot := &domain.TimeSlot{Votes: []domain.Vote{}}
		if err := rows.Scan(&slot.ID, &slot.StartTime, &slot.EndTime, &slot.Location, &slot.CreatedAt,
			&slot.ProposedBy.ID, &slot.ProposedBy.Name); err != nil {
			return err
		}
		s.TimeSlots = append(s.TimeSlots, slot)
		byID[slot.ID] = slot
	}
	if err := rows.Err(); err != nil {
		return err
	}

	voteQuery := `
		SELECT v.slot_id, v.created_at, u.id, u.name
		FROM time_slot_votes v
		JOIN time_slots t ON t.id = v.slot_id
		JOIN users u ON u.id = v.user_id
		WHERE t.session_id = $1
		ORDER BY v.created_at
	`
	voteRows, err := r.DB.QueryContext(ctx, voteQuery, s.ID)
	if err != nil {
		return err
	}
	defer voteRows.Close()
	for voteRows.Next() {
		var slotID string
		var vote domain.Vote
		if err := voteRows.Scan(&slotID, &vote.CreatedAt, &vote.User.ID, &vote.User.Name); err != nil {
			return err
		}
		if slot, ok := byID[slotID]; ok {
			slot.Votes = append(slot.Votes, vote)
		}
	}
	return voteRows.Err()
}

func (r *sessionRepository) loadFinalizedSlot(ctx context.Context, s *domain.Session) error {
	var raw []byte
	err := r.DB.QueryRowContext(ctx,
		`SELECT slot FROM finalized_slots WHERE session_id = $1`, s.ID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	slot := &domain.TimeSlot{}
	if err := json.Unmarshal(raw, slot); err != nil {
		return fmt.Errorf("decode finalized slot: %w", err)
	}
	s.FinalizedSlot = slot
	return nil
}

func (r *sessionRepository) loadResources(ctx context.Context, s *domain.Session) error {
	query := `
		SELECT res.id, res.title, res.type, res.url, res.description, res.created_at, u.id, u.name
		FROM resources res
		JOIN users u ON u.id = res.user_id
		WHERE res.session_id = $1
		ORDER BY res.seq
	`
	rows, err := r.DB.QueryContext(ctx, query, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		res := &domain.Resource{}
		if err := rows.Scan(&res.ID, &res.Title, &res.Type, &res.URL, &res.Description, &res.CreatedAt,
			&res.User.ID, &res.User.Name); err != nil {
			return err
		}
		s.Resources = append(s.Resources, res)
	}
	return rows.Err()
}

func (r *sessionRepository) loadFeedback(ctx context.Context, s *domain.Session) error {
	query := `
		SELECT f.id, f.rating, f.comment, f.created_at, u.id, u.name
		FROM feedback f
		JOIN users u ON u.id = f.user_id
		WHERE f.session_id = $1
		ORDER BY f.seq
	`
	rows, err := r.DB.QueryContext(ctx, query, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		f := &domain.Feedback{}
		if err := rows.Scan(&f.ID, &f.Rating, &f.Comment, &f.CreatedAt, &f.User.ID, &f.User.Name); err != nil {
			return err
		}
		s.Feedback = append(s.Feedback, f)
	}
	return rows.Err()
}

func (r *sessionRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	query := `
		SELECT s.id
		FROM sessions s
		WHERE s.host_id = $1
		   OR EXISTS (
		        SELECT 1 FROM session_participants sp
		        WHERE sp.session_id = s.id AND sp.user_id = $1
		   )
		ORDER BY s.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	ids, err := scanIDs(rows)
	if err != nil {
		return nil, err
	}
	return r.getAll(ctx, ids)
}

func (r *sessionRepository) ListAll(ctx context.Context, params domain.PaginationParams) ([]*domain.Session, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id FROM sessions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	ids, err := scanIDs(rows)
	if err != nil {
		return nil, 0, err
	}
	sessions, err := r.getAll(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func scanIDs(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// getAll assembles the aggregates one by one (N+1). Session lists are small;
// we can batch the subqueries later if this shows up in profiles.
func (r *sessionRepository) getAll(ctx context.Context, ids []string) ([]*domain.Session, error) {
	sessions := make([]*domain.Session, 0, len(ids))
	for _, id := range ids {
		s, err := r.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *sessionRepository) AddTimeSlot(ctx context.Context, sessionID string, slot *domain.TimeSlot) error {
	query := `
		INSERT INTO time_slots (id, session_id, start_time, end_time, location, proposed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query,
		slot.ID, sessionID, slot.StartTime, slot.EndTime, slot.Location, slot.ProposedBy.ID, slot.CreatedAt)
	return err
}

func (r *sessionRepository) SetVote(ctx context.Context, sessionID, slotID string, vote domain.Vote) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// One active vote per user per session: retract everywhere, then record.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM time_slot_votes
		WHERE user_id = $2
		  AND slot_id IN (SELECT id FROM time_slots WHERE session_id = $1)
	`, sessionID, vote.User.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO time_slot_votes (slot_id, user_id, created_at)
		VALUES ($1, $2, $3)
	`, slotID, vote.User.ID, vote.CreatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sessionRepository) SetFinalizedSlot(ctx context.Context, sessionID string, slot *domain.TimeSlot, finalizedAt time.Time) error {
	raw, err := json.Marshal(slot)
	if err != nil {
		return fmt.Errorf("encode finalized slot: %w", err)
	}
	query := `
		INSERT INTO finalized_slots (session_id, slot, finalized_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE
		SET slot = EXCLUDED.slot, finalized_at = EXCLUDED.finalized_at
	`
	_, err = r.DB.ExecContext(ctx, query, sessionID, raw, finalizedAt)
	return err
}

func (r *sessionRepository) AddResource(ctx context.Context, sessionID string, resource *domain.Resource) error {
	query := `
		INSERT INTO resources (id, session_id, title, type, url, description, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		resource.ID, sessionID, resource.Title, resource.Type, resource.URL, resource.Description,
		resource.User.ID, resource.CreatedAt)
	return err
}

func (r *sessionRepository) AddFeedback(ctx context.Context, sessionID string, feedback *domain.Feedback) error {
	query := `
		INSERT INTO feedback (id, session_id, rating, comment, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query,
		feedback.ID, sessionID, feedback.Rating, feedback.Comment, feedback.User.ID, feedback.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateFeedback
		}
		return err
	}
	return nil
}
