package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionWithRatings(host UserRef, createdAt time.Time, ratings ...int) *Session {
	s := NewSession("s", "", "", host, nil, createdAt)
	for _, r := range ratings {
		s.Feedback = append(s.Feedback, NewFeedback(bob, r, "", createdAt))
	}
	return s
}

func finalizedSession(host UserRef, createdAt time.Time, duration time.Duration) *Session {
	s := NewSession("s", "", "", host, nil, createdAt)
	slot := NewTimeSlot(host, createdAt, createdAt.Add(duration), "", createdAt)
	s.TimeSlots = append(s.TimeSlots, slot)
	s.FinalizedSlot = slot.Clone()
	return s
}

func TestAggregate_EmptyInput(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	got := Aggregate(nil, "u-viewer", now)

	assert.Equal(t, 0, got.TotalSessions)
	assert.Equal(t, 0, got.CompletedSessions)
	assert.Equal(t, float64(0), got.AverageRating)
	assert.Empty(t, got.TopSubjects)
	assert.Equal(t, float64(0), got.AverageDuration)
	assert.Equal(t, 0, got.ParticipationRate)
	require.Len(t, got.MonthlyActivity, 6)
	for _, m := range got.MonthlyActivity {
		assert.Equal(t, 0, m.Count)
	}
	assert.Equal(t, "Jan", Aggregate(nil, "", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)).MonthlyActivity[5].Month)
}

func TestAggregate_AverageRating(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := []*Session{sessionWithRatings(alice, now, 4, 5, 3)}

	got := Aggregate(sessions, "u-alice", now)
	assert.Equal(t, 1, got.TotalSessions)
	assert.Equal(t, 1, got.CompletedSessions)
	assert.Equal(t, 4.0, got.AverageRating)
}

func TestAggregate_AverageRating_Rounding(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	// (5 + 4) / 2 = 4.5, (5 + 4 + 4) / 3 = 4.333... -> 4.3
	sessions := []*Session{sessionWithRatings(alice, now, 5, 4, 4)}
	assert.Equal(t, 4.3, Aggregate(sessions, "u-alice", now).AverageRating)
}

func TestAggregate_DurationAndParticipation(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := []*Session{
		finalizedSession(alice, now, time.Hour), // hosted by viewer
		finalizedSession(bob, now, 3*time.Hour), // joined
	}

	got := Aggregate(sessions, "u-alice", now)
	assert.Equal(t, 2.0, got.AverageDuration)
	assert.Equal(t, 50, got.ParticipationRate)
}

func TestAggregate_ParticipationRate_Rounding(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := []*Session{
		NewSession("a", "", "", alice, nil, now),
		NewSession("b", "", "", bob, nil, now),
		NewSession("c", "", "", bob, nil, now),
	}
	// 2 of 3 not hosted by viewer: 66.67% -> 67
	assert.Equal(t, 67, Aggregate(sessions, "u-alice", now).ParticipationRate)
}

func TestAggregate_TopSubjects(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	mk := func(subject string) *Session {
		return NewSession("s", "", subject, alice, nil, now)
	}
	sessions := []*Session{
		mk("math"), mk("physics"), mk("math"),
		mk("chemistry"), mk("physics"), mk("biology"),
		mk("history"), mk("latin"), mk(""),
	}

	got := Aggregate(sessions, "u-alice", now).TopSubjects
	require.Len(t, got, 5)
	assert.Equal(t, SubjectCount{Subject: "math", Count: 2}, got[0])
	assert.Equal(t, SubjectCount{Subject: "physics", Count: 2}, got[1])
	// Singles keep first-encountered order; latin is cut by the top-5 limit.
	assert.Equal(t, "chemistry", got[2].Subject)
	assert.Equal(t, "biology", got[3].Subject)
	assert.Equal(t, "history", got[4].Subject)
}

func TestAggregate_MonthlyActivity(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := []*Session{
		NewSession("a", "", "", alice, nil, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		NewSession("b", "", "", alice, nil, time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)),
		NewSession("c", "", "", alice, nil, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)),
		NewSession("d", "", "", alice, nil, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)), // outside window
	}

	got := Aggregate(sessions, "u-alice", now).MonthlyActivity
	require.Len(t, got, 6)
	assert.Equal(t, []MonthActivity{
		{Month: "Jan", Count: 0},
		{Month: "Feb", Count: 0},
		{Month: "Mar", Count: 0},
		{Month: "Apr", Count: 1},
		{Month: "May", Count: 0},
		{Month: "Jun", Count: 2},
	}, got)
}

func TestAggregate_YearBoundaryMonths(t *testing.T) {
	now := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	sessions := []*Session{
		NewSession("a", "", "", alice, nil, time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)),
	}

	got := Aggregate(sessions, "u-alice", now).MonthlyActivity
	require.Len(t, got, 6)
	assert.Equal(t, "Sep", got[0].Month)
	assert.Equal(t, MonthActivity{Month: "Nov", Count: 1}, got[2])
	assert.Equal(t, "Feb", got[5].Month)
}
