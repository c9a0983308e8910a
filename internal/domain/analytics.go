package domain

import (
	"context"
	"math"
	"sort"
	"time"
)

// SubjectCount is one entry in the top-subjects ranking.
type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

// MonthActivity is the session count for one calendar month.
type MonthActivity struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// AnalyticsSummary holds the derived statistics rendered by the analytics view.
// swagger:model AnalyticsSummary
type AnalyticsSummary struct {
	TotalSessions     int             `json:"totalSessions"`
	CompletedSessions int             `json:"completedSessions"`
	AverageRating     float64         `json:"averageRating"`
	TopSubjects       []SubjectCount  `json:"topSubjects"`
	AverageDuration   float64         `json:"averageDuration"`
	ParticipationRate int             `json:"participationRate"`
	MonthlyActivity   []MonthActivity `json:"monthlyActivity"`
}

// AnalyticsService loads a viewer's sessions and derives their summary statistics.
type AnalyticsService interface {
	GetUserAnalytics(ctx context.Context, viewerID string) (*AnalyticsSummary, error)
}

// monthlyActivityMonths is the number of calendar months in the activity histogram.
const monthlyActivityMonths = 6

// topSubjectsLimit caps the subject ranking length.
const topSubjectsLimit = 5

// Aggregate derives summary statistics from the viewer's sessions. It is a
// pure transform over the given snapshot: no side effects, no errors. Empty
// input yields a zeroed summary, with the monthly histogram still covering
// the six calendar months ending at now.
func Aggregate(sessions []*Session, viewerID string, now time.Time) *AnalyticsSummary {
	summary := &AnalyticsSummary{
		TopSubjects:     []SubjectCount{},
		MonthlyActivity: monthlyActivity(sessions, now),
	}
	summary.TotalSessions = len(sessions)
	if len(sessions) == 0 {
		return summary
	}

	var ratingSum, ratingCount int
	var durationSum float64
	var durationCount int
	var notHosted int
	for _, s := range sessions {
		if len(s.Feedback) > 0 {
			summary.CompletedSessions++
		}
		for _, f := range s.Feedback {
			ratingSum += f.Rating
			ratingCount++
		}
		if s.FinalizedSlot != nil {
			durationSum += s.FinalizedSlot.EndTime.Sub(s.FinalizedSlot.StartTime).Hours()
			durationCount++
		}
		if s.Host.ID != viewerID {
			notHosted++
		}
	}

	if ratingCount > 0 {
		summary.AverageRating = round1(float64(ratingSum) / float64(ratingCount))
	}
	if durationCount > 0 {
		summary.AverageDuration = round1(durationSum / float64(durationCount))
	}
	summary.ParticipationRate = int(math.Round(float64(notHosted) / float64(len(sessions)) * 100))
	summary.TopSubjects = topSubjects(sessions)
	return summary
}

// topSubjects ranks subjects by occurrence, ties broken by first-encountered
// order in the input, keeping at most topSubjectsLimit entries.
func topSubjects(sessions []*Session) []SubjectCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, s := range sessions {
		if s.Subject == "" {
			continue
		}
		if _, ok := counts[s.Subject]; !ok {
			firstSeen[s.Subject] = i
		}
		counts[s.Subject]++
	}

	ranked := make([]SubjectCount, 0, len(counts))
	for subject, count := range counts {
		ranked = append(ranked, SubjectCount{Subject: subject, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Subject] < firstSeen[ranked[j].Subject]
	})
	if len(ranked) > topSubjectsLimit {
		ranked = ranked[:topSubjectsLimit]
	}
	return ranked
}

// monthlyActivity counts sessions created in each of the six calendar months
// ending with the current month, oldest first.
func monthlyActivity(sessions []*Session, now time.Time) []MonthActivity {
	activity := make([]MonthActivity, 0, monthlyActivityMonths)
	for i := monthlyActivityMonths - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		count := 0
		for _, s := range sessions {
			created := s.CreatedAt.In(now.Location())
			if created.Year() == month.Year() && created.Month() == month.Month() {
				count++
			}
		}
		activity = append(activity, MonthActivity{Month: month.Format("Jan"), Count: count})
	}
	return activity
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
