package entity

import (
	"strconv"
	"strings"
)

// Role of a console operator.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// AuthUser is the identity held by the mock session.
type AuthUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

func (u AuthUser) IsAdmin() bool { return u.Role == RoleAdmin }

// Assessment is one scored attempt at a phrase.
type Assessment struct {
	ID            int64     `json:"id"`
	PhraseID      int64     `json:"phrase_id"`
	PhraseText    string    `json:"phrase_text"`
	OverallScore  float64   `json:"overall_score"`
	AccuracyScore float64   `json:"accuracy_score"`
	ProsodyScore  float64   `json:"prosody_score"`
	FluencyScore  float64   `json:"fluency_score"`
	CreatedAt     Timestamp `json:"created_at"`
}

// ScoreBand buckets a 0–100 score for display.
type ScoreBand string

const (
	ScoreGood ScoreBand = "good"
	ScoreFair ScoreBand = "fair"
	ScorePoor ScoreBand = "poor"
)

func BandOf(score float64) ScoreBand {
	switch {
	case score >= 80:
		return ScoreGood
	case score >= 60:
		return ScoreFair
	default:
		return ScorePoor
	}
}

// UserProgress aggregates a learner's assessments.
type UserProgress struct {
	UserID              int64          `json:"user_id"`
	TotalAssessments    int            `json:"total_assessments"`
	AverageOverallScore float64        `json:"average_overall_score"`
	AverageAccuracy     float64        `json:"average_accuracy"`
	AverageProsody      float64        `json:"average_prosody"`
	AverageFluency      float64        `json:"average_fluency"`
	AverageCompleteness float64        `json:"average_completeness"`
	BestScore           float64        `json:"best_score"`
	WorstScore          float64        `json:"worst_score"`
	CategoriesPracticed map[string]int `json:"categories_practiced"`
	ImprovementRate     *float64       `json:"improvement_rate"`
}

// HealthCheck is the body of GET /health.
type HealthCheck struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Project  string `json:"project"`
	MockMode bool   `json:"mock_mode"`
}

func (h HealthCheck) Healthy() bool { return h.Status == "healthy" }

// ParseUserID accepts a positive base-10 integer.
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidUserID
	}
	return id, nil
}
