package dto

import (
	"time"

	"smart-apply/internal/domain/verdict"
)

type FitAnalysisResponse struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

type ResourceResponse struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ApplyResponse is returned for both accepted and blocked verdicts; Blocked
// plus CooldownExpiry distinguishes them.
type ApplyResponse struct {
	Blocked           bool                `json:"blocked"`
	Replayed          bool                `json:"replayed,omitempty"`
	MatchScore        float64             `json:"match_score"`
	Advice            string              `json:"advice"`
	MissingSkills     []string            `json:"missing_skills"`
	ResumeSuggestions []string            `json:"resume_suggestions"`
	Resources         []ResourceResponse  `json:"resources"`
	FitAnalysis       FitAnalysisResponse `json:"fit_analysis"`
	CooldownExpiry    *time.Time          `json:"cooldown_expiry,omitempty"`
}

type RateLimitedResponse struct {
	RetryAfterSeconds int64 `json:"retry_after_seconds"`
}

func NewApplyResponse(v verdict.Verdict, blocked bool, replayed bool, cooldownExpiry time.Time) ApplyResponse {
	out := ApplyResponse{
		Blocked:           blocked,
		Replayed:          replayed,
		MatchScore:        v.Score,
		Advice:            v.Advice,
		MissingSkills:     v.MissingSkills,
		ResumeSuggestions: v.ResumeSuggestions,
		Resources:         make([]ResourceResponse, 0, len(v.Resources)),
		FitAnalysis: FitAnalysisResponse{
			Summary:    v.FitAnalysis.Summary,
			Strengths:  v.FitAnalysis.Strengths,
			Weaknesses: v.FitAnalysis.Weaknesses,
		},
	}
	for _, r := range v.Resources {
		out.Resources = append(out.Resources, ResourceResponse{Title: r.Title, URL: r.URL})
	}
	if !cooldownExpiry.IsZero() {
		t := cooldownExpiry.UTC()
		out.CooldownExpiry = &t
	}
	return out
}
