package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"smart-apply/internal/config"
	"smart-apply/internal/domain/verdict"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrUnavailable covers transport failures, timeouts and non-2xx replies.
	ErrUnavailable = errors.New("matching oracle unavailable")
	// ErrMalformed covers 2xx replies whose body cannot be used as a verdict.
	ErrMalformed = errors.New("matching oracle returned malformed response")
)

type Scorer interface {
	Score(ctx context.Context, resumeText string, jobDescription string) (verdict.Verdict, error)
}

// Client calls the external matching service. One attempt per call: the
// pipeline already charges the caller's rate budget before reaching the
// oracle, so a retry here would double-spend external cost. No retry is a
// deliberate decision, not an omission.
type Client struct {
	http   *resty.Client
	logger *log.Logger
}

type matchRequest struct {
	ResumeText string `json:"resume_text"`
	JDText     string `json:"jd_text"`
}

type matchResponse struct {
	Score             float64            `json:"score"`
	Advice            string             `json:"advice"`
	MissingSkills     []string           `json:"missing_skills"`
	ResumeSuggestions []string           `json:"resume_suggestions"`
	Resources         []verdict.Resource `json:"resources"`
	FitAnalysis       struct {
		Summary    string   `json:"summary"`
		Strengths  []string `json:"strengths"`
		Weaknesses []string `json:"weaknesses"`
	} `json:"fit_analysis"`
}

func NewClient(cfg config.OracleConfig, logger *log.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{http: httpClient, logger: logger}
}

func (c *Client) Score(ctx context.Context, resumeText string, jobDescription string) (verdict.Verdict, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(matchRequest{ResumeText: resumeText, JDText: jobDescription}).
		Post("/api/match/")
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("oracle call failed | error=%v", err)
		}
		return verdict.Verdict{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		if c.logger != nil {
			c.logger.Printf("oracle call failed | status=%d", resp.StatusCode())
		}
		return verdict.Verdict{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}

	var out matchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return verdict.Verdict{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	v := verdict.Verdict{
		Score:             out.Score,
		Advice:            out.Advice,
		MissingSkills:     out.MissingSkills,
		ResumeSuggestions: out.ResumeSuggestions,
		Resources:         out.Resources,
		FitAnalysis: verdict.FitAnalysis{
			Summary:    out.FitAnalysis.Summary,
			Strengths:  out.FitAnalysis.Strengths,
			Weaknesses: out.FitAnalysis.Weaknesses,
		},
	}
	if !v.ScoreInRange() {
		return verdict.Verdict{}, fmt.Errorf("%w: score %v out of range", ErrMalformed, v.Score)
	}

	return v.Normalize(), nil
}
