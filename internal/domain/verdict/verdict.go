package verdict

// Verdict is the structured outcome of one matching-oracle call. The client
// normalizes every optional field before a Verdict leaves the oracle package,
// so downstream code never handles nils.
type Verdict struct {
	Score             float64     `json:"score"`
	Advice            string      `json:"advice"`
	MissingSkills     []string    `json:"missing_skills"`
	ResumeSuggestions []string    `json:"resume_suggestions"`
	Resources         []Resource  `json:"resources"`
	FitAnalysis       FitAnalysis `json:"fit_analysis"`
}

type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type FitAnalysis struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

const DefaultAdvice = "No advice returned."

// Normalize fills unset optional fields with safe defaults. It never
// manufactures a verdict out of a failed call; callers only invoke it on a
// successfully decoded oracle response.
func (v Verdict) Normalize() Verdict {
	if v.Advice == "" {
		v.Advice = DefaultAdvice
	}
	if v.MissingSkills == nil {
		v.MissingSkills = []string{}
	}
	if v.ResumeSuggestions == nil {
		v.ResumeSuggestions = []string{}
	}
	if v.Resources == nil {
		v.Resources = []Resource{}
	}
	if v.FitAnalysis.Strengths == nil {
		v.FitAnalysis.Strengths = []string{}
	}
	if v.FitAnalysis.Weaknesses == nil {
		v.FitAnalysis.Weaknesses = []string{}
	}
	return v
}

func (v Verdict) ScoreInRange() bool {
	return v.Score >= 0 && v.Score <= 100
}
