package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"smart-apply/internal/config"
	"smart-apply/internal/domain/application"
	"smart-apply/internal/domain/job"
	"smart-apply/internal/domain/user"
	"smart-apply/internal/domain/verdict"
	"smart-apply/internal/infrastructure/cache"
	"smart-apply/internal/repository"

	"github.com/google/uuid"
)

type stubUserRepo struct {
	users map[string]user.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) Ensure(_ context.Context, u user.User) error {
	if cur, ok := s.users[u.ID]; ok {
		u.ResumeURL = cur.ResumeURL
		u.ResumeText = cur.ResumeText
	}
	s.users[u.ID] = u
	return nil
}

func (s *stubUserRepo) UpdateResume(_ context.Context, id string, resumeURL string, resumeText string) error {
	u, ok := s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.ResumeURL = resumeURL
	u.ResumeText = resumeText
	s.users[id] = u
	return nil
}

type stubJobRepo struct {
	jobs map[uuid.UUID]job.Job
}

func (s *stubJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (s *stubJobRepo) Insert(_ context.Context, j job.Job) error {
	s.jobs[j.ID] = j
	return nil
}

func (s *stubJobRepo) SetVisibility(_ context.Context, id uuid.UUID, visible bool) error {
	j, ok := s.jobs[id]
	if !ok {
		return job.ErrNotFound
	}
	j.Visible = visible
	s.jobs[id] = j
	return nil
}

func (s *stubJobRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]job.Job, error) {
	var out []job.Job
	for _, j := range s.jobs {
		if j.CompanyID == companyID {
			out = append(out, j)
		}
	}
	return out, nil
}

type stubAppRepo struct {
	inserted  []application.Application
	insertErr error
}

func (s *stubAppRepo) ExistsByUserAndJob(_ context.Context, userID string, jobID uuid.UUID) (bool, error) {
	for _, a := range s.inserted {
		if a.UserID == userID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubAppRepo) Insert(_ context.Context, a application.Application) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, a)
	return nil
}

func (s *stubAppRepo) UpdateStatus(_ context.Context, id uuid.UUID, companyID uuid.UUID, status application.Status) error {
	for i := range s.inserted {
		if s.inserted[i].ID == id && s.inserted[i].CompanyID == companyID {
			s.inserted[i].Status = status
			return nil
		}
	}
	return application.ErrNotFound
}

func (s *stubAppRepo) ListByUser(context.Context, string) ([]repository.UserApplicationRow, error) {
	return nil, nil
}

func (s *stubAppRepo) FindByUsersAndJob(_ context.Context, jobID uuid.UUID, userIDs []string) ([]repository.ApplicantRow, error) {
	var out []repository.ApplicantRow
	for _, id := range userIDs {
		for _, a := range s.inserted {
			if a.UserID == id && a.JobID == jobID {
				out = append(out, repository.ApplicantRow{Application: a, UserName: id})
			}
		}
	}
	return out, nil
}

func (s *stubAppRepo) ListQualifiedByJob(_ context.Context, jobID uuid.UUID, minScore float64) ([]repository.ApplicantRow, error) {
	var out []repository.ApplicantRow
	for _, a := range s.inserted {
		if a.JobID == jobID && a.Score >= minScore {
			out = append(out, repository.ApplicantRow{Application: a, UserName: a.UserID})
		}
	}
	return out, nil
}

func (s *stubAppRepo) CountByJob(_ context.Context, jobID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range s.inserted {
		if a.JobID == jobID {
			n++
		}
	}
	return n, nil
}

type stubScorer struct {
	verdict verdict.Verdict
	err     error
	calls   int
}

func (s *stubScorer) Score(context.Context, string, string) (verdict.Verdict, error) {
	s.calls++
	if s.err != nil {
		return verdict.Verdict{}, s.err
	}
	return s.verdict.Normalize(), nil
}

type stubNotifier struct {
	events []string
}

func (s *stubNotifier) ApplicationReceived(jobID uuid.UUID, userID string, score float64) {
	s.events = append(s.events, fmt.Sprintf("%s/%s/%.0f", jobID, userID, score))
}

func testPolicy() config.AdmissionPolicy {
	return config.AdmissionPolicy{
		AttemptLimit:       10,
		AttemptWindow:      time.Hour,
		SuccessLimit:       10,
		SuccessWindow:      time.Hour,
		ResumeUploadLimit:  3,
		ResumeUploadWindow: 24 * time.Hour,
		AdmissionThreshold: 75,
		QualifiedThreshold: 60,
		CooldownDuration:   5 * time.Hour,
		VerdictTTL:         24 * time.Hour,
	}
}

type admissionFixture struct {
	admission *Admission
	mem       *cache.Memory
	users     *stubUserRepo
	jobs      *stubJobRepo
	apps      *stubAppRepo
	scorer    *stubScorer
	notifier  *stubNotifier
	userID    string
	jobID     uuid.UUID
}

func newAdmissionFixture(t *testing.T, score float64) *admissionFixture {
	t.Helper()

	userID := "applicant-1"
	jobID := uuid.New()
	companyID := uuid.New()

	users := &stubUserRepo{users: map[string]user.User{
		userID: {ID: userID, Email: "a@example.com", Name: "A", ResumeText: "go developer"},
	}}
	jobs := &stubJobRepo{jobs: map[uuid.UUID]job.Job{
		jobID: {ID: jobID, CompanyID: companyID, Title: "Backend Engineer", Description: "go and postgres", Visible: true},
	}}
	apps := &stubAppRepo{}
	scorer := &stubScorer{verdict: verdict.Verdict{Score: score, Advice: "looks fine"}}
	notifier := &stubNotifier{}
	mem := cache.NewMemory()

	admission := NewAdmissionUsecase(
		users, jobs, apps,
		NewRateLimiter(mem),
		NewCooldownGate(mem),
		NewVerdictCache(mem, mem),
		NewRankingIndex(mem, mem),
		scorer, notifier, testPolicy(), nil,
	)

	return &admissionFixture{
		admission: admission,
		mem:       mem,
		users:     users,
		jobs:      jobs,
		apps:      apps,
		scorer:    scorer,
		notifier:  notifier,
		userID:    userID,
		jobID:     jobID,
	}
}

func TestApplyAccepted(t *testing.T) {
	f := newAdmissionFixture(t, 80)
	ctx := context.Background()

	res, err := f.admission.Apply(ctx, f.userID, f.jobID)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if res.Outcome != OutcomeAccepted {
		t.Fatalf("expected outcome %q, got %q", OutcomeAccepted, res.Outcome)
	}
	if res.Verdict.Score != 80 {
		t.Errorf("expected verdict score 80, got %v", res.Verdict.Score)
	}

	if len(f.apps.inserted) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(f.apps.inserted))
	}
	row := f.apps.inserted[0]
	if row.Status != application.StatusSubmitted || row.Score != 80 {
		t.Errorf("unexpected ledger row: status=%s score=%v", row.Status, row.Score)
	}

	top, err := NewRankingIndex(f.mem, f.mem).TopN(ctx, f.jobID, 10)
	if err != nil {
		t.Fatalf("TopN returned error: %v", err)
	}
	if len(top) != 1 || top[0] != f.userID {
		t.Errorf("expected ranking [%s], got %v", f.userID, top)
	}

	if len(f.notifier.events) != 1 {
		t.Errorf("expected 1 notification, got %d", len(f.notifier.events))
	}
}

func TestApplyBlockedBelowThreshold(t *testing.T) {
	f := newAdmissionFixture(t, 40)
	ctx := context.Background()

	res, err := f.admission.Apply(ctx, f.userID, f.jobID)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if res.Outcome != OutcomeBlocked {
		t.Fatalf("expected outcome %q, got %q", OutcomeBlocked, res.Outcome)
	}
	if res.Replayed {
		t.Error("first refusal must not be marked as replayed")
	}
	if res.CooldownExpiry.IsZero() {
		t.Error("expected cooldown expiry to be set")
	}
	until := time.Until(res.CooldownExpiry)
	if until < 4*time.Hour || until > 5*time.Hour {
		t.Errorf("expected roughly 5h cooldown, got %v", until)
	}

	if len(f.apps.inserted) != 0 {
		t.Errorf("blocked attempt must not write the ledger, got %d rows", len(f.apps.inserted))
	}
	top, _ := NewRankingIndex(f.mem, f.mem).TopN(ctx, f.jobID, 0)
	if len(top) != 0 {
		t.Errorf("blocked attempt must not enter the ranking, got %v", top)
	}
}

func TestApplyCooldownReplaysCachedVerdict(t *testing.T) {
	f := newAdmissionFixture(t, 40)
	ctx := context.Background()

	if _, err := f.admission.Apply(ctx, f.userID, f.jobID); err != nil {
		t.Fatalf("first Apply returned error: %v", err)
	}
	res, err := f.admission.Apply(ctx, f.userID, f.jobID)
	if err != nil {
		t.Fatalf("second Apply returned error: %v", err)
	}

	if res.Outcome != OutcomeBlocked || !res.Replayed {
		t.Fatalf("expected replayed block, got outcome=%q replayed=%v", res.Outcome, res.Replayed)
	}
	if res.Verdict.Score != 40 || res.Verdict.Advice != "looks fine" {
		t.Errorf("expected cached verdict to be replayed, got %+v", res.Verdict)
	}
	if f.scorer.calls != 1 {
		t.Errorf("cooldown replay must not call the oracle again, got %d calls", f.scorer.calls)
	}
}

func TestApplyCooldownOutlivesCachedVerdict(t *testing.T) {
	f := newAdmissionFixture(t, 40)
	ctx := context.Background()

	gate := NewCooldownGate(f.mem)
	if err := gate.Set(ctx, f.userID, f.jobID, 5*time.Hour); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	res, err := f.admission.Apply(ctx, f.userID, f.jobID)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if res.Outcome != OutcomeBlocked || !res.Replayed {
		t.Fatalf("expected replayed block, got outcome=%q replayed=%v", res.Outcome, res.Replayed)
	}
	if res.Verdict.Advice != verdict.DefaultAdvice {
		t.Errorf("expected default advice on expired cache, got %q", res.Verdict.Advice)
	}
	if f.scorer.calls != 0 {
		t.Errorf("cooldown must suppress the oracle call, got %d calls", f.scorer.calls)
	}
}

func TestApplyAttemptLimitExceeded(t *testing.T) {
	f := newAdmissionFixture(t, 80)
	ctx := context.Background()

	key := fmt.Sprintf("rate:%s:%s", PurposeAttempt, f.userID)
	for i := 0; i < 10; i++ {
		if _, _, err := f.mem.IncrWindow(ctx, key, time.Hour); err != nil {
			t.Fatalf("IncrWindow returned error: %v", err)
		}
	}

	res, err := f.admission.Apply(ctx, f.userID, f.jobID)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if res.Outcome != OutcomeRateLimited {
		t.Fatalf("expected outcome %q, got %q", OutcomeRateLimited, res.Outcome)
	}
	if res.RetryAfter <= 0 || res.RetryAfter > time.Hour {
		t.Errorf("expected retry-after within the window, got %v", res.RetryAfter)
	}
	if f.scorer.calls != 0 {
		t.Errorf("rate-limited attempt must not call the oracle, got %d calls", f.scorer.calls)
	}
}

func TestApplySuccessLimitExceeded(t *testing.T) {
	f := newAdmissionFixture(t, 80)
	ctx := context.Background()

	key := fmt.Sprintf("rate:%s:%s", PurposeSuccess, f.userID)
	for i := 0; i < 10; i++ {
		if _, _, err := f.mem.IncrWindow(ctx, key, time.Hour); err != nil {
			t.Fatalf("IncrWindow returned error: %v", err)
		}
	}

	res, err := f.admission.Apply(ctx, f.userID, f.jobID)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if res.Outcome != OutcomeRateLimited {
		t.Fatalf("expected outcome %q, got %q", OutcomeRateLimited, res.Outcome)
	}
	if len(f.apps.inserted) != 0 {
		t.Errorf("success-limited attempt must not write the ledger, got %d rows", len(f.apps.inserted))
	}

	// The oracle ran and its verdict stays cached; the call is not refunded.
	if f.scorer.calls != 1 {
		t.Errorf("expected 1 oracle call, got %d", f.scorer.calls)
	}
	if _, found, _ := NewVerdictCache(f.mem, f.mem).Get(ctx, f.userID, f.jobID); !found {
		t.Error("expected verdict to stay cached after success-limit refusal")
	}
}

func TestApplyOracleFailureLeavesNoTrace(t *testing.T) {
	f := newAdmissionFixture(t, 80)
	f.scorer.err = errors.New("connection refused")
	ctx := context.Background()

	_, err := f.admission.Apply(ctx, f.userID, f.jobID)
	if err == nil {
		t.Fatal("expected error from failed oracle call")
	}

	if len(f.apps.inserted) != 0 {
		t.Errorf("failed attempt must not write the ledger, got %d rows", len(f.apps.inserted))
	}
	if _, found, _ := NewVerdictCache(f.mem, f.mem).Get(ctx, f.userID, f.jobID); found {
		t.Error("failed attempt must not cache a verdict")
	}
	if _, on, _ := NewCooldownGate(f.mem).Remaining(ctx, f.userID, f.jobID); on {
		t.Error("failed attempt must not start a cooldown")
	}

	// The attempt itself still cost budget.
	count, err := f.mem.Current(ctx, fmt.Sprintf("rate:%s:%s", PurposeAttempt, f.userID))
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected attempt counter 1, got %d", count)
	}
}

func TestApplyDuplicate(t *testing.T) {
	f := newAdmissionFixture(t, 80)
	ctx := context.Background()

	if _, err := f.admission.Apply(ctx, f.userID, f.jobID); err != nil {
		t.Fatalf("first Apply returned error: %v", err)
	}
	res, err := f.admission.Apply(ctx, f.userID, f.jobID)
	if err != nil {
		t.Fatalf("second Apply returned error: %v", err)
	}
	if res.Outcome != OutcomeAlreadyApplied {
		t.Fatalf("expected outcome %q, got %q", OutcomeAlreadyApplied, res.Outcome)
	}
	if f.scorer.calls != 1 {
		t.Errorf("duplicate must not call the oracle again, got %d calls", f.scorer.calls)
	}
}

func TestApplyDuplicateRaceAtInsert(t *testing.T) {
	f := newAdmissionFixture(t, 80)
	f.apps.insertErr = application.ErrAlreadyApplied
	ctx := context.Background()

	res, err := f.admission.Apply(ctx, f.userID, f.jobID)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if res.Outcome != OutcomeAlreadyApplied {
		t.Fatalf("expected outcome %q, got %q", OutcomeAlreadyApplied, res.Outcome)
	}
}

func TestApplyResumeChangeInvalidatesVerdicts(t *testing.T) {
	f := newAdmissionFixture(t, 40)
	ctx := context.Background()

	if _, err := f.admission.Apply(ctx, f.userID, f.jobID); err != nil {
		t.Fatalf("first Apply returned error: %v", err)
	}

	verdicts := NewVerdictCache(f.mem, f.mem)
	if err := verdicts.InvalidateAll(ctx, f.userID); err != nil {
		t.Fatalf("InvalidateAll returned error: %v", err)
	}
	if _, found, _ := verdicts.Get(ctx, f.userID, f.jobID); found {
		t.Error("expected cached verdict to be unreachable after invalidation")
	}

	// The cooldown survives a resume change; replay falls back to defaults.
	res, err := f.admission.Apply(ctx, f.userID, f.jobID)
	if err != nil {
		t.Fatalf("second Apply returned error: %v", err)
	}
	if res.Outcome != OutcomeBlocked || !res.Replayed {
		t.Fatalf("expected replayed block, got outcome=%q replayed=%v", res.Outcome, res.Replayed)
	}
	if res.Verdict.Advice != verdict.DefaultAdvice {
		t.Errorf("expected default advice after invalidation, got %q", res.Verdict.Advice)
	}
}

func TestApplyInvalidInput(t *testing.T) {
	f := newAdmissionFixture(t, 80)
	ctx := context.Background()

	if _, err := f.admission.Apply(ctx, "", f.jobID); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty user, got %v", err)
	}
	if _, err := f.admission.Apply(ctx, f.userID, uuid.Nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil job, got %v", err)
	}
}
