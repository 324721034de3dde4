package plagiarism

import (
	"context"
	"errors"
	"testing"

	"github.com/algoprep/pulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSolution = `
func twoSum(nums []int, target int) []int {
	seen := map[int]int{}
	for i, v := range nums {
		if j, ok := seen[target-v]; ok {
			return []int{j, i}
		}
		seen[v] = i
	}
	return nil
}
`

const unrelatedSolution = `
def fib(n):
    # classic memoized fibonacci
    cache = {0: 0, 1: 1}
    def go(k):
        if k not in cache:
            cache[k] = go(k - 1) + go(k - 2)
        return cache[k]
    return go(n)
`

type fakeSubmissionStore struct {
	submissions map[string]*models.Submission
	candidates  []*models.Submission
	getErr      error
	candErr     error
	flagged     map[string]string
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{
		submissions: map[string]*models.Submission{},
		flagged:     map[string]string{},
	}
}

func (s *fakeSubmissionStore) GetSubmission(_ context.Context, id string) (*models.Submission, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.submissions[id], nil
}

func (s *fakeSubmissionStore) RecentAcceptedByProblem(_ context.Context, _, _ string, _ int) ([]*models.Submission, error) {
	if s.candErr != nil {
		return nil, s.candErr
	}
	return s.candidates, nil
}

func (s *fakeSubmissionStore) FlagSubmission(_ context.Context, id, reason string) error {
	s.flagged[id] = reason
	return nil
}

type fakeReportStore struct {
	inserted  []*models.PlagiarismReport
	insertErr error
}

func (s *fakeReportStore) InsertReport(_ context.Context, report *models.PlagiarismReport) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, report)
	return nil
}

type notifyCall struct {
	userID    string
	notifType string
}

type fakeNotifier struct {
	calls []notifyCall
}

func (n *fakeNotifier) Notify(_ context.Context, userID, notifType, _, _ string, _ map[string]interface{}) {
	n.calls = append(n.calls, notifyCall{userID: userID, notifType: notifType})
}

func newTestDetector(subs *fakeSubmissionStore, reports *fakeReportStore, notifier *fakeNotifier) *Detector {
	return NewDetector(subs, reports, notifier, nil, Options{})
}

func TestCheckIdenticalCodeFlagsSubmission(t *testing.T) {
	subs := newFakeSubmissionStore()
	subs.submissions["sub-1"] = &models.Submission{
		ID:         "sub-1",
		UserID:     "alice",
		ProblemID:  "two-sum",
		SourceCode: sampleSolution,
		Verdict:    models.VerdictAccepted,
	}
	subs.candidates = []*models.Submission{
		{ID: "sub-0", UserID: "bob", ProblemID: "two-sum", SourceCode: sampleSolution},
	}
	reports := &fakeReportStore{}
	notifier := &fakeNotifier{}
	detector := newTestDetector(subs, reports, notifier)

	created := detector.Check(context.Background(), "sub-1")

	require.Len(t, created, 1)
	report := created[0]
	assert.Equal(t, "sub-1", report.SubmissionID)
	assert.Equal(t, "sub-0", report.ComparedWithID)
	assert.Equal(t, 100, report.SimilarityPercent)
	assert.True(t, report.IsFlagged)
	assert.Equal(t, AlgorithmID, report.Algorithm)
	assert.Equal(t, DefaultNGramSize, report.Detail.NGramSize)

	assert.Contains(t, subs.flagged, "sub-1")
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "alice", notifier.calls[0].userID)
	assert.Equal(t, models.NotificationTypePlagiarismFlag, notifier.calls[0].notifType)
}

func TestCheckUnrelatedCodeProducesNoReports(t *testing.T) {
	subs := newFakeSubmissionStore()
	subs.submissions["sub-1"] = &models.Submission{
		ID:         "sub-1",
		UserID:     "alice",
		ProblemID:  "two-sum",
		SourceCode: sampleSolution,
	}
	subs.candidates = []*models.Submission{
		{ID: "sub-0", UserID: "bob", SourceCode: unrelatedSolution},
	}
	reports := &fakeReportStore{}
	notifier := &fakeNotifier{}
	detector := newTestDetector(subs, reports, notifier)

	created := detector.Check(context.Background(), "sub-1")

	assert.Empty(t, created)
	assert.Empty(t, subs.flagged)
	assert.Empty(t, notifier.calls)
}

func TestCheckMissingSubmission(t *testing.T) {
	subs := newFakeSubmissionStore()
	reports := &fakeReportStore{}
	detector := newTestDetector(subs, reports, &fakeNotifier{})

	created := detector.Check(context.Background(), "unknown")

	assert.Empty(t, created)
	assert.Empty(t, reports.inserted)
}

func TestCheckSwallowsStorageErrors(t *testing.T) {
	subs := newFakeSubmissionStore()
	subs.getErr = errors.New("mongo down")
	detector := newTestDetector(subs, &fakeReportStore{}, &fakeNotifier{})

	assert.NotPanics(t, func() {
		created := detector.Check(context.Background(), "sub-1")
		assert.Empty(t, created)
	})
}

func TestCheckSkipsEmptyCandidates(t *testing.T) {
	subs := newFakeSubmissionStore()
	subs.submissions["sub-1"] = &models.Submission{
		ID:         "sub-1",
		UserID:     "alice",
		ProblemID:  "two-sum",
		SourceCode: sampleSolution,
	}
	subs.candidates = []*models.Submission{
		{ID: "sub-0", UserID: "bob", SourceCode: ""},
		{ID: "sub-2", UserID: "carol", SourceCode: sampleSolution},
	}
	reports := &fakeReportStore{}
	detector := newTestDetector(subs, reports, &fakeNotifier{})

	created := detector.Check(context.Background(), "sub-1")

	require.Len(t, created, 1)
	assert.Equal(t, "sub-2", created[0].ComparedWithID)
}

func TestCheckContinuesPastReportInsertFailure(t *testing.T) {
	subs := newFakeSubmissionStore()
	subs.submissions["sub-1"] = &models.Submission{
		ID:         "sub-1",
		UserID:     "alice",
		ProblemID:  "two-sum",
		SourceCode: sampleSolution,
	}
	subs.candidates = []*models.Submission{
		{ID: "sub-0", UserID: "bob", SourceCode: sampleSolution},
	}
	reports := &fakeReportStore{insertErr: errors.New("write failed")}
	notifier := &fakeNotifier{}
	detector := newTestDetector(subs, reports, notifier)

	created := detector.Check(context.Background(), "sub-1")

	// The report was lost, so the pair contributes nothing downstream.
	assert.Empty(t, created)
	assert.Empty(t, subs.flagged)
}

func TestAllReportsReferenceSubject(t *testing.T) {
	subs := newFakeSubmissionStore()
	subs.submissions["sub-1"] = &models.Submission{
		ID:         "sub-1",
		UserID:     "alice",
		ProblemID:  "two-sum",
		SourceCode: sampleSolution,
	}
	subs.candidates = []*models.Submission{
		{ID: "c1", UserID: "bob", SourceCode: sampleSolution},
		{ID: "c2", UserID: "carol", SourceCode: sampleSolution + "\n// trailing note\n"},
	}
	reports := &fakeReportStore{}
	detector := newTestDetector(subs, reports, &fakeNotifier{})

	created := detector.Check(context.Background(), "sub-1")

	require.Len(t, created, 2)
	for _, report := range created {
		assert.Equal(t, "sub-1", report.SubmissionID)
	}
}
