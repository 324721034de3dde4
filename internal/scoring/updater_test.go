package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/algoprep/pulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePerformanceStore struct {
	records   map[string]*models.UserPerformance
	getErr    error
	upsertErr error
}

func newFakePerformanceStore() *fakePerformanceStore {
	return &fakePerformanceStore{records: make(map[string]*models.UserPerformance)}
}

func (s *fakePerformanceStore) GetByUser(_ context.Context, userID string) (*models.UserPerformance, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.records[userID], nil
}

func (s *fakePerformanceStore) Upsert(_ context.Context, record *models.UserPerformance) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.records[record.UserID] = record
	return nil
}

func newTestUpdater(store *fakePerformanceStore, now time.Time) *Updater {
	u := NewUpdater(store)
	u.now = func() time.Time { return now }
	return u
}

func acceptedSubmission(userID string) *models.Submission {
	return &models.Submission{
		ID:         "sub-1",
		UserID:     userID,
		ProblemID:  "prob-1",
		Verdict:    models.VerdictAccepted,
		Difficulty: models.DifficultyEasy,
	}
}

func TestUpdateCreatesRecordOnFirstSubmission(t *testing.T) {
	store := newFakePerformanceStore()
	updater := newTestUpdater(store, time.Now())

	record, err := updater.Update(context.Background(), acceptedSubmission("user-1"))

	require.NoError(t, err)
	assert.Equal(t, "user-1", record.UserID)
	assert.Equal(t, 1, record.TotalSubmissions)
	assert.Equal(t, 1, record.CorrectSubmissions)
	assert.Equal(t, 100.0, record.Accuracy)
	assert.NotNil(t, store.records["user-1"])
}

func TestUpdateAccumulatesAcceptedSubmissions(t *testing.T) {
	store := newFakePerformanceStore()
	updater := newTestUpdater(store, time.Now())

	var record *models.UserPerformance
	var err error
	for i := 0; i < 5; i++ {
		record, err = updater.Update(context.Background(), acceptedSubmission("user-1"))
		require.NoError(t, err)
	}

	assert.Equal(t, 5, record.TotalSubmissions)
	assert.Equal(t, 5, record.CorrectSubmissions)
	assert.Equal(t, 100.0, record.Accuracy)
	assert.Equal(t, 5, record.SolvedByDifficulty[models.DifficultyEasy])
	// velocity 5/7 = 0.71, so 0.4*100 + 0.3*50 + 0.3*min(100, 0.71*33.3)
	assert.Equal(t, 62.09, record.PerformanceScore)
	// 62.09 is below the promotion threshold.
	assert.Equal(t, models.DifficultyEasy, record.CurrentDifficulty)
	assert.Empty(t, record.DifficultyHistory)
}

func TestUpdatePromotesWhenThresholdsMet(t *testing.T) {
	now := time.Now()
	store := newFakePerformanceStore()

	seeded := models.NewUserPerformance("user-1")
	seeded.TotalSubmissions = 4
	seeded.CorrectSubmissions = 4
	seeded.SolvedByDifficulty[models.DifficultyEasy] = 4
	for i := 0; i < 20; i++ {
		seeded.RecentSolves = append(seeded.RecentSolves, now.Add(-time.Duration(i+1)*time.Hour))
	}
	store.records["user-1"] = seeded

	updater := newTestUpdater(store, now)
	record, err := updater.Update(context.Background(), acceptedSubmission("user-1"))

	require.NoError(t, err)
	assert.Equal(t, 5, record.SolvedByDifficulty[models.DifficultyEasy])
	// 21 solves in the window saturate at velocity 3.0.
	assert.Equal(t, 3.0, record.SolveVelocity)
	assert.Equal(t, 84.97, record.PerformanceScore)
	assert.Equal(t, models.DifficultyMedium, record.CurrentDifficulty)
	require.Len(t, record.DifficultyHistory, 1)
	assert.Contains(t, record.DifficultyHistory[0].Reason, "promoted")
}

func TestUpdateDemotesOnCollapsedAccuracy(t *testing.T) {
	store := newFakePerformanceStore()

	seeded := models.NewUserPerformance("user-1")
	seeded.CurrentDifficulty = models.DifficultyMedium
	seeded.TotalSubmissions = 10
	seeded.CorrectSubmissions = 2
	store.records["user-1"] = seeded

	updater := newTestUpdater(store, time.Now())
	rejected := acceptedSubmission("user-1")
	rejected.Verdict = models.VerdictRejected

	record, err := updater.Update(context.Background(), rejected)

	require.NoError(t, err)
	assert.Equal(t, 18.18, record.Accuracy)
	assert.Equal(t, 22.27, record.PerformanceScore)
	assert.Equal(t, models.DifficultyEasy, record.CurrentDifficulty)
	require.Len(t, record.DifficultyHistory, 1)
	assert.Contains(t, record.DifficultyHistory[0].Reason, "demoted")
}

func TestUpdateSmoothsSolveTimes(t *testing.T) {
	store := newFakePerformanceStore()
	updater := newTestUpdater(store, time.Now())

	first := acceptedSubmission("user-1")
	first.ExecutionTimeMs = 200000
	record, err := updater.Update(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, 200000.0, record.AvgSolveTimeMs)

	second := acceptedSubmission("user-1")
	second.ExecutionTimeMs = 100000
	record, err = updater.Update(context.Background(), second)
	require.NoError(t, err)
	assert.InDelta(t, 170000.0, record.AvgSolveTimeMs, 0.001)
}

func TestUpdateNormalizesTopicKeys(t *testing.T) {
	store := newFakePerformanceStore()
	updater := newTestUpdater(store, time.Now())

	submission := acceptedSubmission("user-1")
	submission.Topics = []string{" Arrays ", "DP", ""}

	record, err := updater.Update(context.Background(), submission)

	require.NoError(t, err)
	require.Len(t, record.TopicStrengths, 2)
	arrays := record.TopicStrengths["arrays"]
	require.NotNil(t, arrays)
	assert.Equal(t, 1, arrays.TotalAttempts)
	assert.Equal(t, 1, arrays.CorrectAttempts)
	assert.Equal(t, 100.0, arrays.Accuracy)
	assert.NotNil(t, record.TopicStrengths["dp"])
}

func TestUpdatePrunesSolvesOutsideWindow(t *testing.T) {
	now := time.Now()
	store := newFakePerformanceStore()

	seeded := models.NewUserPerformance("user-1")
	seeded.RecentSolves = []time.Time{
		now.Add(-8 * 24 * time.Hour),
		now.Add(-9 * 24 * time.Hour),
		now.Add(-10 * 24 * time.Hour),
		now.Add(-time.Hour),
	}
	store.records["user-1"] = seeded

	updater := newTestUpdater(store, now)
	record, err := updater.Update(context.Background(), acceptedSubmission("user-1"))

	require.NoError(t, err)
	assert.Len(t, record.RecentSolves, 2)
	assert.Equal(t, 0.29, record.SolveVelocity)
}

func TestUpdateSurfacesStoreErrors(t *testing.T) {
	store := newFakePerformanceStore()
	store.getErr = errors.New("connection reset")
	updater := newTestUpdater(store, time.Now())

	_, err := updater.Update(context.Background(), acceptedSubmission("user-1"))
	assert.Error(t, err)

	store.getErr = nil
	store.upsertErr = errors.New("write concern failed")
	_, err = updater.Update(context.Background(), acceptedSubmission("user-1"))
	assert.Error(t, err)
}
