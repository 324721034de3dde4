package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/algoprep/pulse/internal/models"
	"github.com/algoprep/pulse/internal/plagiarism"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSubmissionStore keys documents by submission ID the way the
// Mongo upsert does, and counts raw writes separately.
type fakeSubmissionStore struct {
	docs   map[string]*models.Submission
	writes int
	err    error
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{docs: make(map[string]*models.Submission)}
}

func (s *fakeSubmissionStore) UpsertSubmission(_ context.Context, submission *models.Submission) error {
	if s.err != nil {
		return s.err
	}
	s.writes++
	stored := *submission
	s.docs[submission.ID] = &stored
	return nil
}

type fakeUpdater struct {
	failures int
	calls    int
}

func (u *fakeUpdater) Update(_ context.Context, submission *models.Submission) (*models.UserPerformance, error) {
	u.calls++
	if u.failures > 0 {
		u.failures--
		return nil, errors.New("connection reset")
	}
	record := models.NewUserPerformance(submission.UserID)
	record.TotalSubmissions = 1
	return record, nil
}

type fakeJobQueue struct {
	jobs []plagiarism.Job
	err  error
}

func (q *fakeJobQueue) Submit(job plagiarism.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func gradedSubmission() *models.Submission {
	return &models.Submission{
		UserID:     "user-1",
		ProblemID:  "prob-1",
		SourceCode: "func main() {}",
		Verdict:    models.VerdictAccepted,
		Difficulty: models.DifficultyEasy,
	}
}

func TestProcessSubmissionAssignsIDAndQueuesCheck(t *testing.T) {
	store := newFakeSubmissionStore()
	queue := &fakeJobQueue{}
	pipeline := NewPipeline(store, &fakeUpdater{}, nil, queue, nil)

	submission := gradedSubmission()
	record, err := pipeline.ProcessSubmission(context.Background(), submission, "api")

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.NotEmpty(t, submission.ID)
	require.Len(t, store.docs, 1)

	require.Len(t, queue.jobs, 1)
	job, ok := queue.jobs[0].(*plagiarism.CheckJob)
	require.True(t, ok)
	assert.Equal(t, submission.ID, job.SubmissionID)
}

func TestProcessSubmissionReplayStoresOneDocument(t *testing.T) {
	store := newFakeSubmissionStore()
	updater := &fakeUpdater{failures: 1}
	pipeline := NewPipeline(store, updater, nil, &fakeJobQueue{}, nil)

	// The stream retry handler re-runs the whole call with the same
	// event when a transient failure follows the submission write.
	submission := gradedSubmission()
	_, err := pipeline.ProcessSubmission(context.Background(), submission, "stream")
	require.Error(t, err)

	record, err := pipeline.ProcessSubmission(context.Background(), submission, "stream")
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, 2, store.writes)
	assert.Len(t, store.docs, 1)
	assert.NotNil(t, store.docs[submission.ID])
	assert.Equal(t, 2, updater.calls)
}

func TestProcessSubmissionSurfacesStoreErrors(t *testing.T) {
	store := newFakeSubmissionStore()
	store.err = errors.New("mongo down")
	pipeline := NewPipeline(store, &fakeUpdater{}, nil, &fakeJobQueue{}, nil)

	_, err := pipeline.ProcessSubmission(context.Background(), gradedSubmission(), "stream")
	assert.Error(t, err)
}

func TestQueueCheckSwallowsQueueErrors(t *testing.T) {
	queue := &fakeJobQueue{err: errors.New("pool closed")}
	pipeline := NewPipeline(newFakeSubmissionStore(), &fakeUpdater{}, nil, queue, nil)

	assert.NotPanics(t, func() {
		pipeline.QueueCheck(context.Background(), "sub-1")
	})
}
