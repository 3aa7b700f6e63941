package dashboard

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/devcatalyst/intake-service/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func record(ts, name, track, branch, score string) models.CandidateAggregate {
	rec := models.NewCandidateAggregate()
	rec.Identity[models.FieldTimestamp] = ts
	rec.Identity[models.FieldFullName] = name
	rec.Identity[models.FieldSelectedTrack] = track
	rec.Identity[models.FieldBranch] = branch
	if score != "" {
		rec.Scores["tech_response_score"] = &score
	} else {
		rec.Scores["tech_response_score"] = nil
	}
	return rec
}

func names(records []models.CandidateAggregate) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Identity[models.FieldFullName]
	}
	return out
}

var sample = []models.CandidateAggregate{
	record("2025-02-01T09:00:00Z", "Asha", "Technical Team", "CSE", "9"),
	record("2025-02-01T11:00:00Z", "Ravi", "Social Media Team", "ECE", ""),
	record("2025-02-01T12:00:00Z", "Meera", "Technical Team", "CSE", "10"),
	record("2025-02-01T13:00:00Z", "Kiran", "Outreach Team", "", "9"),
}

func TestApply(t *testing.T) {
	statuses := map[string]models.ReviewStatus{
		"2025-02-01T11:00:00Z": models.StatusAccepted,
		"2025-02-01T13:00:00Z": models.StatusViewed,
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"overview keeps everything", Query{Tab: TabOverview}, []string{"Asha", "Ravi", "Meera", "Kiran"}},
		{"track tab", Query{Tab: "Technical Team"}, []string{"Asha", "Meera"}},
		{"status replaces tab", Query{Tab: "Technical Team", Status: models.StatusAccepted}, []string{"Ravi"}},
		{"untracked records are pending", Query{Status: models.StatusPending}, []string{"Asha", "Meera"}},
		{"search is case-insensitive", Query{Search: "mEE"}, []string{"Meera"}},
		{"search covers scores", Query{Search: "10"}, []string{"Meera"}},
		{"numeric sort", Query{SortKey: "tech_response_score"}, []string{"Ravi", "Asha", "Kiran", "Meera"}},
		{"numeric sort descending is stable", Query{SortKey: "tech_response_score", Desc: true}, []string{"Meera", "Asha", "Kiran", "Ravi"}},
		{"text sort", Query{Tab: TabAll, SortKey: models.FieldFullName}, []string{"Asha", "Kiran", "Meera", "Ravi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Apply(sample, tt.query, statuses))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_SortTiesKeepInputOrder(t *testing.T) {
	records := []models.CandidateAggregate{
		record("1", "First", "Technical Team", "CSE", "7"),
		record("2", "Second", "Technical Team", "ECE", "7"),
		record("3", "Third", "Technical Team", "CSE", "7"),
	}
	for _, desc := range []bool{false, true} {
		got := names(Apply(records, Query{SortKey: models.FieldSelectedTrack, Desc: desc}, nil))
		assert.Equal(t, []string{"First", "Second", "Third"}, got)
	}
	assert.Equal(t, "First", records[0].Identity[models.FieldFullName], "input untouched")
}

func TestSummarize(t *testing.T) {
	got := Summarize(sample)
	want := Summary{
		Total:    4,
		Latest:   "2025-02-01T13:00:00Z",
		Branches: map[string]int{"CSE": 2, "ECE": 1, "Unknown": 1},
		Tracks:   map[string]int{"Technical Team": 2, "Social Media Team": 1, "Outreach Team": 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}

	empty := Summarize(nil)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.Latest)
}

func TestNewest(t *testing.T) {
	assert.Equal(t, []string{"Kiran", "Meera", "Ravi", "Asha"}, names(Newest(sample)))
	assert.Equal(t, "Asha", sample[0].Identity[models.FieldFullName])
}

func testStores(t *testing.T) map[string]StatusStore {
	t.Helper()
	sqlite, err := OpenStatusStore(filepath.Join(t.TempDir(), "review", "status.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]StatusStore{
		"memory": NewMemoryStatusStore(),
		"sqlite": sqlite,
	}
}

func TestTracker(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tracker := NewTracker(store)

			status, err := tracker.Open(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, models.StatusViewed, status)

			require.NoError(t, tracker.Accept(ctx, "a"))
			status, err = tracker.Open(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, models.StatusAccepted, status, "opening never downgrades")

			require.NoError(t, tracker.Reject(ctx, "a"))
			require.NoError(t, tracker.Accept(ctx, "b"))
			require.NoError(t, tracker.Mark(ctx, "c", models.StatusPending))
			assert.Error(t, tracker.Mark(ctx, "c", models.ReviewStatus("maybe")))

			all, err := tracker.Statuses(ctx)
			require.NoError(t, err)
			want := map[string]models.ReviewStatus{
				"a": models.StatusRejected,
				"b": models.StatusAccepted,
				"c": models.StatusPending,
			}
			if diff := cmp.Diff(want, all); diff != "" {
				t.Errorf("Statuses() mismatch (-want +got):\n%s", diff)
			}

			status, err = store.Get(ctx, "never-seen")
			require.NoError(t, err)
			assert.Equal(t, models.StatusPending, status)
		})
	}
}

func TestSQLiteStatusStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.db")
	ctx := context.Background()

	store, err := OpenStatusStore(path)
	require.NoError(t, err)
	require.NoError(t, NewTracker(store).Accept(ctx, "2025-02-01T10:00:00Z"))
	require.NoError(t, store.Close())

	reopened, err := OpenStatusStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	status, err := reopened.Get(ctx, "2025-02-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, status)
}
