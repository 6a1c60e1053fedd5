package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkolge/apm-monitor/pkg/logger"
)

func newTestStore(t *testing.T, cfg Config) Store {
	t.Helper()

	if cfg.Dir == "" {
		cfg.Dir = t.TempDir()
	}

	s, err := New(cfg, logger.Noop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })

	return s
}

func sampleRecord(tag string, completed time.Time) *Record {
	return &Record{
		Tag:                   tag,
		ScaleFactor:           0.7,
		TotalActions:          120,
		PeakRate:              95,
		AverageRate:           80,
		AverageAdjustedRate:   56,
		ActiveDurationSeconds: 90,
		CompletedAt:           completed,
	}
}

func TestStorePersist(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Run("round trip preserves every field", func(t *testing.T) {
		s := newTestStore(t, Config{})

		want := sampleRecord("practice", base)
		id, err := s.Persist(want)
		require.NoError(t, err)
		assert.Equal(t, "report_2025-03-14_09-26-53.json", id)
		assert.Equal(t, id, want.ID)

		groups, skipped, err := s.ListAll()
		require.NoError(t, err)
		assert.Zero(t, skipped)
		require.Len(t, groups, 1)
		require.Len(t, groups[0].Records, 1)

		got := groups[0].Records[0]
		assert.Equal(t, *want, got)
	})

	t.Run("same-second records never overwrite", func(t *testing.T) {
		s := newTestStore(t, Config{})

		first, err := s.Persist(sampleRecord("a", base))
		require.NoError(t, err)
		second, err := s.Persist(sampleRecord("b", base))
		require.NoError(t, err)
		third, err := s.Persist(sampleRecord("c", base))
		require.NoError(t, err)

		assert.Equal(t, "report_2025-03-14_09-26-53.json", first)
		assert.Equal(t, "report_2025-03-14_09-26-53_2.json", second)
		assert.Equal(t, "report_2025-03-14_09-26-53_3.json", third)

		groups, _, err := s.ListAll()
		require.NoError(t, err)
		assert.Len(t, groups, 3)
	})

	t.Run("empty tag defaults to untagged", func(t *testing.T) {
		s := newTestStore(t, Config{})

		_, err := s.Persist(sampleRecord("", base))
		require.NoError(t, err)

		groups, _, err := s.ListAll()
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "untagged", groups[0].Tag)
	})

	t.Run("rejects invalid records", func(t *testing.T) {
		s := newTestStore(t, Config{})

		_, err := s.Persist(nil)
		assert.ErrorIs(t, err, ErrInvalidRecord)

		_, err = s.Persist(&Record{Tag: "x"})
		assert.ErrorIs(t, err, ErrInvalidRecord)

		rec := sampleRecord("x", base)
		rec.ScaleFactor = 1.5
		_, err = s.Persist(rec)
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})
}

func TestStoreListAll(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("groups sorted by tag, records by completion time", func(t *testing.T) {
		s := newTestStore(t, Config{})

		_, err := s.Persist(sampleRecord("zebra", base.Add(2*time.Minute)))
		require.NoError(t, err)
		_, err = s.Persist(sampleRecord("alpha", base.Add(time.Minute)))
		require.NoError(t, err)
		_, err = s.Persist(sampleRecord("alpha", base))
		require.NoError(t, err)

		groups, skipped, err := s.ListAll()
		require.NoError(t, err)
		assert.Zero(t, skipped)
		require.Len(t, groups, 2)

		assert.Equal(t, "alpha", groups[0].Tag)
		assert.Equal(t, "zebra", groups[1].Tag)

		require.Len(t, groups[0].Records, 2)
		assert.True(t, groups[0].Records[0].CompletedAt.Before(groups[0].Records[1].CompletedAt))
	})

	t.Run("corrupt records are skipped and counted", func(t *testing.T) {
		dir := t.TempDir()
		s := newTestStore(t, Config{Dir: dir})

		_, err := s.Persist(sampleRecord("good", base))
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "report_2025-03-14_09-00-01.json"),
			[]byte("{not json"), 0600))

		groups, skipped, err := s.ListAll()
		require.NoError(t, err)
		assert.Equal(t, 1, skipped)
		require.Len(t, groups, 1)
		assert.Equal(t, "good", groups[0].Tag)
	})

	t.Run("non-record files are ignored", func(t *testing.T) {
		dir := t.TempDir()
		s := newTestStore(t, Config{Dir: dir})

		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

		groups, skipped, err := s.ListAll()
		require.NoError(t, err)
		assert.Zero(t, skipped)
		assert.Empty(t, groups)
	})

	t.Run("never observes a record mid-persist", func(t *testing.T) {
		s := newTestStore(t, Config{})

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 50; i++ {
				_, err := s.Persist(sampleRecord("burst", base.Add(time.Duration(i)*time.Second)))
				assert.NoError(t, err)
			}
		}()

		for {
			_, skipped, err := s.ListAll()
			require.NoError(t, err)
			assert.Zero(t, skipped)

			select {
			case <-done:
				groups, skipped, err := s.ListAll()
				require.NoError(t, err)
				assert.Zero(t, skipped)
				require.Len(t, groups, 1)
				assert.Len(t, groups[0].Records, 50)
				return
			default:
			}
		}
	})
}

func TestStoreDelete(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("removes exactly one record", func(t *testing.T) {
		s := newTestStore(t, Config{})

		id, err := s.Persist(sampleRecord("a", base))
		require.NoError(t, err)
		_, err = s.Persist(sampleRecord("a", base.Add(time.Minute)))
		require.NoError(t, err)

		require.NoError(t, s.Delete(id))

		groups, _, err := s.ListAll()
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Len(t, groups[0].Records, 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := newTestStore(t, Config{})
		assert.ErrorIs(t, s.Delete("report_2099-01-01_00-00-00.json"), ErrRecordNotFound)
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		s := newTestStore(t, Config{})
		assert.ErrorIs(t, s.Delete("../escape.json"), ErrInvalidID)
		assert.ErrorIs(t, s.Delete("report.db"), ErrInvalidID)
		assert.ErrorIs(t, s.Delete(""), ErrInvalidID)
	})
}

func TestStoreDeleteTag(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("removes the whole group and nothing else", func(t *testing.T) {
		s := newTestStore(t, Config{})

		_, err := s.Persist(sampleRecord("doomed", base))
		require.NoError(t, err)
		_, err = s.Persist(sampleRecord("doomed", base.Add(time.Minute)))
		require.NoError(t, err)
		_, err = s.Persist(sampleRecord("kept", base.Add(2*time.Minute)))
		require.NoError(t, err)

		require.NoError(t, s.DeleteTag("doomed"))

		groups, _, err := s.ListAll()
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "kept", groups[0].Tag)
	})

	t.Run("unknown tag", func(t *testing.T) {
		s := newTestStore(t, Config{})
		assert.ErrorIs(t, s.DeleteTag("ghost"), ErrTagNotFound)
		assert.ErrorIs(t, s.DeleteTag(""), ErrTagNotFound)
	})

	t.Run("finds records written by a previous store", func(t *testing.T) {
		dir := t.TempDir()

		first, err := New(Config{Dir: dir}, logger.Noop())
		require.NoError(t, err)
		_, err = first.Persist(sampleRecord("old", base))
		require.NoError(t, err)
		require.NoError(t, first.Close())

		second := newTestStore(t, Config{Dir: dir})
		require.NoError(t, second.DeleteTag("old"))

		groups, _, err := second.ListAll()
		require.NoError(t, err)
		assert.Empty(t, groups)
	})
}

func TestStoreRenderer(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	var renders atomic.Int32
	var lastGroups []TagGroup

	s := newTestStore(t, Config{
		Renderer: RenderFunc(func(groups []TagGroup) error {
			renders.Add(1)
			lastGroups = groups
			return nil
		}),
	})

	id, err := s.Persist(sampleRecord("a", base))
	require.NoError(t, err)
	assert.Equal(t, int32(1), renders.Load())
	require.Len(t, lastGroups, 1)

	require.NoError(t, s.Delete(id))
	assert.Equal(t, int32(2), renders.Load())
	assert.Empty(t, lastGroups)

	require.NoError(t, s.RenderView())
	assert.Equal(t, int32(3), renders.Load())
}

func TestStoreRecordFileFormat(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, Config{Dir: dir})

	base := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	id, err := s.Persist(sampleRecord("practice", base))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, id))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	for _, key := range []string{
		"tag", "scale_factor", "total_actions", "peak_rate",
		"average_rate", "average_adjusted_rate",
		"active_duration_seconds", "completed_at",
	} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "ID")
	assert.Equal(t, "practice", fields["tag"])
}
