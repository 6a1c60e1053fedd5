package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mkolge/apm-monitor/pkg/logger"
)

// recordPrefix and recordExt shape report filenames:
// report_2025-03-14_09-26-53.json.
const (
	recordPrefix = "report_"
	recordExt    = ".json"
	stampLayout  = "2006-01-02_15-04-05"
)

// store implements the Store interface with one JSON file per record plus a
// BoltDB index.
type store struct {
	config Config
	logger logger.Logger

	mu sync.Mutex
	db boltIndex
}

// New creates a report store rooted at cfg.Dir.
//
// The directory is created if missing. The index database is opened (or
// created) and rebuilt from the records present on disk, so records added
// or removed while the store was closed are picked up.
func New(cfg Config, log logger.Logger) (Store, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}

	cfg.Dir = expandHome(cfg.Dir)
	if cfg.IndexPath == "" {
		cfg.IndexPath = filepath.Join(cfg.Dir, "index.db")
	} else {
		cfg.IndexPath = expandHome(cfg.IndexPath)
	}

	if err := os.MkdirAll(cfg.Dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.IndexPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := openIndex(cfg.IndexPath, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	s := &store{
		config: cfg,
		logger: log,
		db:     db,
	}

	if err := s.reindex(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close index after rebuild error", "error", closeErr)
		}
		return nil, err
	}

	log.Info("report store opened",
		"dir", cfg.Dir,
		"index", cfg.IndexPath)

	return s, nil
}

// Persist implements Store.Persist.
func (s *store) Persist(rec *Record) (string, error) {
	if rec == nil || rec.CompletedAt.IsZero() {
		return "", ErrInvalidRecord
	}
	if rec.TotalActions < 0 || rec.ScaleFactor < 0 || rec.ScaleFactor > 1 {
		return "", ErrInvalidRecord
	}
	if rec.Tag == "" {
		rec.Tag = "untagged"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	// Identity derives from the completion timestamp; a numeric suffix
	// resolves same-second collisions so no record is ever overwritten.
	base := recordPrefix + rec.CompletedAt.Format(stampLayout)
	var id string
	for n := 1; ; n++ {
		id = base + recordExt
		if n > 1 {
			id = fmt.Sprintf("%s_%d%s", base, n, recordExt)
		}

		f, createErr := os.OpenFile(filepath.Join(s.config.Dir, id),
			os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if createErr != nil {
			if os.IsExist(createErr) {
				continue
			}
			return "", fmt.Errorf("failed to create record file: %w", createErr)
		}

		if _, writeErr := f.Write(data); writeErr != nil {
			_ = f.Close()
			return "", fmt.Errorf("failed to write record file: %w", writeErr)
		}
		if closeErr := f.Close(); closeErr != nil {
			return "", fmt.Errorf("failed to close record file: %w", closeErr)
		}
		break
	}

	rec.ID = id

	if err := s.db.put(rec); err != nil {
		s.logger.Warn("failed to index record", "id", id, "error", err)
	}

	s.logger.Info("session report persisted",
		"id", id,
		"tag", rec.Tag,
		"total_actions", rec.TotalActions)

	s.renderLocked()
	return id, nil
}

// ListAll implements Store.ListAll.
func (s *store) ListAll() ([]TagGroup, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

// listLocked reads the directory under the store lock, so a record file
// mid-creation by Persist is never observed half written.
func (s *store) listLocked() ([]TagGroup, int, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read reports directory: %w", err)
	}

	skipped := 0
	byTag := make(map[string][]Record)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, recordExt) {
			continue
		}

		rec, readErr := s.readRecord(name)
		if readErr != nil {
			skipped++
			s.logger.Warn("skipping unreadable record",
				"id", name,
				"error", readErr)
			continue
		}

		byTag[rec.Tag] = append(byTag[rec.Tag], rec)
	}

	tags := make([]string, 0, len(byTag))
	for tag := range byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	groups := make([]TagGroup, 0, len(tags))
	for _, tag := range tags {
		recs := byTag[tag]
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].CompletedAt.Equal(recs[j].CompletedAt) {
				return recs[i].ID < recs[j].ID
			}
			return recs[i].CompletedAt.Before(recs[j].CompletedAt)
		})
		groups = append(groups, TagGroup{Tag: tag, Records: recs})
	}

	return groups, skipped, nil
}

// Delete implements Store.Delete.
func (s *store) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tag := s.db.tagOf(id)

	if err := os.Remove(filepath.Join(s.config.Dir, id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		return fmt.Errorf("failed to delete record: %w", err)
	}

	if err := s.db.delete(id, tag); err != nil {
		s.logger.Warn("failed to remove record from index", "id", id, "error", err)
	}

	s.logger.Info("report deleted", "id", id, "tag", tag)

	s.renderLocked()
	return nil
}

// DeleteTag implements Store.DeleteTag.
func (s *store) DeleteTag(tag string) error {
	if tag == "" {
		return ErrTagNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The index is the fast path; a directory scan backs it up for records
	// written by other processes since the last reindex.
	ids, err := s.db.idsForTag(tag)
	if err != nil {
		s.logger.Warn("index scan failed, falling back to directory scan",
			"tag", tag,
			"error", err)
		ids = nil
	}
	if len(ids) == 0 {
		ids = s.scanIDsForTag(tag)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: %s", ErrTagNotFound, tag)
	}

	for _, id := range ids {
		if err := os.Remove(filepath.Join(s.config.Dir, id)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete record %s: %w", id, err)
		}
		if err := s.db.delete(id, tag); err != nil {
			s.logger.Warn("failed to remove record from index", "id", id, "error", err)
		}
	}

	s.logger.Info("tag group deleted", "tag", tag, "records", len(ids))

	s.renderLocked()
	return nil
}

// RenderView implements Store.RenderView.
func (s *store) RenderView() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderViewLocked()
}

func (s *store) renderViewLocked() error {
	if s.config.Renderer == nil {
		return nil
	}

	groups, skipped, err := s.listLocked()
	if err != nil {
		return err
	}
	if skipped > 0 {
		s.logger.Warn("aggregate view rendered without unreadable records",
			"skipped", skipped)
	}

	return s.config.Renderer.Render(groups)
}

// Dir implements Store.Dir.
func (s *store) Dir() string {
	return s.config.Dir
}

// Close implements Store.Close.
func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close report index: %w", err)
	}

	s.logger.Info("report store closed")
	return nil
}

// renderLocked regenerates the aggregate view after a mutation. A render
// failure does not undo the mutation; the view is regenerable.
func (s *store) renderLocked() {
	if s.config.Renderer == nil {
		return
	}

	if err := s.renderViewLocked(); err != nil {
		s.logger.Error("failed to regenerate aggregate view", "error", err)
	}
}

// readRecord loads and decodes a single record file.
func (s *store) readRecord(id string) (Record, error) {
	data, err := os.ReadFile(filepath.Join(s.config.Dir, id)) // #nosec G304 -- id is a validated basename inside the store dir
	if err != nil {
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}

	rec.ID = id
	if rec.Tag == "" {
		rec.Tag = "untagged"
	}

	return rec, nil
}

// scanIDsForTag reads every record file to find a tag's members.
func (s *store) scanIDsForTag(tag string) []string {
	groups, _, err := s.listLocked()
	if err != nil {
		return nil
	}

	for _, g := range groups {
		if g.Tag != tag {
			continue
		}
		ids := make([]string, 0, len(g.Records))
		for _, rec := range g.Records {
			ids = append(ids, rec.ID)
		}
		return ids
	}

	return nil
}

// reindex rebuilds the index from the record files on disk. Runs during
// construction, before the store is shared.
func (s *store) reindex() error {
	groups, skipped, err := s.listLocked()
	if err != nil {
		return err
	}
	if skipped > 0 {
		s.logger.Warn("reindex skipped unreadable records", "skipped", skipped)
	}

	records := make([]*Record, 0)
	for _, g := range groups {
		for i := range g.Records {
			records = append(records, &g.Records[i])
		}
	}

	return s.db.rebuild(records)
}

// validateID rejects IDs that escape the reports directory or do not look
// like record filenames.
func validateID(id string) error {
	if id == "" || id != filepath.Base(id) || !strings.HasSuffix(id, recordExt) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
