// Package fs persists step journals through viant/afs so that committed
// steps survive process restarts. Any afs scheme works (file://, mem://,
// s3://); journals are stored as one JSON document per execution.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/runlet/runlet/service/dao"
	"github.com/runlet/runlet/service/step"
)

// Service implements dao.Service for step journals on top of afs.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

var _ dao.Service[string, step.Journal] = (*Service)(nil)

// New creates a journal store rooted at baseURL.
func New(baseURL string) *Service {
	return &Service{baseURL: baseURL, fs: afs.New()}
}

func (s *Service) journalURL(id string) string {
	return url.Join(s.baseURL, id+".json")
}

// Save persists the journal.
func (s *Service) Save(ctx context.Context, journal *step.Journal) error {
	if journal == nil {
		return dao.ErrNilEntity
	}
	if journal.ID == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(journal)
	if err != nil {
		return fmt.Errorf("failed to marshal journal %s: %w", journal.ID, err)
	}
	return s.fs.Upload(ctx, s.journalURL(journal.ID), file.DefaultFileOsMode, bytes.NewReader(data))
}

// Load retrieves a journal or dao.ErrNotFound.
func (s *Service) Load(ctx context.Context, id string) (*step.Journal, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	location := s.journalURL(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, err
	}
	journal := &step.Journal{}
	if err = json.Unmarshal(data, journal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal %s: %w", id, err)
	}
	return journal, nil
}

// Delete removes a journal.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	location := s.journalURL(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil || !exists {
		return err
	}
	return s.fs.Delete(ctx, location)
}

// List returns all stored journals.
func (s *Service) List(ctx context.Context) ([]*step.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, err
	}
	var ret []*step.Journal
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		data, err := s.fs.DownloadWithURL(ctx, object.URL())
		if err != nil {
			return nil, err
		}
		journal := &step.Journal{}
		if err = json.Unmarshal(data, journal); err != nil {
			continue
		}
		ret = append(ret, journal)
	}
	return ret, nil
}
