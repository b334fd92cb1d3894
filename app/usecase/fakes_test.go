package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"sitebuilder/internal/domain/entity"
)

type memProjects struct {
	mu        sync.Mutex
	byID      map[string]*entity.Project
	createErr error
}

func newMemProjects() *memProjects {
	return &memProjects{byID: map[string]*entity.Project{}}
}

func (m *memProjects) Create(_ context.Context, p *entity.Project) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.ID] = p
	return nil
}

func (m *memProjects) GetByID(_ context.Context, id string) (*entity.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return p, nil
}

func (m *memProjects) List(_ context.Context) ([]*entity.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Project, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memProjects) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return entity.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memPages struct {
	mu    sync.Mutex
	pages []*entity.Page
}

func (m *memPages) Create(_ context.Context, p *entity.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = append(m.pages, p)
	return nil
}

func (m *memPages) ListByProject(_ context.Context, projectID string) ([]*entity.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.Page{}
	for _, p := range m.pages {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPages) DeleteByProject(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.pages[:0]
	for _, p := range m.pages {
		if p.ProjectID != projectID {
			kept = append(kept, p)
		}
	}
	m.pages = kept
	return nil
}

type memFiles struct {
	mu       sync.Mutex
	dirs     map[string]bool
	pages    map[string]string
	gallery  map[string]string
	mkdirErr error
}

func newMemFiles() *memFiles {
	return &memFiles{dirs: map[string]bool{}, pages: map[string]string{}, gallery: map[string]string{}}
}

func (m *memFiles) CreateProjectDir(_ context.Context, projectID string) (string, error) {
	if m.mkdirErr != nil {
		return "", m.mkdirErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[projectID] = true
	return "project_" + projectID, nil
}

func (m *memFiles) SavePage(_ context.Context, page *entity.Page) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page.ID] = page.HTML
	return "project_" + page.ProjectID + "/pages/" + page.ID + ".html", nil
}

func (m *memFiles) SaveGalleryFile(_ context.Context, projectID, filename string, content io.Reader) (string, error) {
	if filename == "" {
		return "", errors.Join(entity.ErrInvalidArgument, errors.New("empty file name"))
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	path := "project_" + projectID + "/gallery/" + filename
	m.gallery[path] = string(data)
	return path, nil
}

func (m *memFiles) DeleteProjectDir(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.dirs, projectID)
	return nil
}

type stubGenerator struct {
	html string
	last entity.GenerationRequest
}

func (s *stubGenerator) Generate(_ context.Context, prompt, provider string) entity.GenerationResult {
	s.last = entity.GenerationRequest{Prompt: prompt, Provider: provider}
	return entity.NewGenerationResult(s.html)
}
