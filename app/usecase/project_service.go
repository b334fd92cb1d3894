package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/domain/repository"
	"sitebuilder/internal/infrastructure/metrics"
)

const defaultPageTitle = "Untitled"

type ProjectUsecase interface {
	CreateProject(ctx context.Context, name string, userID int) (*entity.Project, error)
	ListProjects(ctx context.Context) ([]*entity.Project, error)
	GetProject(ctx context.Context, id string) (*entity.Project, error)
	DeleteProject(ctx context.Context, id string) error
	CreatePage(ctx context.Context, projectID, title, prompt, provider string) (*entity.Page, error)
	ListPages(ctx context.Context, projectID string) ([]*entity.Page, error)
	AddToGallery(ctx context.Context, projectID, filename string, content io.Reader) (string, error)
}

var _ ProjectUsecase = (*ProjectService)(nil)

type ProjectService struct {
	projects  repository.ProjectRepository
	pages     repository.PageRepository
	files     repository.ProjectFileStore
	generator GenerationUsecase
	logger    *slog.Logger
}

func NewProjectService(
	pr repository.ProjectRepository,
	pg repository.PageRepository,
	fs repository.ProjectFileStore,
	gen GenerationUsecase,
	logger *slog.Logger,
) *ProjectService {
	return &ProjectService{
		projects:  pr,
		pages:     pg,
		files:     fs,
		generator: gen,
		logger:    logger,
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, name string, userID int) (*entity.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", entity.ErrInvalidArgument)
	}

	project := entity.NewProject(name, userID)
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if _, err := s.files.CreateProjectDir(ctx, project.ID); err != nil {
		if delErr := s.projects.Delete(ctx, project.ID); delErr != nil {
			s.logger.Error("rollback project record failed", "project_id", project.ID, "err", delErr)
		}
		return nil, fmt.Errorf("create project folder: %w", err)
	}

	metrics.IncProjectsCreated()
	s.logger.Info("project created", "project_id", project.ID, "name", project.Name)
	return project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]*entity.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (*entity.Project, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: project id is required", entity.ErrInvalidArgument)
	}
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.GetProject(ctx, id); err != nil {
		return err
	}
	if err := s.pages.DeleteByProject(ctx, id); err != nil {
		return fmt.Errorf("delete pages of %s: %w", id, err)
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if err := s.files.DeleteProjectDir(ctx, id); err != nil {
		s.logger.Warn("delete project folder failed", "project_id", id, "err", err)
	}
	return nil
}

// CreatePage generates html for prompt and stores it as a new page of the
// project, both in the repository and in the project folder.
func (s *ProjectService) CreatePage(ctx context.Context, projectID, title, prompt, provider string) (*entity.Page, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", entity.ErrInvalidArgument)
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultPageTitle
	}

	result := s.generator.Generate(ctx, prompt, provider)
	page := entity.NewPage(projectID, title, result.HTML)

	if err := s.pages.Create(ctx, page); err != nil {
		return nil, fmt.Errorf("save page: %w", err)
	}
	if _, err := s.files.SavePage(ctx, page); err != nil {
		s.logger.Error("save page to project folder failed", "project_id", projectID, "page_id", page.ID, "err", err)
	}

	metrics.IncPagesCreated()
	return page, nil
}

func (s *ProjectService) ListPages(ctx context.Context, projectID string) ([]*entity.Page, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	pages, err := s.pages.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list pages of %s: %w", projectID, err)
	}
	return pages, nil
}

func (s *ProjectService) AddToGallery(ctx context.Context, projectID, filename string, content io.Reader) (string, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return "", err
	}
	path, err := s.files.SaveGalleryFile(ctx, projectID, filename, content)
	if err != nil {
		return "", fmt.Errorf("add to gallery: %w", err)
	}
	return path, nil
}
