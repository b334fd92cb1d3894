package repository

import (
	"context"
	"io"

	"sitebuilder/internal/domain/entity"
)

// ProjectRepository stores project records. GetByID returns entity.ErrNotFound
// for unknown ids.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	List(ctx context.Context) ([]*entity.Project, error)
	Delete(ctx context.Context, id string) error
}

type PageRepository interface {
	Create(ctx context.Context, page *entity.Page) error
	ListByProject(ctx context.Context, projectID string) ([]*entity.Page, error)
	DeleteByProject(ctx context.Context, projectID string) error
}

// ProjectFileStore keeps the on-disk folder of each project.
type ProjectFileStore interface {
	CreateProjectDir(ctx context.Context, projectID string) (string, error)
	SavePage(ctx context.Context, page *entity.Page) (string, error)
	SaveGalleryFile(ctx context.Context, projectID, filename string, content io.Reader) (string, error)
	DeleteProjectDir(ctx context.Context, projectID string) error
}
