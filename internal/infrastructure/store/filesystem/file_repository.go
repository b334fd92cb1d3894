package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/infrastructure/metrics"
)

const (
	galleryDir   = "gallery"
	pagesDir     = "pages"
	metadataFile = "metadata.json"
)

// FileRepository lays out one folder per project:
//
//	<base>/project_<id>/gallery/
//	<base>/project_<id>/pages/<page id>.html
//	<base>/project_<id>/metadata.json
type FileRepository struct {
	basePath string

	// guards metadata.json read-modify-write across concurrent page saves
	metaMu sync.Mutex
}

type projectMetadata struct {
	ProjectID  string         `json:"project_id"`
	UpdatedAt  time.Time      `json:"updated_at"`
	PagesCount int            `json:"pages_count"`
	Pages      []pageMetadata `json:"pages"`
}

type pageMetadata struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	File      string    `json:"file"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *FileRepository) GetBasePath() string {
	return r.basePath
}

func NewFileRepository(basePath string) (*FileRepository, error) {
	info, err := os.Stat(basePath)
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(basePath, 0755); mkErr != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", basePath, mkErr)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to check directory %s: %w", basePath, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("path %s exists but is not a directory", basePath)
	}

	return &FileRepository{
		basePath: basePath,
	}, nil
}

func (r *FileRepository) ProjectDir(projectID string) (string, error) {
	if projectID == "" || strings.ContainsAny(projectID, `/\`) || strings.Contains(projectID, "..") {
		return "", fmt.Errorf("%w: bad project id %q", entity.ErrInvalidArgument, projectID)
	}
	return filepath.Join(r.basePath, "project_"+projectID), nil
}

// CreateProjectDir scaffolds the project folder with its gallery sub-folder.
func (r *FileRepository) CreateProjectDir(ctx context.Context, projectID string) (string, error) {
	dir, err := r.ProjectDir(projectID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(dir, galleryDir), 0755); err != nil {
		metrics.IncError("filesystem", "mkdir")
		return "", fmt.Errorf("failed to create project directory: %w", err)
	}
	metrics.IncDBOp("filesystem", "put")
	return dir, nil
}

// SavePage writes the page html and records it in the project metadata.
func (r *FileRepository) SavePage(ctx context.Context, page *entity.Page) (string, error) {
	dir, err := r.ProjectDir(page.ProjectID)
	if err != nil {
		return "", err
	}
	pageDir := filepath.Join(dir, pagesDir)
	if err := os.MkdirAll(pageDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create pages directory: %w", err)
	}

	fileName := page.ID + ".html"
	filePath := filepath.Join(pageDir, fileName)
	if err := os.WriteFile(filePath, []byte(page.HTML), 0644); err != nil {
		metrics.IncError("filesystem", "write_page")
		return "", fmt.Errorf("failed to write page %s: %w", page.ID, err)
	}

	if err := r.appendPageMetadata(dir, page, fileName); err != nil {
		metrics.IncError("filesystem", "write_metadata")
		return "", err
	}

	metrics.IncDBOp("filesystem", "put")
	return filePath, nil
}

func (r *FileRepository) appendPageMetadata(dir string, page *entity.Page, fileName string) error {
	r.metaMu.Lock()
	defer r.metaMu.Unlock()

	meta, err := r.readMetadata(dir, page.ProjectID)
	if err != nil {
		return err
	}
	meta.Pages = append(meta.Pages, pageMetadata{
		ID:        page.ID,
		Title:     page.Title,
		File:      filepath.Join(pagesDir, fileName),
		CreatedAt: page.CreatedAt,
	})
	meta.PagesCount = len(meta.Pages)
	meta.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return writeFileAtomic(filepath.Join(dir, metadataFile), data)
}

// writeFileAtomic replaces path so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (r *FileRepository) readMetadata(dir, projectID string) (*projectMetadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if errors.Is(err, os.ErrNotExist) {
		return &projectMetadata{ProjectID: projectID, Pages: []pageMetadata{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var meta projectMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &meta, nil
}

// SaveGalleryFile copies content into the project's gallery and returns the
// target path. Only the base name of filename is used.
func (r *FileRepository) SaveGalleryFile(ctx context.Context, projectID, filename string, content io.Reader) (string, error) {
	dir, err := r.ProjectDir(projectID)
	if err != nil {
		return "", err
	}
	name := filepath.Base(filepath.Clean("/" + filepath.ToSlash(filename)))
	if name == "/" || name == "." || name == ".." || name == "" {
		return "", fmt.Errorf("%w: bad file name %q", entity.ErrInvalidArgument, filename)
	}

	gallery := filepath.Join(dir, galleryDir)
	if err := os.MkdirAll(gallery, 0755); err != nil {
		return "", fmt.Errorf("failed to create gallery directory: %w", err)
	}

	target := filepath.Join(gallery, name)
	f, err := os.Create(target)
	if err != nil {
		metrics.IncError("filesystem", "create_gallery_file")
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, content); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync %s: %w", target, err)
	}

	metrics.IncDBOp("filesystem", "put")
	return target, nil
}

func (r *FileRepository) DeleteProjectDir(ctx context.Context, projectID string) error {
	dir, err := r.ProjectDir(projectID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete project directory: %w", err)
	}
	metrics.IncDBOp("filesystem", "delete")
	return nil
}
