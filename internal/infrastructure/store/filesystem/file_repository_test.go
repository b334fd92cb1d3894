package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebuilder/internal/domain/entity"
)

func newRepo(t *testing.T) *FileRepository {
	t.Helper()
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "projects"))
	require.NoError(t, err)
	return repo
}

func TestNewFileRepositoryRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := NewFileRepository(path)
	assert.Error(t, err)
}

func TestCreateProjectDirScaffoldsGallery(t *testing.T) {
	repo := newRepo(t)

	dir, err := repo.CreateProjectDir(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo.GetBasePath(), "project_abc"), dir)

	info, err := os.Stat(filepath.Join(dir, "gallery"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// idempotent
	_, err = repo.CreateProjectDir(context.Background(), "abc")
	assert.NoError(t, err)
}

func TestProjectDirRejectsTraversal(t *testing.T) {
	repo := newRepo(t)
	for _, id := range []string{"", "../x", "a/b", `a\b`, ".."} {
		_, err := repo.ProjectDir(id)
		assert.True(t, errors.Is(err, entity.ErrInvalidArgument), id)
	}
}

func TestSavePageWritesHTMLAndMetadata(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first := entity.NewPage("p1", "Home", "<h1>home</h1>")
	second := entity.NewPage("p1", "About", "<h1>about</h1>")

	path, err := repo.SavePage(ctx, first)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<h1>home</h1>", string(content))

	_, err = repo.SavePage(ctx, second)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(repo.GetBasePath(), "project_p1", "metadata.json"))
	require.NoError(t, err)
	var meta projectMetadata
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, "p1", meta.ProjectID)
	assert.Equal(t, 2, meta.PagesCount)
	require.Len(t, meta.Pages, 2)
	assert.Equal(t, "Home", meta.Pages[0].Title)
	assert.Equal(t, second.ID, meta.Pages[1].ID)
}

func TestSavePageConcurrentKeepsAllMetadata(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	const n = 50
	ids := make(chan string, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page := entity.NewPage("p1", "Page", "<p>x</p>")
			if _, err := repo.SavePage(ctx, page); err != nil {
				errs <- err
				return
			}
			ids <- page.ID
		}()
	}
	wg.Wait()
	close(errs)
	close(ids)

	for err := range errs {
		assert.NoError(t, err)
	}

	raw, err := os.ReadFile(filepath.Join(repo.GetBasePath(), "project_p1", "metadata.json"))
	require.NoError(t, err)
	var meta projectMetadata
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, n, meta.PagesCount)

	recorded := map[string]bool{}
	for _, p := range meta.Pages {
		recorded[p.ID] = true
	}
	for id := range ids {
		assert.True(t, recorded[id], id)
	}

	files, err := os.ReadDir(filepath.Join(repo.GetBasePath(), "project_p1", "pages"))
	require.NoError(t, err)
	assert.Len(t, files, n)

	leftovers, err := filepath.Glob(filepath.Join(repo.GetBasePath(), "project_p1", "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestSaveGalleryFileUsesBaseName(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	target, err := repo.SaveGalleryFile(ctx, "p1", "../../etc/logo.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo.GetBasePath(), "project_p1", "gallery", "logo.png"), target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	for _, bad := range []string{"", ".", "..", "/"} {
		_, err := repo.SaveGalleryFile(ctx, "p1", bad, strings.NewReader(""))
		assert.True(t, errors.Is(err, entity.ErrInvalidArgument), bad)
	}
}

func TestDeleteProjectDir(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	dir, err := repo.CreateProjectDir(ctx, "gone")
	require.NoError(t, err)
	require.NoError(t, repo.DeleteProjectDir(ctx, "gone"))

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	// deleting a missing folder is not an error
	assert.NoError(t, repo.DeleteProjectDir(ctx, "gone"))
}
