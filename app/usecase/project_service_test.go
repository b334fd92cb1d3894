package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebuilder/internal/domain/entity"
)

type projectFixture struct {
	svc      *ProjectService
	projects *memProjects
	pages    *memPages
	files    *memFiles
	gen      *stubGenerator
}

func newProjectFixture() *projectFixture {
	f := &projectFixture{
		projects: newMemProjects(),
		pages:    &memPages{},
		files:    newMemFiles(),
		gen:      &stubGenerator{html: "<p>generated</p>"},
	}
	f.svc = NewProjectService(f.projects, f.pages, f.files, f.gen, discardLogger())
	return f
}

func TestCreateProjectScaffoldsFolder(t *testing.T) {
	f := newProjectFixture()

	p, err := f.svc.CreateProject(context.Background(), "  My Site ", 7)
	require.NoError(t, err)
	assert.Equal(t, "My Site", p.Name)
	assert.Equal(t, 7, p.UserID)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.True(t, f.files.dirs[p.ID])

	got, err := f.svc.GetProject(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestCreateProjectRequiresName(t *testing.T) {
	f := newProjectFixture()
	_, err := f.svc.CreateProject(context.Background(), "   ", 0)
	assert.True(t, errors.Is(err, entity.ErrInvalidArgument))
}

func TestCreateProjectRollsBackWhenFolderFails(t *testing.T) {
	f := newProjectFixture()
	f.files.mkdirErr = errors.New("disk full")

	_, err := f.svc.CreateProject(context.Background(), "site", 0)
	require.Error(t, err)

	list, err := f.svc.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetProjectNotFound(t *testing.T) {
	f := newProjectFixture()
	_, err := f.svc.GetProject(context.Background(), "missing")
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestCreatePageGeneratesAndStores(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p, err := f.svc.CreateProject(ctx, "site", 0)
	require.NoError(t, err)

	page, err := f.svc.CreatePage(ctx, p.ID, "", "a bakery", "gemini")
	require.NoError(t, err)
	assert.Equal(t, "Untitled", page.Title)
	assert.Equal(t, "<p>generated</p>", page.HTML)
	assert.Equal(t, p.ID, page.ProjectID)
	assert.Equal(t, entity.GenerationRequest{Prompt: "a bakery", Provider: "gemini"}, f.gen.last)
	assert.Equal(t, "<p>generated</p>", f.files.pages[page.ID])

	pages, err := f.svc.ListPages(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, page.ID, pages[0].ID)
}

func TestCreatePageValidation(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()

	_, err := f.svc.CreatePage(ctx, "missing", "Home", "x", "")
	assert.True(t, errors.Is(err, entity.ErrNotFound))

	p, err := f.svc.CreateProject(ctx, "site", 0)
	require.NoError(t, err)
	_, err = f.svc.CreatePage(ctx, p.ID, "Home", " ", "")
	assert.True(t, errors.Is(err, entity.ErrInvalidArgument))
}

func TestDeleteProjectRemovesPagesAndFolder(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p, err := f.svc.CreateProject(ctx, "site", 0)
	require.NoError(t, err)
	_, err = f.svc.CreatePage(ctx, p.ID, "Home", "x", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProject(ctx, p.ID))
	assert.False(t, f.files.dirs[p.ID])
	assert.Empty(t, f.pages.pages)

	err = f.svc.DeleteProject(ctx, p.ID)
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestAddToGallery(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p, err := f.svc.CreateProject(ctx, "site", 0)
	require.NoError(t, err)

	path, err := f.svc.AddToGallery(ctx, p.ID, "logo.png", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "img", f.files.gallery[path])

	_, err = f.svc.AddToGallery(ctx, "missing", "logo.png", strings.NewReader("img"))
	assert.True(t, errors.Is(err, entity.ErrNotFound))

	_, err = f.svc.AddToGallery(ctx, p.ID, "", strings.NewReader("img"))
	assert.True(t, errors.Is(err, entity.ErrInvalidArgument))
}
