package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuze/cli/pkg/api"
)

type FakeBookmarkService struct {
	CreateFunc      func(ctx context.Context, b api.Bookmark) (*api.Bookmark, bool, error)
	DeleteByURLFunc func(ctx context.Context, rawURL string) error
	ListFunc        func(ctx context.Context) ([]api.Bookmark, error)

	createCalls int
}

func (f *FakeBookmarkService) Create(ctx context.Context, b api.Bookmark) (*api.Bookmark, bool, error) {
	f.createCalls++
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, b)
	}
	return &api.Bookmark{ID: "bk_1", URL: b.URL}, false, nil
}

func (f *FakeBookmarkService) DeleteByURL(ctx context.Context, rawURL string) error {
	if f.DeleteByURLFunc != nil {
		return f.DeleteByURLFunc(ctx, rawURL)
	}
	return nil
}

func (f *FakeBookmarkService) List(ctx context.Context) ([]api.Bookmark, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	return nil, nil
}

func TestAddReportsSaved(t *testing.T) {
	buf := setupStdoutCapture(t)

	var got api.Bookmark
	fake := &FakeBookmarkService{
		CreateFunc: func(ctx context.Context, b api.Bookmark) (*api.Bookmark, bool, error) {
			got = b
			return &api.Bookmark{ID: "bk_1"}, false, nil
		},
	}

	b := BookmarksCmd{bookmarks: fake}
	err := b.Add(context.Background(), AddBookmarkInput{URL: "https://example.com"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Bookmark saved to Fuze")
	assert.Equal(t, "https://example.com", got.Title, "title falls back to the URL")
	assert.Equal(t, "other", got.Category)
}

func TestAddReportsUpdatedOnDuplicate(t *testing.T) {
	buf := setupStdoutCapture(t)

	fake := &FakeBookmarkService{
		CreateFunc: func(ctx context.Context, b api.Bookmark) (*api.Bookmark, bool, error) {
			return &api.Bookmark{ID: "bk_1"}, true, nil
		},
	}

	b := BookmarksCmd{bookmarks: fake}
	require.NoError(t, b.Add(context.Background(), AddBookmarkInput{URL: "https://example.com"}))
	assert.Contains(t, buf.String(), "Bookmark updated in Fuze")
}

func TestAddRefusesInternalURL(t *testing.T) {
	fake := &FakeBookmarkService{}
	b := BookmarksCmd{bookmarks: fake}

	err := b.Add(context.Background(), AddBookmarkInput{URL: "chrome://settings"})
	assert.Error(t, err)
	assert.Zero(t, fake.createCalls, "internal URLs never reach the service")
}

func TestRemoveNotFoundIsFriendly(t *testing.T) {
	buf := setupStdoutCapture(t)

	fake := &FakeBookmarkService{
		DeleteByURLFunc: func(ctx context.Context, rawURL string) error {
			return api.ErrNotFound
		},
	}

	b := BookmarksCmd{bookmarks: fake}
	require.NoError(t, b.Remove(context.Background(), RemoveBookmarkInput{URL: "https://gone.example"}))
	assert.Contains(t, buf.String(), "No bookmark with that URL")
}

func TestRemoveSurfacesOtherErrors(t *testing.T) {
	fake := &FakeBookmarkService{
		DeleteByURLFunc: func(ctx context.Context, rawURL string) error {
			return errors.New("boom")
		},
	}

	b := BookmarksCmd{bookmarks: fake}
	assert.Error(t, b.Remove(context.Background(), RemoveBookmarkInput{URL: "https://x.example"}))
}

func TestListFiltersByCategory(t *testing.T) {
	buf := setupStdoutCapture(t)

	fake := &FakeBookmarkService{
		ListFunc: func(ctx context.Context) ([]api.Bookmark, error) {
			return []api.Bookmark{
				{URL: "https://a.example", Title: "A", Category: "work"},
				{URL: "https://b.example", Title: "B", Category: "other"},
			}, nil
		},
	}

	b := BookmarksCmd{bookmarks: fake}
	require.NoError(t, b.List(context.Background(), ListBookmarksInput{Category: "Work"}))
	assert.Contains(t, buf.String(), "https://a.example")
	assert.NotContains(t, buf.String(), "https://b.example")
}

func TestListEmpty(t *testing.T) {
	buf := setupStdoutCapture(t)

	b := BookmarksCmd{bookmarks: &FakeBookmarkService{}}
	require.NoError(t, b.List(context.Background(), ListBookmarksInput{}))
	assert.Contains(t, buf.String(), "No bookmarks found")
}

func TestListRejectsUnknownOutput(t *testing.T) {
	b := BookmarksCmd{bookmarks: &FakeBookmarkService{}}
	assert.Error(t, b.List(context.Background(), ListBookmarksInput{Output: "yaml"}))
}
