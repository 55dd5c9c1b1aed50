package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/logger"
	"portfolio/internal/model"
	"portfolio/internal/repository/memory"
)

func TestLoadProjects(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file falls back to examples", func(t *testing.T) {
		list, err := loadProjects(filepath.Join(dir, "none.json"))
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(dir, "projects.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"title":"CLI","description":"d","category":"fullstack","featured":true}]`), 0o644))

		list, err := loadProjects(path)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "CLI", list[0].Title)
		assert.True(t, list[0].Featured)
	})

	t.Run("rejects empty and malformed files", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o644))
		_, err := loadProjects(empty)
		assert.Error(t, err)

		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
		_, err = loadProjects(bad)
		assert.Error(t, err)
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := memory.New().Repositories()

	_, err := store.Projects.Create(ctx, &model.Project{
		Title: "task manager", Description: "already here", Category: model.CategoryWeb, Status: model.StatusDraft,
	})
	require.NoError(t, err)

	list := append([]seedProject{{Title: "  "}}, exampleProjects...)
	res, err := seed(ctx, store, list, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 2, res.Skipped)

	projects, err := store.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	for _, p := range projects {
		if p.Title == "task manager" {
			assert.Equal(t, model.StatusDraft, p.Status)
			continue
		}
		assert.Equal(t, model.StatusPublished, p.Status)
	}

	profile, err := store.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultProfile().Name, profile.Name)

	res, err = seed(ctx, store, exampleProjects, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 3, res.Skipped)
}

func TestSeed_LogsInvalidProjectError(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	_, err := seed(context.Background(), memory.New().Repositories(), []seedProject{{Title: "Orphan"}}, log)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "skipping invalid project", entry["msg"])
	assert.Equal(t, "Orphan", entry["title"])
	assert.Contains(t, entry["error"], "description")
}
