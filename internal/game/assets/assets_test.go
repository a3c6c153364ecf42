package assets_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/oozu/internal/game/assets"
	"github.com/cory-johannsen/oozu/internal/game/dice"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		path := filepath.Join(root, r)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
}

func TestDirSampler_EventPrefixes(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"event/barrel_01.png",
		"event/nested/Barrel_02.JPG",
		"event/shadytrader.jpeg",
		"event/chest.png",
		"event/notes.txt",
	)
	s := assets.NewDirSampler(root, dice.NewSeededSource(9))

	for i := 0; i < 20; i++ {
		p, err := s.EventSprite("barrel")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(strings.ToLower(filepath.Base(p)), "barrel"), p)
	}

	p, err := s.EventSprite("shady_trader")
	require.NoError(t, err)
	assert.Equal(t, "shadytrader.jpeg", filepath.Base(p))
}

func TestDirSampler_FallsBackToAnyEventSprite(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "event/chest.png")
	s := assets.NewDirSampler(root, dice.NewSeededSource(1))

	p, err := s.EventSprite("crate")
	require.NoError(t, err)
	assert.Equal(t, "chest.png", filepath.Base(p))
}

func TestDirSampler_MissingDirectory(t *testing.T) {
	s := assets.NewDirSampler(filepath.Join(t.TempDir(), "absent"), dice.NewSeededSource(1))
	_, err := s.Scene()
	assert.ErrorIs(t, err, assets.ErrNoSprites)
	_, err = s.OozuSprite()
	assert.ErrorIs(t, err, assets.ErrNoSprites)
}

func TestDirSampler_Count(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "scene/a.png", "scene/b.png", "oozu/x.jpg")
	scenes, events, oozu, err := assets.NewDirSampler(root, dice.NewSeededSource(1)).Count()
	require.NoError(t, err)
	assert.Equal(t, 2, scenes)
	assert.Equal(t, 0, events)
	assert.Equal(t, 1, oozu)
}

func TestStatic(t *testing.T) {
	s := assets.Static{SceneToken: "scene.png", EventToken: "event.png"}
	scene, _ := s.Scene()
	event, _ := s.EventSprite("barrel")
	oozu, _ := s.OozuSprite()
	assert.Equal(t, "scene.png", scene)
	assert.Equal(t, "event.png", event)
	assert.Empty(t, oozu)
}
