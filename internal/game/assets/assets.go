// Package assets resolves opaque scene and sprite path tokens for quest events.
// Image bytes are never read.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cory-johannsen/oozu/internal/game/dice"
)

// ErrNoSprites is returned when a sprite category has no images.
var ErrNoSprites = errors.New("no sprites are available")

// Sampler picks random art for quest scenes.
type Sampler interface {
	Scene() (string, error)
	EventSprite(eventType string) (string, error)
	OozuSprite() (string, error)
}

// Sub-directories scanned under the sprites root.
const (
	sceneDir = "scene"
	eventDir = "event"
	oozuDir  = "oozu"
)

// eventPrefixes maps event types whose file names differ from the type id.
var eventPrefixes = map[string]string{
	"shady_trader": "shadytrader",
	"oozu":         "",
}

// DirSampler scans a sprites directory once per category and caches the listing.
type DirSampler struct {
	root string
	src  dice.Source

	mu     sync.Mutex
	lists  map[string][]string
	events map[string][]string
}

// NewDirSampler returns a Sampler over root/scene, root/event, and root/oozu.
//
// Precondition: src must be non-nil.
func NewDirSampler(root string, src dice.Source) *DirSampler {
	return &DirSampler{
		root:   root,
		src:    src,
		lists:  make(map[string][]string),
		events: make(map[string][]string),
	}
}

// Scene returns a random scene background.
func (d *DirSampler) Scene() (string, error) {
	return d.pick(sceneDir)
}

// OozuSprite returns a random creature sprite.
func (d *DirSampler) OozuSprite() (string, error) {
	return d.pick(oozuDir)
}

// EventSprite returns a random sprite whose file name starts with the event's
// prefix, falling back to any event sprite.
func (d *DirSampler) EventSprite(eventType string) (string, error) {
	d.mu.Lock()
	matches, cached := d.events[eventType]
	d.mu.Unlock()
	if !cached {
		all, err := d.list(eventDir)
		if err != nil {
			return "", err
		}
		prefix, ok := eventPrefixes[eventType]
		if !ok {
			prefix = eventType
		}
		prefix = strings.ToLower(prefix)
		for _, p := range all {
			if strings.HasPrefix(strings.ToLower(filepath.Base(p)), prefix) {
				matches = append(matches, p)
			}
		}
		if len(matches) == 0 {
			matches = all
		}
		d.mu.Lock()
		d.events[eventType] = matches
		d.mu.Unlock()
	}
	return d.pickFrom(eventDir, matches)
}

// Count returns how many images each category holds.
func (d *DirSampler) Count() (scenes, events, oozu int, err error) {
	for _, c := range []struct {
		dir string
		n   *int
	}{{sceneDir, &scenes}, {eventDir, &events}, {oozuDir, &oozu}} {
		list, err := d.list(c.dir)
		if err != nil {
			return 0, 0, 0, err
		}
		*c.n = len(list)
	}
	return scenes, events, oozu, nil
}

func (d *DirSampler) pick(category string) (string, error) {
	list, err := d.list(category)
	if err != nil {
		return "", err
	}
	return d.pickFrom(category, list)
}

func (d *DirSampler) pickFrom(category string, list []string) (string, error) {
	p, ok := dice.Pick(d.src, list)
	if !ok {
		return "", fmt.Errorf("%s: %w", category, ErrNoSprites)
	}
	return p, nil
}

func (d *DirSampler) list(category string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cached, ok := d.lists[category]; ok {
		return cached, nil
	}
	files, err := gather(filepath.Join(d.root, category))
	if err != nil {
		return nil, err
	}
	d.lists[category] = files
	return files, nil
}

// gather walks dir for png/jpg/jpeg files. A missing directory yields no files.
func gather(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return fs.SkipAll
			}
			return err
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".png", ".jpg", ".jpeg":
			out = append(out, path)
		}
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("scanning %q: %w", dir, err)
	}
	return out, nil
}

// Static returns fixed tokens. An empty field yields an empty token.
type Static struct {
	SceneToken string
	EventToken string
	OozuToken  string
}

// Scene returns SceneToken.
func (s Static) Scene() (string, error) { return s.SceneToken, nil }

// EventSprite returns EventToken.
func (s Static) EventSprite(string) (string, error) { return s.EventToken, nil }

// OozuSprite returns OozuToken.
func (s Static) OozuSprite() (string, error) { return s.OozuToken, nil }
