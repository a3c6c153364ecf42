package catalog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/oozu/internal/game/catalog"
)

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load("testdata/species.yaml", "testdata/items.json", zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestFindTemplate_ByDisplayName(t *testing.T) {
	c := loadTestCatalog(t)
	tmpl, ok := c.FindTemplate("Static Sprite")
	require.True(t, ok)
	assert.Equal(t, "static_sprite", tmpl.ID)
}

func TestFindTemplate_ByIDAndSlugIgnoringCase(t *testing.T) {
	c := loadTestCatalog(t)
	for _, q := range []string{"static_sprite", "  STATIC_SPRITE ", "static   sprite", "Static_Sprite"} {
		tmpl, ok := c.FindTemplate(q)
		require.True(t, ok, "query %q", q)
		assert.Equal(t, "static_sprite", tmpl.ID, "query %q", q)
	}
}

func TestFindTemplate_ByAlias(t *testing.T) {
	c := loadTestCatalog(t)
	tmpl, ok := c.FindTemplate("Fire Blob")
	require.True(t, ok)
	assert.Equal(t, "emberling", tmpl.ID)

	tmpl, ok = c.FindTemplate("fire_blob")
	require.True(t, ok)
	assert.Equal(t, "emberling", tmpl.ID)
}

func TestFindTemplate_NoPartialMatches(t *testing.T) {
	c := loadTestCatalog(t)
	for _, q := range []string{"", "   ", "ember_", "static", "unknown"} {
		_, ok := c.FindTemplate(q)
		assert.False(t, ok, "query %q", q)
	}
}

func TestTemplate_ExactID(t *testing.T) {
	c := loadTestCatalog(t)
	_, ok := c.Template("tidepool")
	assert.True(t, ok)
	_, ok = c.Template("Tidepool")
	assert.False(t, ok, "exact lookup is case-sensitive")
}

func TestBaseTemplates_TierFilter(t *testing.T) {
	c := loadTestCatalog(t)
	base := c.BaseTemplates()
	assert.Len(t, base, 4)
	for _, tmpl := range base {
		assert.NotEqual(t, "magma_maw", tmpl.ID)
	}
	assert.Len(t, c.ListTemplates(), 5)
}

func TestItems_LegacyIDAndDefaults(t *testing.T) {
	c := loadTestCatalog(t)
	items := c.ListItems()
	require.Len(t, items, 3, "entries without an id are skipped")

	pebble, ok := c.Item("lucky_pebble")
	require.True(t, ok)
	assert.True(t, pebble.IsHeld())

	rope, ok := c.Item("ROPE_COIL")
	require.True(t, ok)
	assert.Equal(t, catalog.ItemTypeGeneral, rope.Type)
	assert.Equal(t, "rope_coil", rope.Name)
}

func TestFindItem_ByName(t *testing.T) {
	c := loadTestCatalog(t)
	it, ok := c.FindItem(" sap tonic ")
	require.True(t, ok)
	assert.Equal(t, "sap_tonic", it.ID)
	assert.True(t, it.IsConsumable())
	assert.True(t, it.Effect.TargetsOozu())

	_, ok = c.FindItem("sap")
	assert.False(t, ok)
}

func TestItemEffect_Targets(t *testing.T) {
	stamina := &catalog.ItemEffect{Type: catalog.EffectRestoreStamina}
	assert.False(t, stamina.TargetsOozu())
	assert.Equal(t, 1, stamina.RestoreAmount())

	hp := &catalog.ItemEffect{Type: catalog.EffectRestoreHP, Target: "player"}
	assert.False(t, hp.TargetsOozu())

	stamina.Amount = 3
	assert.Equal(t, 3, stamina.RestoreAmount())
}

func TestLoad_MissingTemplateFileIsFatal(t *testing.T) {
	_, err := catalog.Load(filepath.Join(t.TempDir(), "nope.yaml"), "", zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing oozu template data file")
}

func TestLoad_MalformedTemplateFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- template_id: [broken"), 0o644))
	_, err := catalog.Load(path, "", zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestLoad_ItemsFileTolerant(t *testing.T) {
	dir := t.TempDir()
	blank := filepath.Join(dir, "blank.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(blank, []byte("  \n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))

	for _, path := range []string{blank, bad, filepath.Join(dir, "missing.json")} {
		c, err := catalog.Load("testdata/species.yaml", path, zaptest.NewLogger(t))
		require.NoError(t, err, path)
		assert.Empty(t, c.ListItems(), path)
	}
}

func TestNew_RejectsDuplicates(t *testing.T) {
	a := &catalog.Template{ID: "x", Name: "X", BaseHP: 1}
	b := &catalog.Template{ID: "x", Name: "Y", BaseHP: 1}
	_, err := catalog.New([]*catalog.Template{a, b}, nil)
	assert.Error(t, err)

	_, err = catalog.New(nil, []*catalog.ItemTemplate{{ID: "i"}, {ID: "i"}})
	assert.Error(t, err)
}

func TestNew_DefaultsTier(t *testing.T) {
	c, err := catalog.New([]*catalog.Template{{ID: "x", Name: "X", BaseHP: 5}}, nil)
	require.NoError(t, err)
	tmpl, _ := c.Template("x")
	assert.Equal(t, catalog.DefaultTier, tmpl.Tier)
	assert.True(t, tmpl.IsBase())
}

func TestTemplate_Validate(t *testing.T) {
	cases := []catalog.Template{
		{Name: "missing id", BaseHP: 1},
		{ID: "a", BaseHP: 1},
		{ID: "a", Name: "A"},
		{ID: "a", Name: "A", BaseHP: 1, BaseAttack: -1},
		{ID: "a", Name: "A", BaseHP: 1, Moves: []catalog.Move{{Power: 3}}},
	}
	for i := range cases {
		assert.Error(t, cases[i].Validate(), "case %d", i)
	}
}

func TestFindTemplate_CaseInsensitiveProperty(t *testing.T) {
	c := loadTestCatalog(t)
	names := []string{"Emberling", "Tidepool", "Mossmote", "Static Sprite", "Magma Maw"}
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.SampledFrom(names).Draw(rt, "name")
		mask := rapid.SliceOfN(rapid.Bool(), len(name), len(name)).Draw(rt, "mask")
		var b strings.Builder
		for i, r := range name {
			if mask[i] {
				b.WriteString(strings.ToUpper(string(r)))
			} else {
				b.WriteString(strings.ToLower(string(r)))
			}
		}
		tmpl, ok := c.FindTemplate(b.String())
		require.True(rt, ok, "query %q", b.String())
		assert.Equal(rt, name, tmpl.Name)
	})
}
