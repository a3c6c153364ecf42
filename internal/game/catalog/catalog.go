package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// ErrUnknownTemplate is returned when a template id does not resolve.
var ErrUnknownTemplate = errors.New("unknown oozu template")

// ErrUnknownItem is returned when an item id does not resolve.
var ErrUnknownItem = errors.New("unknown item id")

// fold returns the case-folded form of s. A Caser carries state, so each call
// builds its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// slug collapses whitespace runs into underscores.
func slug(s string) string {
	return strings.Join(strings.Fields(s), "_")
}

// Catalog indexes templates and items. It is immutable after construction and
// safe for concurrent reads.
type Catalog struct {
	templates     []*Template
	templatesByID map[string]*Template
	templateKeys  map[string]*Template
	items         []*ItemTemplate
	itemsByID     map[string]*ItemTemplate
}

// New builds a Catalog from already-parsed definitions.
//
// Precondition: every element must be non-nil.
// Postcondition: Returns an error if any definition fails validation or an id is duplicated.
func New(templates []*Template, items []*ItemTemplate) (*Catalog, error) {
	c := &Catalog{
		templatesByID: make(map[string]*Template, len(templates)),
		templateKeys:  make(map[string]*Template),
		itemsByID:     make(map[string]*ItemTemplate, len(items)),
	}
	for _, t := range templates {
		if t.Tier == "" {
			t.Tier = DefaultTier
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.templatesByID[t.ID]; exists {
			return nil, fmt.Errorf("catalog: template ID %q already registered", t.ID)
		}
		c.templatesByID[t.ID] = t
		c.templates = append(c.templates, t)
		for _, key := range t.lookupKeys() {
			if _, taken := c.templateKeys[key]; !taken {
				c.templateKeys[key] = t
			}
		}
	}
	for _, it := range items {
		it.normalize()
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.itemsByID[it.ID]; exists {
			return nil, fmt.Errorf("catalog: item ID %q already registered", it.ID)
		}
		c.itemsByID[it.ID] = it
		c.items = append(c.items, it)
	}
	return c, nil
}

// Template returns the template with exactly the given id.
//
// Postcondition: ok is true iff the id is registered.
func (c *Catalog) Template(id string) (*Template, bool) {
	t, ok := c.templatesByID[id]
	return t, ok
}

// FindTemplate resolves a free-form query against ids, names, slugs, and aliases,
// ignoring case and surrounding whitespace. There is no partial matching.
//
// Postcondition: ok is false when the query is blank or nothing matches.
func (c *Catalog) FindTemplate(query string) (*Template, bool) {
	normalized := fold(strings.TrimSpace(query))
	if normalized == "" {
		return nil, false
	}
	s := slug(normalized)
	if t, ok := c.templatesByID[normalized]; ok {
		return t, true
	}
	if t, ok := c.templatesByID[s]; ok {
		return t, true
	}
	if t, ok := c.templateKeys[normalized]; ok {
		return t, true
	}
	t, ok := c.templateKeys[s]
	return t, ok
}

// ListTemplates returns every template in load order.
func (c *Catalog) ListTemplates() []*Template {
	out := make([]*Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// BaseTemplates returns the templates eligible as starters.
func (c *Catalog) BaseTemplates() []*Template {
	var out []*Template
	for _, t := range c.templates {
		if t.IsBase() {
			out = append(out, t)
		}
	}
	return out
}

// Item returns the item with the given id, falling back to a case-insensitive id match.
//
// Postcondition: ok is true iff an item matched.
func (c *Catalog) Item(id string) (*ItemTemplate, bool) {
	if id == "" {
		return nil, false
	}
	if it, ok := c.itemsByID[id]; ok {
		return it, true
	}
	target := fold(id)
	for _, it := range c.items {
		if fold(it.ID) == target {
			return it, true
		}
	}
	return nil, false
}

// FindItem resolves a query by id or exact display name, ignoring case.
//
// Postcondition: ok is false when the query is blank or nothing matches.
func (c *Catalog) FindItem(query string) (*ItemTemplate, bool) {
	normalized := fold(strings.TrimSpace(query))
	if normalized == "" {
		return nil, false
	}
	if it, ok := c.itemsByID[normalized]; ok {
		return it, true
	}
	for _, it := range c.items {
		if fold(it.ID) == normalized || (it.Name != "" && fold(it.Name) == normalized) {
			return it, true
		}
	}
	return nil, false
}

// ListItems returns every item sorted by id.
func (c *Catalog) ListItems() []*ItemTemplate {
	out := make([]*ItemTemplate, len(c.items))
	copy(out, c.items)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ItemsWhere returns the items accepted by keep, sorted by id.
func (c *Catalog) ItemsWhere(keep func(*ItemTemplate) bool) []*ItemTemplate {
	var out []*ItemTemplate
	for _, it := range c.ListItems() {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// ParseTemplates decodes a list of templates from a YAML or JSON document.
//
// Postcondition: Returns the decoded templates or a parse error.
func ParseTemplates(data []byte) ([]*Template, error) {
	var templates []*Template
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parsing template document: %w", err)
	}
	return templates, nil
}

// ParseItems decodes a list of items from a YAML or JSON document. Entries
// without an id are skipped.
func ParseItems(data []byte) ([]*ItemTemplate, error) {
	var raw []*ItemTemplate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing item document: %w", err)
	}
	items := make([]*ItemTemplate, 0, len(raw))
	for _, it := range raw {
		if it == nil {
			continue
		}
		it.normalize()
		if it.ID == "" {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// Load reads the template and item files and builds a Catalog.
//
// Precondition: templatePath must name a readable file; itemsPath may be empty.
// Postcondition: A missing or malformed template file is an error. A missing,
// blank, or malformed item file yields a catalog without items; the malformed
// case is logged at warn level.
func Load(templatePath, itemsPath string, logger *zap.Logger) (*Catalog, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("missing oozu template data file at %s: %w", templatePath, err)
		}
		return nil, fmt.Errorf("reading %q: %w", templatePath, err)
	}
	templates, err := ParseTemplates(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", templatePath, err)
	}

	items, err := loadItems(itemsPath, logger)
	if err != nil {
		return nil, err
	}

	c, err := New(templates, items)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded",
		zap.Int("templates", len(c.templates)),
		zap.Int("items", len(c.items)),
	)
	return c, nil
}

func loadItems(path string, logger *zap.Logger) ([]*ItemTemplate, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	items, err := ParseItems(data)
	if err != nil {
		logger.Warn("ignoring malformed item file", zap.String("path", path), zap.Error(err))
		return nil, nil
	}
	return items, nil
}
