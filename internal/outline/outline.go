// Package outline loads and saves outline documents and mirrors them into an
// arbor scene subtree that a Sortable can rearrange.
//
// A document holds groups; each group holds a tree of items. Documents are
// YAML or TOML:
//
//	title: Sprint
//	groups:
//	  - id: todo
//	    title: To do
//	    items:
//	      - title: Design
//	        children:
//	          - title: Sketches
//	      - title: Build
//	        locked: true
//
// Items and groups without an id get a random UUID on load.
package outline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var (
	// ErrDuplicateID is returned when two items or groups share an id.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnsupportedFormat is returned for formats other than yaml and toml.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Document is an outline made of groups of nested items.
type Document struct {
	Title  string   `yaml:"title,omitempty" toml:"title,omitempty"`
	Groups []*Group `yaml:"groups" toml:"groups"`
}

// Group is a top-level column of items.
type Group struct {
	ID    string  `yaml:"id" toml:"id"`
	Title string  `yaml:"title" toml:"title"`
	Items []*Item `yaml:"items,omitempty" toml:"items,omitempty"`
}

// Item is one outline entry. Locked items can't be dragged and don't anchor
// drops.
type Item struct {
	ID       string  `yaml:"id" toml:"id"`
	Title    string  `yaml:"title" toml:"title"`
	Locked   bool    `yaml:"locked,omitempty" toml:"locked,omitempty"`
	Children []*Item `yaml:"children,omitempty" toml:"children,omitempty"`
}

// Decode reads a document in the given format ("yaml", "yml" or "toml"),
// assigns missing ids and rejects duplicates.
func Decode(r io.Reader, format string) (*Document, error) {
	doc := &Document{}
	switch normalizeFormat(format) {
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode outline: %w", err)
		}
	case "toml":
		if _, err := toml.NewDecoder(r).Decode(doc); err != nil {
			return nil, fmt.Errorf("decode outline: %w", err)
		}
	default:
		return nil, fmt.Errorf("decode outline: %w: %q", ErrUnsupportedFormat, format)
	}
	if err := doc.normalize(); err != nil {
		return nil, fmt.Errorf("decode outline: %w", err)
	}
	return doc, nil
}

// Load reads a document from path, picking the format from the extension.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load outline: %w", err)
	}
	defer f.Close()
	return Decode(f, formatOf(path))
}

// Encode writes doc in the given format.
func (d *Document) Encode(w io.Writer, format string) error {
	switch normalizeFormat(format) {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode outline: %w", err)
		}
		return enc.Close()
	case "toml":
		if err := toml.NewEncoder(w).Encode(d); err != nil {
			return fmt.Errorf("encode outline: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("encode outline: %w: %q", ErrUnsupportedFormat, format)
	}
}

// Save writes doc to path, picking the format from the extension.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save outline: %w", err)
	}
	if err := d.Encode(f, formatOf(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatOf(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

func normalizeFormat(format string) string {
	switch f := strings.ToLower(format); f {
	case "yml":
		return "yaml"
	default:
		return f
	}
}

// normalize gives every group and item an id and checks uniqueness.
func (d *Document) normalize() error {
	seen := make(map[string]bool)
	claim := func(id *string) error {
		if *id == "" {
			*id = uuid.NewString()
		}
		if seen[*id] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, *id)
		}
		seen[*id] = true
		return nil
	}
	var walk func(items []*Item) error
	walk = func(items []*Item) error {
		for _, it := range items {
			if err := claim(&it.ID); err != nil {
				return err
			}
			if err := walk(it.Children); err != nil {
				return err
			}
		}
		return nil
	}
	for _, g := range d.Groups {
		if err := claim(&g.ID); err != nil {
			return err
		}
		if err := walk(g.Items); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the item with the given id, or nil.
func (d *Document) Find(id string) *Item {
	var found *Item
	d.walk(func(it *Item, _ int) bool {
		if it.ID == id {
			found = it
			return false
		}
		return true
	})
	return found
}

// walk visits every item depth first with its nesting depth (0 at the top)
// until fn returns false.
func (d *Document) walk(fn func(it *Item, depth int) bool) {
	var visit func(items []*Item, depth int) bool
	visit = func(items []*Item, depth int) bool {
		for _, it := range items {
			if !fn(it, depth) || !visit(it.Children, depth+1) {
				return false
			}
		}
		return true
	}
	for _, g := range d.Groups {
		if !visit(g.Items, 0) {
			return
		}
	}
}

// locate returns the slice holding it and its index there.
func (d *Document) locate(it *Item) (*[]*Item, int) {
	var find func(items *[]*Item) (*[]*Item, int)
	find = func(items *[]*Item) (*[]*Item, int) {
		for i, c := range *items {
			if c == it {
				return items, i
			}
			if s, j := find(&c.Children); s != nil {
				return s, j
			}
		}
		return nil, -1
	}
	for _, g := range d.Groups {
		if s, i := find(&g.Items); s != nil {
			return s, i
		}
	}
	return nil, -1
}

// String renders the document as an indented plain-text outline, one group
// header per group.
func (d *Document) String() string {
	var b strings.Builder
	if d.Title != "" {
		fmt.Fprintf(&b, "%s\n", d.Title)
	}
	var visit func(items []*Item, depth int)
	visit = func(items []*Item, depth int) {
		for _, it := range items {
			lock := ""
			if it.Locked {
				lock = " (locked)"
			}
			fmt.Fprintf(&b, "%s- %s%s\n", strings.Repeat("  ", depth+1), it.Title, lock)
			visit(it.Children, depth+1)
		}
	}
	for _, g := range d.Groups {
		fmt.Fprintf(&b, "[%s]\n", g.Title)
		visit(g.Items, 0)
	}
	return b.String()
}
