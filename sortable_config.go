package arbor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// SortableConfig is the declarative form of Options. Selectors are given as
// strings and compiled by Options. It decodes from YAML, TOML, or any
// mapstructure-based loader such as viper.
type SortableConfig struct {
	Elements          string  `yaml:"elements" toml:"elements" mapstructure:"elements"`
	Groups            string  `yaml:"groups" toml:"groups" mapstructure:"groups"`
	ConnectGroups     bool    `yaml:"connect_groups" toml:"connect_groups" mapstructure:"connect_groups"`
	Nest              bool    `yaml:"nest" toml:"nest" mapstructure:"nest"`
	NestInterval      float64 `yaml:"nest_interval" toml:"nest_interval" mapstructure:"nest_interval"`
	NestIndent        float64 `yaml:"nest_indent" toml:"nest_indent" mapstructure:"nest_indent"`
	MaxLevels         int     `yaml:"max_levels" toml:"max_levels" mapstructure:"max_levels"`
	ListTagName       string  `yaml:"list_tag_name" toml:"list_tag_name" mapstructure:"list_tag_name"`
	Ignore            string  `yaml:"ignore" toml:"ignore" mapstructure:"ignore"`
	UseElementSize    bool    `yaml:"use_element_size" toml:"use_element_size" mapstructure:"use_element_size"`
	Enabled           *bool   `yaml:"enabled" toml:"enabled" mapstructure:"enabled"`
	Tolerance         float64 `yaml:"tolerance" toml:"tolerance" mapstructure:"tolerance"`
	PlaceholderHeight float64 `yaml:"placeholder_height" toml:"placeholder_height" mapstructure:"placeholder_height"`
	SettleDuration    float32 `yaml:"settle_duration" toml:"settle_duration" mapstructure:"settle_duration"`
	ColumnWidth       float64 `yaml:"column_width" toml:"column_width" mapstructure:"column_width"`
	GroupPadding      float64 `yaml:"group_padding" toml:"group_padding" mapstructure:"group_padding"`
}

// DecodeSortableConfig reads a config from r. format is "yaml" or "toml".
func DecodeSortableConfig(r io.Reader, format string) (SortableConfig, error) {
	var cfg SortableConfig
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
			return cfg, fmt.Errorf("decode sortable config: %w", err)
		}
	case "toml":
		if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode sortable config: %w", err)
		}
	default:
		return cfg, fmt.Errorf("decode sortable config: unsupported format %q", format)
	}
	return cfg, nil
}

// LoadSortableConfig reads a config file, picking the format from its
// extension.
func LoadSortableConfig(path string) (SortableConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return SortableConfig{}, fmt.Errorf("load sortable config: %w", err)
	}
	defer f.Close()
	return DecodeSortableConfig(f, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Options compiles the config into Options rooted at ref. Callbacks, Layout
// and IsAllowed are left for the caller to fill in.
func (c SortableConfig) Options(ref *Node) (Options, error) {
	opts := Options{
		Ref:               ref,
		ConnectGroups:     c.ConnectGroups,
		Nest:              c.Nest,
		NestInterval:      c.NestInterval,
		NestIndent:        c.NestIndent,
		MaxLevels:         c.MaxLevels,
		ListTagName:       c.ListTagName,
		UseElementSize:    c.UseElementSize,
		Tolerance:         c.Tolerance,
		PlaceholderHeight: c.PlaceholderHeight,
		SettleDuration:    c.SettleDuration,
	}
	var err error
	if opts.Elements, err = optionalSelector(c.Elements); err != nil {
		return Options{}, fmt.Errorf("elements: %w", err)
	}
	if opts.Groups, err = optionalSelector(c.Groups); err != nil {
		return Options{}, fmt.Errorf("groups: %w", err)
	}
	if opts.Ignore, err = optionalSelector(c.Ignore); err != nil {
		return Options{}, fmt.Errorf("ignore: %w", err)
	}
	if c.Enabled != nil {
		opts.Enable = Enabled(*c.Enabled)
	}
	if c.ColumnWidth > 0 || c.GroupPadding > 0 {
		indent := c.NestIndent
		if indent <= 0 {
			indent = DefaultNestIndent
		}
		opts.Layout = StackLayout{Indent: indent, Padding: c.GroupPadding, ColumnWidth: c.ColumnWidth}
	}
	return opts, nil
}

// optionalSelector parses src, returning a nil Selector for blank input so the
// option keeps its default.
func optionalSelector(src string) (Selector, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	return ParseSelector(src)
}
