// Package prefs persists the small set of user preferences in a YAML file.
//
// Keys are dotted paths:
//
//	theme.preset       active color theme name
//	theme.dark_mode    true or false
//	filter.month       active month filter, YYYY-MM
//	filter.day         active day filter, YYYY-MM-DD
//	icons.<type>       icon override for one item type
//
// A missing file reads as empty preferences. Save writes the whole file
// through a temporary file and a rename.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ryokou/internal/itinerary"
	"github.com/roach88/ryokou/internal/view"
)

const (
	KeyThemePreset = "theme.preset"
	KeyDarkMode    = "theme.dark_mode"
	KeyFilterMonth = "filter.month"
	KeyFilterDay   = "filter.day"
	iconPrefix     = "icons."
)

// ErrUnknownKey is returned for a key outside the set above.
var ErrUnknownKey = errors.New("unknown preference key")

type document struct {
	Theme  themeDoc          `yaml:"theme,omitempty"`
	Filter filterDoc         `yaml:"filter,omitempty"`
	Icons  map[string]string `yaml:"icons,omitempty"`
}

type themeDoc struct {
	Preset   string `yaml:"preset,omitempty"`
	DarkMode bool   `yaml:"dark_mode,omitempty"`
}

type filterDoc struct {
	Month string `yaml:"month,omitempty"`
	Day   string `yaml:"day,omitempty"`
}

// Prefs is an in-memory view of the preferences file.
type Prefs struct {
	path string
	doc  document
}

// Load reads the preferences at path. A missing file is not an error.
func Load(path string) (*Prefs, error) {
	p := &Prefs{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &p.doc); err != nil {
		return nil, fmt.Errorf("parse preferences %s: %w", path, err)
	}
	return p, nil
}

// Path returns the file the preferences are saved to.
func (p *Prefs) Path() string {
	return p.path
}

// Keys returns every key that currently has a value, sorted.
func (p *Prefs) Keys() []string {
	var keys []string
	if p.doc.Theme.Preset != "" {
		keys = append(keys, KeyThemePreset)
	}
	if p.doc.Theme.DarkMode {
		keys = append(keys, KeyDarkMode)
	}
	if p.doc.Filter.Month != "" {
		keys = append(keys, KeyFilterMonth)
	}
	if p.doc.Filter.Day != "" {
		keys = append(keys, KeyFilterDay)
	}
	for name := range p.doc.Icons {
		keys = append(keys, iconPrefix+name)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key as text. Unset keys return "".
func (p *Prefs) Get(key string) (string, error) {
	switch key {
	case KeyThemePreset:
		return p.doc.Theme.Preset, nil
	case KeyDarkMode:
		return strconv.FormatBool(p.doc.Theme.DarkMode), nil
	case KeyFilterMonth:
		return p.doc.Filter.Month, nil
	case KeyFilterDay:
		return p.doc.Filter.Day, nil
	}
	if t, ok, err := iconKey(key); ok {
		if err != nil {
			return "", err
		}
		return p.doc.Icons[t.String()], nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Set parses value for key and stores it. An empty value clears the key.
func (p *Prefs) Set(key, value string) error {
	switch key {
	case KeyThemePreset:
		p.doc.Theme.Preset = value
		return nil
	case KeyDarkMode:
		if value == "" {
			p.doc.Theme.DarkMode = false
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", key, value)
		}
		p.doc.Theme.DarkMode = b
		return nil
	case KeyFilterMonth:
		if value != "" {
			if _, err := view.ParseYearMonth(value); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
		p.doc.Filter.Month = value
		return nil
	case KeyFilterDay:
		if value != "" {
			if _, err := view.ParseDay(value); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
		p.doc.Filter.Day = value
		return nil
	}
	if t, ok, err := iconKey(key); ok {
		if err != nil {
			return err
		}
		if value == "" {
			p.ResetIcon(t)
		} else {
			p.SetIcon(t, value)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Bool returns a boolean key. Unset or non-boolean keys read as false.
func (p *Prefs) Bool(key string) bool {
	v, err := p.Get(key)
	if err != nil {
		return false
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// SetBool stores a boolean key.
func (p *Prefs) SetBool(key string, v bool) error {
	return p.Set(key, strconv.FormatBool(v))
}

// Icon returns the icon for t: the override if one is set, else the default.
func (p *Prefs) Icon(t itinerary.ItemType) string {
	if name := p.doc.Icons[t.String()]; name != "" {
		return name
	}
	return itinerary.DefaultIcon(t)
}

func (p *Prefs) SetIcon(t itinerary.ItemType, name string) {
	if p.doc.Icons == nil {
		p.doc.Icons = map[string]string{}
	}
	p.doc.Icons[t.String()] = name
}

// ResetIcon removes the override for t.
func (p *Prefs) ResetIcon(t itinerary.ItemType) {
	delete(p.doc.Icons, t.String())
}

// Filter returns the persisted list filter. Values that no longer parse are ignored.
func (p *Prefs) Filter() view.Filter {
	var f view.Filter
	if m, err := view.ParseYearMonth(p.doc.Filter.Month); err == nil {
		f.Month = m
	}
	if d, err := view.ParseDay(p.doc.Filter.Day); err == nil {
		f.Day = d
	}
	return f
}

// SetFilter persists f, replacing the previous filter.
func (p *Prefs) SetFilter(f view.Filter) {
	p.doc.Filter = filterDoc{Month: f.Month.String(), Day: f.Day.String()}
}

// Save writes the preferences to Path.
func (p *Prefs) Save() error {
	data, err := yaml.Marshal(&p.doc)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.yaml")
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// iconKey parses an icons.<type> key. ok is false for keys without the prefix.
func iconKey(key string) (t itinerary.ItemType, ok bool, err error) {
	name, found := strings.CutPrefix(key, iconPrefix)
	if !found {
		return 0, false, nil
	}
	t, err = itinerary.ParseItemType(name)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return t, true, nil
}
