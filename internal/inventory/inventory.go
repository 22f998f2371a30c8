package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

// Section names a top-level part of the configuration tree.
type Section string

// Sections of the configuration tree.
const (
	SectionBridges   Section = "bridges"
	SectionTemplates Section = "templates"
	SectionLocations Section = "locations"
	SectionPersons   Section = "persons"
)

// AllSections returns the sections in resolution order.
func AllSections() []Section {
	return []Section{SectionBridges, SectionTemplates, SectionLocations, SectionPersons}
}

// keyed reports whether the section is a mapping (true) or a list (false).
func (s Section) keyed() bool {
	return s == SectionBridges || s == SectionTemplates
}

// Entry is one raw document.
type Entry struct {
	Key    string         // mapping key for bridges and templates, empty otherwise
	Source string         // file the document was read from
	Doc    map[string]any // raw document
}

// Documents holds the raw documents of every section in declaration order.
type Documents struct {
	Bridges   []Entry
	Templates []Entry
	Locations []Entry
	Persons   []Entry
}

// Section returns the entries of s.
func (d *Documents) Section(s Section) []Entry {
	switch s {
	case SectionBridges:
		return d.Bridges
	case SectionTemplates:
		return d.Templates
	case SectionLocations:
		return d.Locations
	case SectionPersons:
		return d.Persons
	}
	return nil
}

func (d *Documents) add(s Section, e Entry) {
	switch s {
	case SectionBridges:
		d.Bridges = append(d.Bridges, e)
	case SectionTemplates:
		d.Templates = append(d.Templates, e)
	case SectionLocations:
		d.Locations = append(d.Locations, e)
	case SectionPersons:
		d.Persons = append(d.Persons, e)
	}
}

// Len returns the total number of documents.
func (d *Documents) Len() int {
	return len(d.Bridges) + len(d.Templates) + len(d.Locations) + len(d.Persons)
}

var supportedExtensions = map[string]bool{
	".yaml":  true,
	".yml":   true,
	".json":  true,
	".jsonc": true,
}

// Load reads every section directory below dir.
//
// Returns:
//   - *Documents: Raw documents in declaration order
//   - error: *model.ConfigurationError for unreadable or malformed files,
//     duplicate keys, or files declaring a foreign section
func Load(dir string) (*Documents, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("config dir %s is not a directory", dir)
	}

	docs := &Documents{}
	for _, section := range AllSections() {
		if err := loadSection(filepath.Join(dir, string(section)), section, docs); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func loadSection(dir string, section Section, docs *Documents) error {
	seen := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		entries, err := LoadFile(path, section)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if section.keyed() {
				if prev, dup := seen[e.Key]; dup {
					return model.NewConfigurationError(model.KindDocument, path, e.Key,
						fmt.Errorf("%w: %s %q already declared in %s", model.ErrDuplicateIdentifier, section, e.Key, prev))
				}
				seen[e.Key] = path
			}
			docs.add(section, e)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading %s: %w", section, err)
	}
	return nil
}

// LoadFile reads the documents of one section from a single file.
func LoadFile(path string, section Section) ([]Entry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from walking the config dir
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, data, section)
}

// Parse decodes the documents of one section. The file extension of path
// selects JSONC preprocessing; path is also used in error reports.
func Parse(path string, data []byte, section Section) ([]Entry, error) {
	root, err := parseNode(path, data)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, invalid(path, "", "top level must be a mapping")
	}

	var entries []Entry
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Value != string(section) {
			return nil, invalid(path, key.Value, fmt.Sprintf("unexpected section %q, want %q", key.Value, section))
		}

		var sectionEntries []Entry
		if section.keyed() {
			sectionEntries, err = parseKeyed(path, value)
		} else {
			sectionEntries, err = parseList(path, value)
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, sectionEntries...)
	}
	return entries, nil
}

func parseNode(path string, data []byte) (*yaml.Node, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, model.NewConfigurationError(model.KindDocument, path, "",
			fmt.Errorf("%w: %w", model.ErrInvalidDocument, err))
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	return doc.Content[0], nil
}

func parseKeyed(path string, node *yaml.Node) ([]Entry, error) {
	if node.Kind != yaml.MappingNode {
		return nil, invalid(path, "", "section must be a mapping of key to document")
	}
	entries := make([]Entry, 0, len(node.Content)/2)
	keys := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if key == "" {
			return nil, invalid(path, "", "empty key")
		}
		if keys[key] {
			return nil, model.NewConfigurationError(model.KindDocument, path, key,
				fmt.Errorf("%w: key declared twice", model.ErrDuplicateIdentifier))
		}
		keys[key] = true

		doc, err := decodeMapping(path, key, node.Content[i+1])
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: key, Source: path, Doc: doc})
	}
	return entries, nil
}

func parseList(path string, node *yaml.Node) ([]Entry, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, invalid(path, "", "section must be a list of documents")
	}
	entries := make([]Entry, 0, len(node.Content))
	for i, item := range node.Content {
		doc, err := decodeMapping(path, fmt.Sprintf("[%d]", i), item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Source: path, Doc: doc})
	}
	return entries, nil
}

func decodeMapping(path, field string, node *yaml.Node) (map[string]any, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return map[string]any{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, invalid(path, field, "document must be a mapping")
	}
	var doc map[string]any
	if err := node.Decode(&doc); err != nil {
		return nil, model.NewConfigurationError(model.KindDocument, path, field,
			fmt.Errorf("%w: %w", model.ErrInvalidDocument, err))
	}
	return doc, nil
}

func invalid(path, field, msg string) error {
	return model.NewConfigurationError(model.KindDocument, path, field,
		fmt.Errorf("%w: %s", model.ErrInvalidDocument, msg))
}
