package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/burrow/internal/protocol"
)

type Kind string

const (
	KindDirectory Kind = "directory"
	KindArticle   Kind = "article"
)

// Resource is one node of the served tree.
type Resource struct {
	ID      uint16
	Name    string
	Kind    Kind
	Entries []uint16
	Body    string
}

// Catalog is an immutable resource tree keyed by resource id.
type Catalog struct {
	root      uint16
	resources map[uint16]Resource
}

type fileCatalog struct {
	Root      uint16         `toml:"root"`
	Resources []fileResource `toml:"resource"`
}

type fileResource struct {
	ID       uint16   `toml:"id"`
	Name     string   `toml:"name"`
	Kind     string   `toml:"kind"`
	Entries  []uint16 `toml:"entries"`
	Body     string   `toml:"body"`
	BodyFile string   `toml:"body_file"`
}

// Load reads a catalog file. body_file paths are relative to the file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog load failed (%s): %w", path, err)
	}
	c, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("catalog parse failed (%s): %w", path, err)
	}
	return c, nil
}

func Parse(data []byte, baseDir string) (*Catalog, error) {
	var raw fileCatalog
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	c := &Catalog{root: raw.Root, resources: make(map[uint16]Resource, len(raw.Resources))}
	for i, fr := range raw.Resources {
		res, err := fr.resolve(baseDir)
		if err != nil {
			return nil, fmt.Errorf("resource[%d] invalid: %w", i, err)
		}
		if _, dup := c.resources[res.ID]; dup {
			return nil, fmt.Errorf("resource[%d] invalid: duplicate id %d", i, res.ID)
		}
		c.resources[res.ID] = res
	}
	if err := c.validate(meta.IsDefined("root")); err != nil {
		return nil, err
	}
	return c, nil
}

func (fr fileResource) resolve(baseDir string) (Resource, error) {
	res := Resource{
		ID:      fr.ID,
		Name:    fr.Name,
		Kind:    Kind(strings.TrimSpace(fr.Kind)),
		Entries: fr.Entries,
		Body:    fr.Body,
	}
	if strings.IndexByte(res.Name, protocol.RecordSeparator) >= 0 {
		return Resource{}, fmt.Errorf("name of %d contains record separator", res.ID)
	}
	switch res.Kind {
	case KindDirectory:
		if fr.Body != "" || fr.BodyFile != "" {
			return Resource{}, fmt.Errorf("directory %d cannot have a body", res.ID)
		}
	case KindArticle:
		if len(fr.Entries) > 0 {
			return Resource{}, fmt.Errorf("article %d cannot have entries", res.ID)
		}
		if fr.BodyFile != "" {
			if fr.Body != "" {
				return Resource{}, fmt.Errorf("article %d sets both body and body_file", res.ID)
			}
			path := fr.BodyFile
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			body, err := os.ReadFile(path)
			if err != nil {
				return Resource{}, fmt.Errorf("article %d body: %w", res.ID, err)
			}
			res.Body = string(body)
		}
	default:
		return Resource{}, fmt.Errorf("resource %d has unknown kind %q", res.ID, fr.Kind)
	}
	return res, nil
}

func (c *Catalog) validate(rootDefined bool) error {
	for _, id := range c.IDs() {
		res := c.resources[id]
		for _, child := range res.Entries {
			if _, ok := c.resources[child]; !ok {
				return fmt.Errorf("directory %d references missing resource %d", id, child)
			}
		}
	}
	if rootDefined {
		if _, ok := c.resources[c.root]; !ok {
			return fmt.Errorf("root %d is not a resource", c.root)
		}
	}
	return nil
}

func (c *Catalog) Root() uint16 {
	return c.root
}

func (c *Catalog) Lookup(id uint16) (Resource, bool) {
	res, ok := c.resources[id]
	return res, ok
}

// IDs returns every resource id in ascending order.
func (c *Catalog) IDs() []uint16 {
	ids := make([]uint16, 0, len(c.resources))
	for id := range c.resources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
