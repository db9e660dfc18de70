// Package catalog holds the static content of the navigator: the overview
// page, the notable Games pages, the citation list, and the host-city points.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// Image is an opaque asset reference with its caption.
type Image struct {
	Asset   string `yaml:"asset" json:"asset"`
	Caption string `yaml:"caption" json:"caption"`
}

// Page is one narrative page. Body is markdown.
type Page struct {
	Slug   string  `yaml:"slug" json:"slug"`
	Tab    string  `yaml:"tab" json:"tab"`
	Title  string  `yaml:"title" json:"title"`
	Images []Image `yaml:"images" json:"images"`
	Body   string  `yaml:"body" json:"body"`
}

// WithAssetBase returns a copy of p whose image assets are prefixed with base.
// Absolute URLs are left alone.
func (p Page) WithAssetBase(base string) Page {
	p.Images = slices.Clone(p.Images)
	if base == "" {
		return p
	}
	base = strings.TrimSuffix(base, "/") + "/"
	for i, img := range p.Images {
		if strings.Contains(img.Asset, "://") {
			continue
		}
		p.Images[i].Asset = base + strings.TrimPrefix(img.Asset, "/")
	}
	return p
}

type document struct {
	Overview  Page     `yaml:"overview"`
	Pages     []Page   `yaml:"pages"`
	Citations []string `yaml:"citations"`
}

// Catalog is the read-only content set.
type Catalog struct {
	overview  Page
	pages     []Page
	citations []string
	bySlug    map[string]int
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(embedded)
}

// Parse decodes a catalog document. Every page needs a unique slug and a title.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	c := &Catalog{
		overview:  doc.Overview,
		pages:     doc.Pages,
		citations: doc.Citations,
		bySlug:    make(map[string]int, len(doc.Pages)),
	}
	for i, p := range doc.Pages {
		if p.Slug == "" || p.Title == "" {
			return nil, fmt.Errorf("catalog: page %d: %w: slug and title are required", i, ErrInvalidPage)
		}
		if _, dup := c.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("catalog: page %q: %w: duplicate slug", p.Slug, ErrInvalidPage)
		}
		c.bySlug[p.Slug] = i
	}
	return c, nil
}

// Overview returns the landing page.
func (c *Catalog) Overview() Page { return c.overview.WithAssetBase("") }

// Pages returns the Games pages in display order.
func (c *Catalog) Pages() []Page {
	out := make([]Page, len(c.pages))
	for i, p := range c.pages {
		out[i] = p.WithAssetBase("")
	}
	return out
}

// Page returns the page with slug.
func (c *Catalog) Page(slug string) (Page, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Page{}, fmt.Errorf("%q: %w", slug, ErrPageNotFound)
	}
	return c.pages[i].WithAssetBase(""), nil
}

// Citations returns the works cited, in order.
func (c *Catalog) Citations() []string { return slices.Clone(c.citations) }
