// Package seo builds the storefront's sitemap.xml and robots.txt when no
// prebuilt copies ship with the frontend bundle.
package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type ChangeFreq string

const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

type URL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Entry is a slugged page with its last modification time.
type Entry struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapBuilder collects storefront URLs under a base URL.
type SitemapBuilder struct {
	baseURL string
	urls    []URL
}

func NewSitemapBuilder(baseURL string) *SitemapBuilder {
	return &SitemapBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *SitemapBuilder) add(path string, updated time.Time, freq ChangeFreq, priority string) {
	u := URL{
		Loc:        b.baseURL + path,
		ChangeFreq: freq,
		Priority:   priority,
	}
	if !updated.IsZero() {
		u.LastMod = updated.UTC().Format("2006-01-02")
	}
	b.urls = append(b.urls, u)
}

// AddStaticPages adds the fixed storefront pages.
func (b *SitemapBuilder) AddStaticPages() {
	b.add("/", time.Time{}, ChangeFreqDaily, "1.0")
	b.add("/products", time.Time{}, ChangeFreqDaily, "0.9")
	b.add("/blog", time.Time{}, ChangeFreqWeekly, "0.7")
	b.add("/about", time.Time{}, ChangeFreqMonthly, "0.5")
	b.add("/contact", time.Time{}, ChangeFreqMonthly, "0.5")
}

func (b *SitemapBuilder) AddCategories(entries []Entry) {
	for _, e := range entries {
		b.add("/category/"+e.Slug, e.UpdatedAt, ChangeFreqWeekly, "0.7")
	}
}

func (b *SitemapBuilder) AddProducts(entries []Entry) {
	for _, e := range entries {
		b.add("/products/"+e.Slug, e.UpdatedAt, ChangeFreqWeekly, "0.8")
	}
}

func (b *SitemapBuilder) AddBlogPosts(entries []Entry) {
	for _, e := range entries {
		b.add("/blog/"+e.Slug, e.UpdatedAt, ChangeFreqMonthly, "0.6")
	}
}

func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build renders the urlset document with its XML header.
func (b *SitemapBuilder) Build() ([]byte, error) {
	body, err := xml.MarshalIndent(urlset{XMLNS: sitemapNamespace, URLs: b.urls}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
