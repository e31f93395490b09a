package model

import (
	"html/template"
	"time"
)

// ContentItem represents a single rendered document page.
type ContentItem struct {
	Title       string
	Date        time.Time
	Type        string
	SourcePath  string
	Permalink   string
	ContentHTML template.HTML
	Frontmatter map[string]interface{}
	Summary     string
	Layout      string
}

// SiteData holds all site-wide data handed to layouts.
type SiteData struct {
	Title         string
	BaseURL       string
	ContentItems  []*ContentItem
	ContentByType map[string][]*ContentItem
}
