package models

import (
	"time"
)

// Article is a single candidate news item. Identity is the source URL;
// Content stays empty until extraction fills it.
type Article struct {
	Source      string    `json:"source"`
	Provider    string    `json:"provider"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Content     string    `json:"content,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// WithContent returns a copy of the article with extracted content attached.
func (a Article) WithContent(text string) Article {
	a.Content = text
	return a
}

// Fact is a short extracted text unit attributed to its owning article.
type Fact struct {
	Text      string `json:"text"`
	SourceURL string `json:"source_url"`
}

// Report is the terminal payload of a successful generation job.
type Report struct {
	Summary   string    `json:"summary"`
	Articles  []Article `json:"articles"`
	TotalTime float64   `json:"total_time"`
}

// Section is one written part of the final report body.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
