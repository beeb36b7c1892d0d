// Package types provides type definitions for structured data used throughout the leadprep system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Candidate is a media item (typically a video) considered for relevance scoring.
// ID is the dedup key and never changes once assigned.
type Candidate struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ChannelTitle    string    `json:"channel_title"`
	ChannelID       string    `json:"channel_id,omitempty"`
	PublishedAt     time.Time `json:"published_at"`
	DurationSeconds int       `json:"duration_seconds"`
	ViewCount       int64     `json:"view_count"`
	LikeCount       int64     `json:"like_count"`
	CommentCount    int64     `json:"comment_count,omitempty"`
	URL             string    `json:"url,omitempty"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	Query           string    `json:"query,omitempty"`
}

// ScoredCandidate is a Candidate with the relevance score computed for one
// (subject name, subject organization) pair. Scores are only comparable
// within the same subject.
type ScoredCandidate struct {
	Candidate
	Score       float64      `json:"relevance_score"`
	Adjustments []Adjustment `json:"adjustments,omitempty"`
}

// Adjustment records a single scoring rule that fired.
type Adjustment struct {
	Rule   string  `json:"rule"`
	Match  string  `json:"match,omitempty"`
	Points float64 `json:"points"`
}
