package interviews

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/jonathan/leadprep/internal/types"
)

// DefaultLookback limits searches to recently published videos.
const DefaultLookback = 180 * 24 * time.Hour

// Searcher returns raw candidates for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int64) ([]types.Candidate, error)
}

// YouTubeSearcher searches YouTube via the Data API v3.
type YouTubeSearcher struct {
	svc      *youtube.Service
	lookback time.Duration
	now      func() time.Time
}

// NewYouTubeSearcher creates a searcher authenticated with apiKey. Extra
// client options (endpoint, HTTP client) are passed through.
func NewYouTubeSearcher(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeSearcher, error) {
	if apiKey != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, &SearchError{Message: "failed to create youtube service", Cause: err}
	}
	return &YouTubeSearcher{svc: svc, lookback: DefaultLookback, now: time.Now}, nil
}

// Search runs search.list for query, then fetches statistics and durations
// with videos.list.
func (s *YouTubeSearcher) Search(ctx context.Context, query string, maxResults int64) ([]types.Candidate, error) {
	publishedAfter := s.now().Add(-s.lookback).UTC().Format(time.RFC3339)

	searchResp, err := s.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(maxResults).
		Order("relevance").
		PublishedAfter(publishedAfter).
		RelevanceLanguage("en").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &SearchError{Query: query, Message: "search.list failed", Cause: err}
	}

	var ids []string
	for _, item := range searchResp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	videosResp, err := s.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &SearchError{Query: query, Message: "videos.list failed", Cause: err}
	}

	candidates := make([]types.Candidate, 0, len(videosResp.Items))
	for _, v := range videosResp.Items {
		candidates = append(candidates, toCandidate(v, query))
	}
	return candidates, nil
}

func toCandidate(v *youtube.Video, query string) types.Candidate {
	c := types.Candidate{
		ID:    v.Id,
		URL:   fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.Id),
		Query: query,
	}
	if sn := v.Snippet; sn != nil {
		c.Title = sn.Title
		c.Description = sn.Description
		c.ChannelTitle = sn.ChannelTitle
		c.ChannelID = sn.ChannelId
		if t, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
			c.PublishedAt = t
		}
		if sn.Thumbnails != nil && sn.Thumbnails.Medium != nil {
			c.ThumbnailURL = sn.Thumbnails.Medium.Url
		}
	}
	if st := v.Statistics; st != nil {
		c.ViewCount = int64(st.ViewCount)
		c.LikeCount = int64(st.LikeCount)
		c.CommentCount = int64(st.CommentCount)
	}
	if cd := v.ContentDetails; cd != nil {
		c.DurationSeconds = ParseISODuration(cd.Duration)
	}
	return c
}
