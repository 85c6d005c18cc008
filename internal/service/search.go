package service

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
)

// minScore cuts off matches too weak to show in the overlay.
const minScore = 0.3

// SearchService ranks library tracks against a free-text query.
type SearchService struct {
	Tracks *repository.TrackRepo
}

// SearchResult pairs a track with its match score; 1 is an exact match.
type SearchResult struct {
	Track repository.Track
	Score float64
}

// Search scores every track's title, artist and album against the query
// and returns the best matches in descending score order. An empty query
// returns no results.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	tracks, err := s.Tracks.List(ctx, repository.TrackFilters{})
	if err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(tracks))
	for _, t := range tracks {
		score := scoreTrack(t, q)
		if score < minScore {
			continue
		}
		results = append(results, SearchResult{Track: t, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func scoreTrack(t repository.Track, q string) float64 {
	best := 0.0
	for _, field := range []string{t.Title, t.Artist, t.Album} {
		if s := scoreField(field, q); s > best {
			best = s
		}
	}
	return best
}

// scoreField blends substring hits with edit distance so short queries
// still surface long titles.
func scoreField(field, q string) float64 {
	f := strings.ToLower(field)
	if f == "" {
		return 0
	}
	if f == q {
		return 1
	}
	score := 1 - float64(levenshtein.ComputeDistance(f, q))/float64(max(len(f), len(q)))
	if strings.Contains(f, q) {
		if sub := 0.8 + 0.2*float64(len(q))/float64(len(f)); sub > score {
			score = sub
		}
	}
	return score
}
