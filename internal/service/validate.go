package service

import (
	"fmt"
	"strings"

	"github.com/anvitha/pathtrace/internal/domain"
	"github.com/anvitha/pathtrace/internal/pathgraph"
)

const defaultSampleCount = 100

// normalizeQuery trims identifiers, applies defaults, and enforces the
// configured bounds before the engine sees the query.
func (s *PathService) normalizeQuery(q domain.PathQuery) (domain.PathQuery, error) {
	q.Source = strings.TrimSpace(q.Source)
	q.Target = strings.TrimSpace(q.Target)
	if q.Source == "" || q.Target == "" {
		return domain.PathQuery{}, fmt.Errorf("source and target are required: %w", pathgraph.ErrInvalidEndpoint)
	}

	if q.Length < 0 {
		return domain.PathQuery{}, pathgraph.ErrInvalidLength
	}
	if q.Length > s.cfg.MaxLength {
		return domain.PathQuery{}, fmt.Errorf("length %d exceeds limit %d: %w",
			q.Length, s.cfg.MaxLength, pathgraph.ErrInvalidLength)
	}

	if q.Count <= 0 {
		q.Count = defaultSampleCount
	}
	if q.Count > s.cfg.MaxCount {
		q.Count = s.cfg.MaxCount
	}
	if q.Limit < 0 {
		q.Limit = 0
	}

	switch q.Weighting {
	case "", domain.WeightingCompletions, domain.WeightingUniform:
	default:
		return domain.PathQuery{}, fmt.Errorf("unknown weighting %q", q.Weighting)
	}
	return q, nil
}
