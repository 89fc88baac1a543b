package source

import (
	"context"
	"errors"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
)

// Collector is the capability set every data provider implements. The
// reconciler only ever sees the raw records it returns.
type Collector interface {
	// Name is the source id records are tagged with.
	Name() string
	ListCompetitions(ctx context.Context) ([]Competition, error)
	// ListMatches returns raw records for one competition season. The
	// ingestion service passes the starting year ("2023" for 2023/24);
	// "2023-24" is accepted too.
	ListMatches(ctx context.Context, competitionID, season string) ([]match.RawRecord, error)
	MatchDetails(ctx context.Context, matchID string) (match.RawRecord, error)
}

// ErrUnsupported is returned by collectors for capabilities their provider
// does not offer.
var ErrUnsupported = errors.New("operation not supported by source")
