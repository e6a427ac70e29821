package soil

import (
	"context"

	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// ReadingSource fetches the soil proxy signal for a coordinate
type ReadingSource interface {
	FetchReading(ctx context.Context, coord shared.Coordinate) (Reading, error)
}
