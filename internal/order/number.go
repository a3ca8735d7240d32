package order

import (
	"context"
	"fmt"
	"time"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

const defaultProbeLimit = 1000

// NumberGenerator hands out ORD-<year>-<seq> numbers. It must run in the
// same transaction as the insert; the unique index catches the race
// between two callers that probed the same free number.
type NumberGenerator struct {
	repo       Repository
	now        func() time.Time
	probeLimit int
}

func NewNumberGenerator(repo Repository, now func() time.Time) *NumberGenerator {
	if now == nil {
		now = time.Now
	}
	return &NumberGenerator{repo: repo, now: now, probeLimit: defaultProbeLimit}
}

func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("ORD-%d-%05d", year, seq)
}

func (g *NumberGenerator) Next(ctx context.Context) (string, error) {
	count, err := g.repo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("count orders: %w", err)
	}

	year := g.now().Year()
	seq := count + 1
	for i := 0; i < g.probeLimit; i++ {
		number := FormatNumber(year, seq)
		taken, err := g.repo.ExistsByNumber(ctx, number)
		if err != nil {
			return "", fmt.Errorf("probe order number: %w", err)
		}
		if !taken {
			logger.FromCtx(ctx).Debug("order number generated", zap.String("order_number", number))
			return number, nil
		}
		seq++
	}
	return "", ErrNumberSpaceBlocked
}
