// Package inventory is the authoritative stock ledger. Stock is taken at
// order placement and given back on cancellation; nothing else writes it.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"storefront-be/internal/apperror"
	"storefront-be/internal/logger"
	"storefront-be/internal/product"

	"go.uber.org/zap"
)

// Line is a quantity of one product moving in or out of stock.
type Line struct {
	ProductID int64
	Quantity  int
}

type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product '%s': available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) ErrorKind() apperror.Kind {
	return apperror.KindInsufficientStock
}

type Ledger interface {
	// Reserve must run inside a transaction. It locks every product, checks
	// all lines against live stock and only then decrements. The returned
	// products reflect the catalog at reservation time.
	Reserve(ctx context.Context, lines []Line) (map[int64]*product.Product, error)
	// Release puts quantities back. Products that no longer exist are skipped.
	Release(ctx context.Context, lines []Line) error
}

type ledger struct {
	products product.Repository
}

func NewLedger(products product.Repository) Ledger {
	return &ledger{products: products}
}

func (l *ledger) Reserve(ctx context.Context, lines []Line) (map[int64]*product.Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "inventory"),
		zap.String("method", "Reserve"),
	)

	wanted := aggregate(lines)
	ids := make([]int64, 0, len(wanted))
	for id := range wanted {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	locked, err := l.products.FindByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}

	// validate everything before the first write
	for _, id := range ids {
		p, ok := locked[id]
		if !ok {
			log.Warn("product vanished before checkout", zap.Int64("product_id", id))
			return nil, apperror.Wrap(apperror.KindNotFound, product.ErrProductNotFound,
				fmt.Sprintf("product %d is no longer available", id))
		}
		if p.Stock < wanted[id] {
			log.Info("insufficient stock",
				zap.Int64("product_id", id),
				zap.Int("available", p.Stock),
				zap.Int("requested", wanted[id]),
			)
			return nil, &InsufficientStockError{
				ProductID:   id,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   wanted[id],
			}
		}
	}

	for _, id := range ids {
		p := locked[id]
		ok, err := l.products.DecrementStock(ctx, id, wanted[id])
		if err != nil {
			return nil, fmt.Errorf("decrement stock for product %d: %w", id, err)
		}
		if !ok {
			// the row lock makes this unreachable unless someone bypassed it
			return nil, &InsufficientStockError{
				ProductID:   id,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   wanted[id],
			}
		}
		log.Debug("stock decremented",
			zap.Int64("product_id", id),
			zap.Int("from", p.Stock),
			zap.Int("to", p.Stock-wanted[id]),
		)
		p.Stock -= wanted[id]
	}

	return locked, nil
}

func (l *ledger) Release(ctx context.Context, lines []Line) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "inventory"),
		zap.String("method", "Release"),
	)

	for _, line := range lines {
		ok, err := l.products.IncrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return fmt.Errorf("restore stock for product %d: %w", line.ProductID, err)
		}
		if !ok {
			log.Warn("product no longer exists, skipping stock restore",
				zap.Int64("product_id", line.ProductID),
				zap.Int("quantity", line.Quantity),
			)
			continue
		}
		log.Debug("stock restored",
			zap.Int64("product_id", line.ProductID),
			zap.Int("quantity", line.Quantity),
		)
	}
	return nil
}

func aggregate(lines []Line) map[int64]int {
	out := make(map[int64]int, len(lines))
	for _, l := range lines {
		out[l.ProductID] += l.Quantity
	}
	return out
}
