package product

import (
	"context"
	"database/sql"
	"errors"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
	// FindByIDsForUpdate row-locks the given products in ascending id order.
	// Missing ids are simply absent from the result.
	FindByIDsForUpdate(ctx context.Context, ids []int64) (map[int64]*Product, error)
	Save(ctx context.Context, p *Product) error
	// DecrementStock reports false when the product is missing or has less than qty left.
	DecrementStock(ctx context.Context, id int64, qty int) (bool, error)
	// IncrementStock reports false when the product no longer exists.
	IncrementStock(ctx context.Context, id int64, qty int) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, price, stock, active, image_url, updated_at`

func (r *repository) FindByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Active, &p.ImageURL, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByIDsForUpdate(ctx context.Context, ids []int64) (map[int64]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FindByIDsForUpdate"),
		zap.Int64s("product_ids", ids),
	)

	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, pq.Array(ids))
	if err != nil {
		log.Error("failed to lock products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]*Product, len(ids))
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Active, &p.ImageURL, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("products locked", zap.Int("found", len(result)))
	return result, nil
}

func (r *repository) Save(ctx context.Context, p *Product) error {
	if p.Price.IsNegative() || p.Stock < 0 {
		return ErrInvalidProduct
	}

	conn := db.Conn(ctx, r.db)
	if p.ID == 0 {
		return conn.QueryRowContext(ctx, `
			INSERT INTO products (name, price, stock, active, image_url)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, updated_at
		`, p.Name, p.Price, p.Stock, p.Active, p.ImageURL).Scan(&p.ID, &p.UpdatedAt)
	}

	err := conn.QueryRowContext(ctx, `
		UPDATE products
		SET name = $1, price = $2, stock = $3, active = $4, image_url = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`, p.Name, p.Price, p.Stock, p.Active, p.ImageURL, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	return err
}

func (r *repository) DecrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`, qty, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *repository) IncrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE products
		SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2
	`, qty, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
