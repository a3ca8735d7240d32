package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	// GetOrCreateForUpdate returns the identity's cart row-locked with its
	// items, creating an empty one first when none exists.
	GetOrCreateForUpdate(ctx context.Context, id Identity) (*Cart, error)
	FindForUpdate(ctx context.Context, id Identity) (*Cart, error)
	Find(ctx context.Context, id Identity) (*Cart, error)
	FindItem(ctx context.Context, itemID int64) (*CartItem, error)
	InsertItem(ctx context.Context, item *CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
	MoveItem(ctx context.Context, itemID, toCartID int64) error
	DeleteItem(ctx context.Context, itemID int64) error
	UpdateTotal(ctx context.Context, cartID int64, total decimal.Decimal) error
	// Clear drops every item and zeroes the total. The cart row stays.
	Clear(ctx context.Context, cartID int64) error
	Delete(ctx context.Context, cartID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const (
	cartColumns = `id, guest_token, user_id, total_amount, created_at, updated_at`
	itemColumns = `id, cart_id, product_id, quantity, price, created_at, updated_at`
)

// ownerFilter returns the column and value that select the identity's cart.
func ownerFilter(id Identity) (string, any) {
	if id.IsGuest() {
		return "guest_token", id.GuestToken()
	}
	return "user_id", id.UserID()
}

func (r *repository) GetOrCreateForUpdate(ctx context.Context, id Identity) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrCreateForUpdate"),
		zap.Stringer("identity", id),
	)

	col, val := ownerFilter(id)
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO carts (%s, total_amount)
		VALUES ($1, 0)
		ON CONFLICT (%s) DO NOTHING
	`, col, col), val)
	if err != nil {
		log.Error("failed to create cart", zap.Error(err))
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		log.Info("cart created")
	}

	return r.FindForUpdate(ctx, id)
}

func (r *repository) FindForUpdate(ctx context.Context, id Identity) (*Cart, error) {
	return r.find(ctx, id, true)
}

func (r *repository) Find(ctx context.Context, id Identity) (*Cart, error) {
	return r.find(ctx, id, false)
}

func (r *repository) find(ctx context.Context, id Identity, lock bool) (*Cart, error) {
	col, val := ownerFilter(id)
	query := fmt.Sprintf(`SELECT %s FROM carts WHERE %s = $1`, cartColumns, col)
	if lock {
		query += ` FOR UPDATE`
	}

	var c Cart
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, query, val).Scan(
		&c.ID,
		&c.GuestToken,
		&c.UserID,
		&c.TotalAmount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.items(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return &c, nil
}

func (r *repository) items(ctx context.Context, cartID int64) ([]CartItem, error) {
	rows, err := db.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+itemColumns+` FROM cart_items WHERE cart_id = $1 ORDER BY id`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []CartItem{}
	for rows.Next() {
		var it CartItem
		if err := rows.Scan(
			&it.ID,
			&it.CartID,
			&it.ProductID,
			&it.Quantity,
			&it.Price,
			&it.CreatedAt,
			&it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) FindItem(ctx context.Context, itemID int64) (*CartItem, error) {
	var it CartItem
	err := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM cart_items WHERE id = $1`, itemID,
	).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.Price, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repository) InsertItem(ctx context.Context, item *CartItem) error {
	return db.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, item.CartID, item.ProductID, item.Quantity, item.Price,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *repository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return r.execOne(ctx, `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
	`, quantity, itemID)
}

func (r *repository) MoveItem(ctx context.Context, itemID, toCartID int64) error {
	return r.execOne(ctx, `
		UPDATE cart_items
		SET cart_id = $1, updated_at = NOW()
		WHERE id = $2
	`, toCartID, itemID)
}

func (r *repository) DeleteItem(ctx context.Context, itemID int64) error {
	return r.execOne(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
}

func (r *repository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) UpdateTotal(ctx context.Context, cartID int64, total decimal.Decimal) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE carts
		SET total_amount = $1, updated_at = NOW()
		WHERE id = $2
	`, total, cartID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (r *repository) Clear(ctx context.Context, cartID int64) error {
	conn := db.Conn(ctx, r.db)
	if _, err := conn.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	return r.UpdateTotal(ctx, cartID, decimal.Zero)
}

func (r *repository) Delete(ctx context.Context, cartID int64) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrCartNotFound
	}
	return nil
}
