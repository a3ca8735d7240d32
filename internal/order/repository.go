package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// Create inserts the order and its items. A clash on the order number
	// returns ErrOrderNumberTaken.
	Create(ctx context.Context, o *Order) error
	Count(ctx context.Context) (int64, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	FindByID(ctx context.Context, id int64) (*Order, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	ListByStatus(ctx context.Context, status Status) ([]*Order, error)
	// SaveStatus persists Status and PaymentStatus and refreshes UpdatedAt.
	SaveStatus(ctx context.Context, o *Order) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, order_number, user_id, total_amount, status, payment_status, payment_method,
	shipping_address, shipping_city, shipping_state, shipping_zip, shipping_phone,
	order_date, created_at, updated_at`

const orderItemColumns = `
	id, order_id, product_id, product_name, product_image_url, price, quantity, subtotal`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.TotalAmount,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentMethod,
		&o.Shipping.Address,
		&o.Shipping.City,
		&o.Shipping.State,
		&o.Shipping.Zip,
		&o.Shipping.Phone,
		&o.OrderDate,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func isOrderNumberConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == PgUniqueViolation && pqErr.Constraint == orderNumberConstraint
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("order_number", o.OrderNumber),
		zap.Int("item_count", len(o.Items)),
	)

	conn := db.Conn(ctx, r.db)
	err := conn.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, user_id, total_amount, status, payment_status, payment_method,
			shipping_address, shipping_city, shipping_state, shipping_zip, shipping_phone,
			order_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at
	`,
		o.OrderNumber,
		o.UserID,
		o.TotalAmount,
		o.Status,
		o.PaymentStatus,
		o.PaymentMethod,
		o.Shipping.Address,
		o.Shipping.City,
		o.Shipping.State,
		o.Shipping.Zip,
		o.Shipping.Phone,
		o.OrderDate,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if isOrderNumberConflict(err) {
		log.Warn("order number already taken")
		return ErrOrderNumberTaken
	}
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err := conn.QueryRowContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, product_name, product_image_url, price, quantity, subtotal
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING id
		`,
			item.OrderID,
			item.ProductID,
			item.ProductName,
			item.ProductImageURL,
			item.Price,
			item.Quantity,
			item.Subtotal,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}
	}

	log.Debug("order inserted", zap.Int64("order_id", o.ID))
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

func (r *repository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`, number,
	).Scan(&exists)
	return exists, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id int64) (*Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) FindByNumber(ctx context.Context, number string) (*Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, number)
}

func (r *repository) findOne(ctx context.Context, query string, arg any) (*Order, error) {
	o, err := scanOrder(db.Conn(ctx, r.db).QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]*Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
}

func (r *repository) ListAll(ctx context.Context) ([]*Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
}

func (r *repository) ListByStatus(ctx context.Context, status Status) ([]*Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC, id DESC`, status)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems fills Items for every order with a single query.
func (r *repository) loadItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int64]*Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		o.Items = []OrderItem{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := db.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, id`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(
			&it.ID,
			&it.OrderID,
			&it.ProductID,
			&it.ProductName,
			&it.ProductImageURL,
			&it.Price,
			&it.Quantity,
			&it.Subtotal,
		); err != nil {
			return err
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func (r *repository) SaveStatus(ctx context.Context, o *Order) error {
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE orders
		SET status = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`, o.Status, o.PaymentStatus, o.ID).Scan(&o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	return err
}
