package postgres

import (
	"context"
	"errors"
	"fmt"

	"paintpro/internal/domain/order"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"
)

const orderColumns = `id, owner_id, number, date, category, client, address, type,
	duration_days, note, COALESCE(files, '{}'), revenue, fee, material, helper, fuel,
	profit, created_at`

type OrderRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewOrderRepository(db *Storage, log *slog.Logger) *OrderRepository {
	return &OrderRepository{
		db:  db,
		log: log.With("component", "order_repository"),
	}
}

func (r *OrderRepository) List(ctx context.Context, ownerID string, ascending bool) ([]order.Order, error) {
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE owner_id = $1
		ORDER BY created_at ` + dir + `, id ` + dir

	rows, err := r.db.Pool().Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("failed to list orders", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]order.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

func (r *OrderRepository) Get(ctx context.Context, ownerID, id string) (order.Order, error) {
	row := r.db.Pool().QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND owner_id = $2`, id, ownerID)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, order.ErrNotFound
		}
		r.log.Error("failed to get order", "id", id, "error", err)
		return order.Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) Create(ctx context.Context, o order.Order) error {
	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO orders (id, owner_id, number, date, category, client, address, type,
			duration_days, note, files, revenue, fee, material, helper, fuel, profit, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		o.ID.Value(), o.OwnerID, o.Number, o.Date, o.Category, o.Client, o.Address, o.Type,
		o.DurationDays, o.Note, o.Files, o.Revenue, o.Fee, o.Material, o.Helper, o.Fuel,
		o.Profit, o.CreatedAt)
	if err != nil {
		r.log.Error("failed to insert order", "owner_id", o.OwnerID, "error", err)
		return err
	}
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, o order.Order) error {
	tag, err := r.db.Pool().Exec(ctx,
		`UPDATE orders SET number = $3, date = $4, category = $5, client = $6, address = $7,
			type = $8, duration_days = $9, note = $10, files = $11, revenue = $12, fee = $13,
			material = $14, helper = $15, fuel = $16, profit = $17, updated_at = NOW()
		 WHERE id = $1 AND owner_id = $2`,
		o.ID.Value(), o.OwnerID, o.Number, o.Date, o.Category, o.Client, o.Address,
		o.Type, o.DurationDays, o.Note, o.Files, o.Revenue, o.Fee,
		o.Material, o.Helper, o.Fuel, o.Profit)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.db.Pool().Exec(ctx,
		`DELETE FROM orders WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (order.Order, error) {
	var (
		o  order.Order
		id string
	)
	err := row.Scan(&id, &o.OwnerID, &o.Number, &o.Date, &o.Category, &o.Client, &o.Address,
		&o.Type, &o.DurationDays, &o.Note, &o.Files, &o.Revenue, &o.Fee, &o.Material,
		&o.Helper, &o.Fuel, &o.Profit, &o.CreatedAt)
	if err != nil {
		return order.Order{}, err
	}
	o.ID = order.Durable(id)
	o.CreatedAt = o.CreatedAt.UTC()
	return o, nil
}
