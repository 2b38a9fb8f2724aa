package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, kind Kind, opts ListOptions) ([]Item, error)
	GetByID(ctx context.Context, kind Kind, id string) (*Item, error)
	Create(ctx context.Context, it Item) error
	Update(ctx context.Context, kind Kind, id string, p Patch) (*Item, error)
	SetApproval(ctx context.Context, kind Kind, id string, approved bool, rejectedAt *time.Time) (*Item, error)
	Delete(ctx context.Context, kind Kind, id string) error
	Names(ctx context.Context, kind Kind) ([]string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const itemColumns = `
	id, kind, code, seller_id, first_name, last_name,
	name, description, location, pincode, image_url,
	initial_price, price, mrp, gst, delivery_charge, expiry,
	available, approved, rejected_at,
	revision, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(s rowScanner) (Item, error) {
	var (
		it         Item
		kind       string
		sellerID   sql.NullString
		rejectedAt sql.NullTime
		updatedAt  sql.NullTime
	)

	err := s.Scan(
		&it.ID, &kind, &it.Code, &sellerID, &it.FirstName, &it.LastName,
		&it.Name, &it.Description, &it.Location, &it.Pincode, &it.ImageURL,
		&it.InitialPrice, &it.Price, &it.MRP, &it.GSTPercent, &it.DeliveryCharge, &it.Expiry,
		&it.Available, &it.Approved, &rejectedAt,
		&it.Revision, &it.CreatedAt, &updatedAt,
	)
	if err != nil {
		return Item{}, err
	}

	it.Kind = Kind(kind)
	it.SellerID = sellerID.String
	if rejectedAt.Valid {
		t := rejectedAt.Time
		it.RejectedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		it.UpdatedAt = &t
	}
	return it, nil
}

// statusClause renders the SQL predicate for one approval status.
func statusClause(st Status) string {
	switch st {
	case StatusApproved:
		return "approved = true AND rejected_at IS NULL"
	case StatusRejected:
		return "rejected_at IS NOT NULL"
	default:
		return "approved = false AND rejected_at IS NULL"
	}
}

func (r *repository) List(ctx context.Context, kind Kind, opts ListOptions) ([]Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Catalog"),
		zap.String("method", "List"),
		zap.String("kind", string(kind)),
	)

	query := "SELECT" + itemColumns + " FROM catalog_items WHERE kind = $1"
	args := []any{string(kind)}
	argIndex := 2

	if opts.SellerID != "" {
		query += fmt.Sprintf(" AND seller_id = $%d", argIndex)
		args = append(args, opts.SellerID)
		argIndex++
	}

	if opts.Status != nil {
		query += " AND " + statusClause(*opts.Status)
	}

	if opts.OnlyAvailable {
		query += " AND available = true"
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedListItems, err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrFailedListItems, err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows error", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedListItems, err)
	}

	return items, nil
}

func (r *repository) GetByID(ctx context.Context, kind Kind, id string) (*Item, error) {
	query := "SELECT" + itemColumns + " FROM catalog_items WHERE kind = $1 AND id = $2"

	it, err := scanItem(r.db.QueryRowContext(ctx, query, string(kind), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Resource: string(kind), ID: id}
	}
	if err != nil {
		logger.FromCtx(ctx).Error("get item failed",
			zap.String("kind", string(kind)),
			zap.String("id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return &it, nil
}

func (r *repository) Create(ctx context.Context, it Item) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Catalog"),
		zap.String("method", "Create"),
		zap.String("kind", string(it.Kind)),
	)

	const q = `
		INSERT INTO catalog_items (
			id, kind, code, seller_id, first_name, last_name,
			name, description, location, pincode, image_url,
			initial_price, price, mrp, gst, delivery_charge, expiry,
			available, approved, rejected_at,
			revision, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17,
			$18, $19, $20,
			$21, $22
		)`

	var sellerID any
	if it.SellerID != "" {
		sellerID = it.SellerID
	}

	_, err := r.db.ExecContext(ctx, q,
		it.ID, string(it.Kind), it.Code, sellerID, it.FirstName, it.LastName,
		it.Name, it.Description, it.Location, it.Pincode, it.ImageURL,
		it.InitialPrice, it.Price, it.MRP, it.GSTPercent, it.DeliveryCharge, it.Expiry,
		it.Available, it.Approved, it.RejectedAt,
		it.Revision, it.CreatedAt,
	)
	if err != nil {
		log.Error("insert failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFailedCreateItem, err)
	}

	log.Info("item created", zap.String("id", it.ID), zap.String("code", it.Code))
	return nil
}

func (r *repository) Update(ctx context.Context, kind Kind, id string, p Patch) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Catalog"),
		zap.String("method", "Update"),
		zap.String("kind", string(kind)),
		zap.String("id", id),
	)

	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Name != nil {
		add("name", strings.TrimSpace(*p.Name))
	}
	if p.Description != nil {
		add("description", strings.TrimSpace(*p.Description))
	}
	if p.Location != nil {
		add("location", strings.TrimSpace(*p.Location))
	}
	if p.Pincode != nil {
		add("pincode", strings.TrimSpace(*p.Pincode))
	}
	if p.ImageURL != nil {
		add("image_url", *p.ImageURL)
	}
	if p.Price != nil {
		add("price", *p.Price)
	}
	if p.MRP != nil {
		add("mrp", *p.MRP)
	}
	if p.GSTPercent != nil {
		add("gst", *p.GSTPercent)
	}
	if p.DeliveryCharge != nil {
		add("delivery_charge", *p.DeliveryCharge)
	}
	if p.Expiry != nil {
		add("expiry", NormalizeExpiry(*p.Expiry))
	}
	if p.Available != nil {
		add("available", *p.Available)
	}

	if len(sets) == 0 {
		return nil, ErrNoFields
	}

	sets = append(sets, "revision = revision + 1", "updated_at = NOW()")

	args = append(args, string(kind), id)
	query := fmt.Sprintf(
		"UPDATE catalog_items SET %s WHERE kind = $%d AND id = $%d",
		strings.Join(sets, ", "), len(args)-1, len(args),
	)

	if p.Revision != nil {
		args = append(args, *p.Revision)
		query += fmt.Sprintf(" AND revision = $%d", len(args))
	}

	query += " RETURNING" + itemColumns

	it, err := scanItem(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if p.Revision == nil {
			return nil, &apperr.NotFoundError{Resource: string(kind), ID: id}
		}
		return nil, r.missOrConflict(ctx, kind, id, *p.Revision)
	}
	if err != nil {
		log.Error("update failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedUpdateItem, err)
	}

	log.Info("item updated", zap.Int64("revision", it.Revision))
	return &it, nil
}

// missOrConflict tells a missing row apart from a stale revision after a
// guarded update matched nothing.
func (r *repository) missOrConflict(ctx context.Context, kind Kind, id string, expected int64) error {
	var current int64
	err := r.db.QueryRowContext(ctx,
		"SELECT revision FROM catalog_items WHERE kind = $1 AND id = $2",
		string(kind), id,
	).Scan(&current)

	if errors.Is(err, sql.ErrNoRows) {
		return &apperr.NotFoundError{Resource: string(kind), ID: id}
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedUpdateItem, err)
	}

	logger.FromCtx(ctx).Warn("stale revision",
		zap.String("id", id),
		zap.Int64("expected", expected),
		zap.Int64("current", current),
	)
	return fmt.Errorf("%w: expected revision %d, current %d", apperr.ErrConflict, expected, current)
}

func (r *repository) SetApproval(
	ctx context.Context,
	kind Kind,
	id string,
	approved bool,
	rejectedAt *time.Time,
) (*Item, error) {

	query := `
		UPDATE catalog_items
		SET approved = $1, rejected_at = $2, revision = revision + 1, updated_at = NOW()
		WHERE kind = $3 AND id = $4
		RETURNING` + itemColumns

	it, err := scanItem(r.db.QueryRowContext(ctx, query, approved, rejectedAt, string(kind), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Resource: string(kind), ID: id}
	}
	if err != nil {
		logger.FromCtx(ctx).Error("set approval failed",
			zap.String("kind", string(kind)),
			zap.String("id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrFailedUpdateItem, err)
	}
	return &it, nil
}

func (r *repository) Delete(ctx context.Context, kind Kind, id string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM catalog_items WHERE kind = $1 AND id = $2",
		string(kind), id,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("delete failed", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFailedDeleteItem, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedDeleteItem, err)
	}
	if n == 0 {
		return &apperr.NotFoundError{Resource: string(kind), ID: id}
	}
	return nil
}

func (r *repository) Names(ctx context.Context, kind Kind) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT name
		FROM catalog_items
		WHERE kind = $1 AND approved = true AND rejected_at IS NULL AND available = true
		ORDER BY name`,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedListItems, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedListItems, err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
