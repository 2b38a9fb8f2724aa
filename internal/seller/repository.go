package seller

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, s Seller) (Seller, error)
	FindByEmail(ctx context.Context, email string) (Seller, error)
	FindByID(ctx context.Context, id string) (Seller, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]Seller, error)
	Update(ctx context.Context, id string, in UpdateInput) (Seller, error)
	DeleteCascade(ctx context.Context, id string) (catalog.CascadeResult, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const sellerColumns = "id, first_name, last_name, email, phone, password_hash, created_at, updated_at"

const uniqueViolation = "23505"

func scanSeller(s interface{ Scan(...any) error }) (Seller, error) {
	var (
		out       Seller
		updatedAt sql.NullTime
	)
	err := s.Scan(
		&out.ID, &out.FirstName, &out.LastName, &out.Email, &out.Phone,
		&out.PasswordHash, &out.CreatedAt, &updatedAt,
	)
	if err != nil {
		return Seller{}, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		out.UpdatedAt = &t
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *repository) Create(ctx context.Context, s Seller) (Seller, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Seller"),
		zap.String("method", "Create"),
	)

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO sellers (id, first_name, last_name, email, phone, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+sellerColumns,
		s.ID, s.FirstName, s.LastName, strings.ToLower(s.Email), s.Phone, s.PasswordHash, s.CreatedAt,
	)

	created, err := scanSeller(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Seller{}, ErrEmailExists
		}
		log.Error("db: failed to insert seller", zap.String("email", s.Email), zap.Error(err))
		return Seller{}, fmt.Errorf("%w: %v", ErrFailedCreateSeller, err)
	}

	return created, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (Seller, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+sellerColumns+" FROM sellers WHERE email = $1",
		strings.ToLower(strings.TrimSpace(email)),
	)

	s, err := scanSeller(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Seller{}, ErrSellerNotFound
	}
	return s, err
}

func (r *repository) FindByID(ctx context.Context, id string) (Seller, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+sellerColumns+" FROM sellers WHERE id = $1", id)

	s, err := scanSeller(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Seller{}, ErrSellerNotFound
	}
	return s, err
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM sellers WHERE id = $1)", id,
	).Scan(&exists)
	return exists, err
}

func (r *repository) List(ctx context.Context) ([]Seller, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+sellerColumns+" FROM sellers ORDER BY created_at DESC")
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to list sellers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	sellers := []Seller{}
	for rows.Next() {
		s, err := scanSeller(rows)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, s)
	}
	return sellers, rows.Err()
}

func (r *repository) Update(ctx context.Context, id string, in UpdateInput) (Seller, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Seller"),
		zap.String("method", "Update"),
		zap.String("seller_id", id),
	)

	query := "UPDATE sellers SET updated_at = NOW()"
	args := []any{}
	argIndex := 1

	if in.FirstName != nil {
		query += fmt.Sprintf(", first_name = $%d", argIndex)
		args = append(args, strings.TrimSpace(*in.FirstName))
		argIndex++
	}
	if in.LastName != nil {
		query += fmt.Sprintf(", last_name = $%d", argIndex)
		args = append(args, strings.TrimSpace(*in.LastName))
		argIndex++
	}
	if in.Email != nil {
		query += fmt.Sprintf(", email = $%d", argIndex)
		args = append(args, strings.ToLower(strings.TrimSpace(*in.Email)))
		argIndex++
	}
	if in.Phone != nil {
		query += fmt.Sprintf(", phone = $%d", argIndex)
		args = append(args, strings.TrimSpace(*in.Phone))
		argIndex++
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", argIndex, sellerColumns)
	args = append(args, id)

	s, err := scanSeller(r.db.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Seller{}, ErrSellerNotFound
	case isUniqueViolation(err):
		return Seller{}, ErrEmailExists
	case err != nil:
		log.Error("db: failed to update seller", zap.Error(err))
		return Seller{}, fmt.Errorf("%w: %v", ErrFailedUpdateSeller, err)
	}

	// Listings carry a denormalised copy of the owner's name.
	if in.FirstName != nil || in.LastName != nil {
		if _, err := r.db.ExecContext(ctx,
			"UPDATE catalog_items SET first_name = $1, last_name = $2 WHERE seller_id = $3",
			s.FirstName, s.LastName, id,
		); err != nil {
			log.Warn("failed to refresh owner names on listings", zap.Error(err))
		}
	}

	return s, nil
}

// DeleteCascade removes the seller together with every product and service
// they own in one transaction.
func (r *repository) DeleteCascade(ctx context.Context, id string) (catalog.CascadeResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Seller"),
		zap.String("method", "DeleteCascade"),
		zap.String("seller_id", id),
	)

	var res catalog.CascadeResult

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrFailedDeleteSeller, err)
	}
	defer tx.Rollback()

	deleteKind := func(kind catalog.Kind) (int, error) {
		out, err := tx.ExecContext(ctx,
			"DELETE FROM catalog_items WHERE seller_id = $1 AND kind = $2",
			id, string(kind),
		)
		if err != nil {
			return 0, err
		}
		n, err := out.RowsAffected()
		return int(n), err
	}

	if res.DeletedServices, err = deleteKind(catalog.KindService); err != nil {
		log.Error("failed to delete services", zap.Error(err))
		return catalog.CascadeResult{}, fmt.Errorf("%w: %v", ErrFailedDeleteSeller, err)
	}

	if res.DeletedProducts, err = deleteKind(catalog.KindProduct); err != nil {
		log.Error("failed to delete products", zap.Error(err))
		return catalog.CascadeResult{}, fmt.Errorf("%w: %v", ErrFailedDeleteSeller, err)
	}

	out, err := tx.ExecContext(ctx, "DELETE FROM sellers WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete seller", zap.Error(err))
		return catalog.CascadeResult{}, fmt.Errorf("%w: %v", ErrFailedDeleteSeller, err)
	}

	n, err := out.RowsAffected()
	if err != nil {
		return catalog.CascadeResult{}, fmt.Errorf("%w: %v", ErrFailedDeleteSeller, err)
	}
	if n == 0 {
		return catalog.CascadeResult{}, ErrSellerNotFound
	}

	if err := tx.Commit(); err != nil {
		return catalog.CascadeResult{}, fmt.Errorf("%w: %v", ErrFailedDeleteSeller, err)
	}

	log.Info("seller deleted",
		zap.Int("deleted_services", res.DeletedServices),
		zap.Int("deleted_products", res.DeletedProducts),
	)
	return res, nil
}
