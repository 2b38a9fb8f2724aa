package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"storefront/internal/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemCols = []string{
	"id", "kind", "code", "seller_id", "first_name", "last_name",
	"name", "description", "location", "pincode", "image_url",
	"initial_price", "price", "mrp", "gst", "delivery_charge", "expiry",
	"available", "approved", "rejected_at",
	"revision", "created_at", "updated_at",
}

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func productRow(rows *sqlmock.Rows, id string, approved bool, rejectedAt any) *sqlmock.Rows {
	return rows.AddRow(
		id, "product", "PRD-261019-0001", "seller-1", "Asha", "Rao",
		"Rice Bag", "25kg basmati", "Pune", "411001", "",
		500.0, 500.0, 0.0, 0.0, 0.0, "",
		true, approved, rejectedAt,
		int64(1), fixedNow, nil,
	)
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success_NoFilter", func(t *testing.T) {
		rows := sqlmock.NewRows(itemCols)
		productRow(rows, "p1", false, nil)
		productRow(rows, "p2", true, nil)

		mock.ExpectQuery("FROM catalog_items WHERE kind = \\$1 ORDER BY created_at DESC").
			WithArgs("product").
			WillReturnRows(rows)

		items, err := repo.List(context.Background(), KindProduct, ListOptions{})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, KindProduct, items[0].Kind)
		assert.Equal(t, "seller-1", items[0].SellerID)
		assert.True(t, items[0].IsPending())
		assert.True(t, items[1].IsApproved())
		assert.Nil(t, items[0].UpdatedAt)
	})

	t.Run("Success_SellerAndStatus", func(t *testing.T) {
		rejected := StatusRejected
		rows := sqlmock.NewRows(itemCols)
		productRow(rows, "p3", false, fixedNow)

		mock.ExpectQuery("WHERE kind = \\$1 AND seller_id = \\$2 AND rejected_at IS NOT NULL").
			WithArgs("product", "seller-1").
			WillReturnRows(rows)

		items, err := repo.List(context.Background(), KindProduct, ListOptions{
			SellerID: "seller-1",
			Status:   &rejected,
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, items[0].IsRejected())
		assert.Equal(t, fixedNow, *items[0].RejectedAt)
	})

	t.Run("Success_PublicListing", func(t *testing.T) {
		approved := StatusApproved
		mock.ExpectQuery("approved = true AND rejected_at IS NULL AND available = true").
			WithArgs("service").
			WillReturnRows(sqlmock.NewRows(itemCols))

		items, err := repo.List(context.Background(), KindService, ListOptions{
			Status:        &approved,
			OnlyAvailable: true,
		})
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery("FROM catalog_items").WillReturnError(errors.New("db down"))

		_, err := repo.List(context.Background(), KindMedicine, ListOptions{})
		assert.ErrorIs(t, err, ErrFailedListItems)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(itemCols)
		productRow(rows, "p1", true, nil)

		mock.ExpectQuery("WHERE kind = \\$1 AND id = \\$2").
			WithArgs("product", "p1").
			WillReturnRows(rows)

		it, err := repo.GetByID(context.Background(), KindProduct, "p1")
		require.NoError(t, err)
		assert.Equal(t, "p1", it.ID)
		assert.Equal(t, 500.0, it.InitialPrice)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("WHERE kind = \\$1 AND id = \\$2").
			WithArgs("product", "missing").
			WillReturnRows(sqlmock.NewRows(itemCols))

		_, err := repo.GetByID(context.Background(), KindProduct, "missing")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	it := Item{
		ID:           "p1",
		Kind:         KindProduct,
		Code:         "PRD-1",
		SellerID:     "seller-1",
		Name:         "Rice Bag",
		InitialPrice: 500,
		Price:        500,
		Available:    true,
		Revision:     1,
		CreatedAt:    fixedNow,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO catalog_items").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(context.Background(), it))
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO catalog_items").
			WillReturnError(errors.New("duplicate key"))

		err := repo.Create(context.Background(), it)
		assert.ErrorIs(t, err, ErrFailedCreateItem)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	price := 650.0
	rev := int64(1)

	t.Run("Success_WithRevision", func(t *testing.T) {
		rows := sqlmock.NewRows(itemCols)
		productRow(rows, "p1", false, nil)

		mock.ExpectQuery("UPDATE catalog_items SET price = \\$1, revision = revision \\+ 1, updated_at = NOW\\(\\) WHERE kind = \\$2 AND id = \\$3 AND revision = \\$4 RETURNING").
			WithArgs(price, "product", "p1", rev).
			WillReturnRows(rows)

		it, err := repo.Update(context.Background(), KindProduct, "p1", Patch{Price: &price, Revision: &rev})
		require.NoError(t, err)
		assert.Equal(t, "p1", it.ID)
	})

	t.Run("Conflict", func(t *testing.T) {
		mock.ExpectQuery("UPDATE catalog_items SET price").
			WillReturnRows(sqlmock.NewRows(itemCols))
		mock.ExpectQuery("SELECT revision FROM catalog_items").
			WithArgs("product", "p1").
			WillReturnRows(sqlmock.NewRows([]string{"revision"}).AddRow(int64(3)))

		_, err := repo.Update(context.Background(), KindProduct, "p1", Patch{Price: &price, Revision: &rev})
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("NotFound_WithRevision", func(t *testing.T) {
		mock.ExpectQuery("UPDATE catalog_items SET price").
			WillReturnRows(sqlmock.NewRows(itemCols))
		mock.ExpectQuery("SELECT revision FROM catalog_items").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(context.Background(), KindProduct, "p1", Patch{Price: &price, Revision: &rev})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("NotFound_WithoutRevision", func(t *testing.T) {
		mock.ExpectQuery("UPDATE catalog_items SET price").
			WillReturnRows(sqlmock.NewRows(itemCols))

		_, err := repo.Update(context.Background(), KindProduct, "p1", Patch{Price: &price})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("NoFields", func(t *testing.T) {
		_, err := repo.Update(context.Background(), KindProduct, "p1", Patch{Revision: &rev})
		assert.ErrorIs(t, err, ErrNoFields)
	})

	t.Run("MultipleFields", func(t *testing.T) {
		name := "  Brown Rice "
		avail := false
		expiry := "na"
		rows := sqlmock.NewRows(itemCols)
		productRow(rows, "m1", true, nil)

		mock.ExpectQuery("SET name = \\$1, expiry = \\$2, available = \\$3, revision").
			WithArgs("Brown Rice", "NA", false, "medicine", "m1").
			WillReturnRows(rows)

		_, err := repo.Update(context.Background(), KindMedicine, "m1", Patch{Name: &name, Expiry: &expiry, Available: &avail})
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetApproval(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Reject", func(t *testing.T) {
		rows := sqlmock.NewRows(itemCols)
		productRow(rows, "p1", false, fixedNow)

		mock.ExpectQuery("UPDATE catalog_items SET approved = \\$1, rejected_at = \\$2").
			WithArgs(false, fixedNow, "product", "p1").
			WillReturnRows(rows)

		at := fixedNow
		it, err := repo.SetApproval(context.Background(), KindProduct, "p1", false, &at)
		require.NoError(t, err)
		assert.True(t, it.IsRejected())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("UPDATE catalog_items SET approved").
			WillReturnRows(sqlmock.NewRows(itemCols))

		_, err := repo.SetApproval(context.Background(), KindService, "gone", true, nil)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM catalog_items WHERE kind = \\$1 AND id = \\$2").
			WithArgs("service", "s1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), KindService, "s1"))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM catalog_items").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), KindService, "s1")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM catalog_items").
			WillReturnError(errors.New("db error"))

		err := repo.Delete(context.Background(), KindService, "s1")
		assert.ErrorIs(t, err, ErrFailedDeleteItem)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Names(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT DISTINCT name").
		WithArgs("product").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Rice Bag").AddRow("Wheat"))

	names, err := repo.Names(context.Background(), KindProduct)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rice Bag", "Wheat"}, names)

	assert.NoError(t, mock.ExpectationsWereMet())
}
