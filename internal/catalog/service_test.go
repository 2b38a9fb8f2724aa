package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/metrics"
	"storefront/internal/pricing"
	"storefront/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, kind Kind, opts ListOptions) ([]Item, error) {
	args := m.Called(ctx, kind, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Item), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, kind Kind, id string) (*Item, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, it Item) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, kind Kind, id string, p Patch) (*Item, error) {
	args := m.Called(ctx, kind, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) SetApproval(ctx context.Context, kind Kind, id string, approved bool, rejectedAt *time.Time) (*Item, error) {
	args := m.Called(ctx, kind, id, approved, rejectedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, kind Kind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

func (m *MockRepository) Names(ctx context.Context, kind Kind) ([]string, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetListing(ctx context.Context, kind Kind) ([]Item, bool) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]Item), args.Bool(1)
}

func (m *MockCache) SetListing(ctx context.Context, kind Kind, items []Item) {
	m.Called(ctx, kind, items)
}

func (m *MockCache) InvalidateListing(ctx context.Context, kind Kind) {
	m.Called(ctx, kind)
}

// --- Helpers ---

func sellerCtx(id string) context.Context {
	return utils.SetSellerContext(context.Background(), id, id+"@shop.test")
}

func adminCtx() context.Context {
	return utils.SetAdminContext(context.Background())
}

func newTestService(repo *MockRepository, cache *MockCache) (*service, *metrics.Registry) {
	reg := metrics.NewRegistry()
	var c ListingCache
	if cache != nil {
		c = cache
	}
	svc := NewService(repo, c, reg).(*service)
	svc.now = func() time.Time { return fixedNow }
	return svc, reg
}

func validProductInput() Input {
	return Input{
		FirstName:   "Asha",
		LastName:    "Rao",
		Name:        "Rice Bag",
		Description: "25kg basmati",
		Location:    "Pune",
		Pincode:     "411001",
		Price:       500,
	}
}

// --- Tests ---

func TestService_ListPublic(t *testing.T) {
	t.Run("CacheHit", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		svc, reg := newTestService(repo, cache)

		cached := []Item{{ID: "p1"}}
		cache.On("GetListing", mock.Anything, KindProduct).Return(cached, true)

		items, err := svc.ListPublic(context.Background(), KindProduct)
		require.NoError(t, err)
		assert.Equal(t, cached, items)
		assert.Equal(t, uint64(1), reg.CacheHits.Load())
		repo.AssertNotCalled(t, "List")
	})

	t.Run("CacheMiss", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		svc, reg := newTestService(repo, cache)

		approved := StatusApproved
		fromDB := []Item{{ID: "p2", Approved: true, Available: true}}

		cache.On("GetListing", mock.Anything, KindProduct).Return(nil, false)
		repo.On("List", mock.Anything, KindProduct, ListOptions{Status: &approved, OnlyAvailable: true}).Return(fromDB, nil)
		cache.On("SetListing", mock.Anything, KindProduct, fromDB).Return()

		items, err := svc.ListPublic(context.Background(), KindProduct)
		require.NoError(t, err)
		assert.Equal(t, fromDB, items)
		assert.Equal(t, uint64(1), reg.CacheMisses.Load())
		cache.AssertExpectations(t)
	})

	t.Run("MedicinesSkipApproval", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)

		fromDB := []Item{{ID: "m1", Kind: KindMedicine, Available: true}}
		repo.On("List", mock.Anything, KindMedicine, ListOptions{OnlyAvailable: true}).Return(fromDB, nil)

		items, err := svc.ListPublic(context.Background(), KindMedicine)
		require.NoError(t, err)
		assert.Equal(t, fromDB, items)
		repo.AssertExpectations(t)
	})
}

func TestService_ListBySeller(t *testing.T) {
	repo := new(MockRepository)
	svc, _ := newTestService(repo, nil)

	t.Run("Success", func(t *testing.T) {
		repo.On("List", mock.Anything, KindService, ListOptions{SellerID: "s1"}).Return([]Item{{ID: "x"}}, nil).Once()

		items, err := svc.ListBySeller(context.Background(), KindService, "s1")
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("MedicineRejected", func(t *testing.T) {
		_, err := svc.ListBySeller(context.Background(), KindMedicine, "s1")
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("MissingSeller", func(t *testing.T) {
		_, err := svc.ListBySeller(context.Background(), KindProduct, " ")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestService_AllItems(t *testing.T) {
	t.Run("AdminOnly", func(t *testing.T) {
		svc, _ := newTestService(new(MockRepository), nil)
		_, err := svc.AllItems(sellerCtx("s1"), nil)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("PendingTab", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)

		pending := StatusPending
		opts := ListOptions{Status: &pending}
		repo.On("List", mock.Anything, KindMedicine, opts).Return([]Item{}, nil)
		repo.On("List", mock.Anything, KindProduct, opts).Return([]Item{{ID: "p1"}}, nil)
		repo.On("List", mock.Anything, KindService, opts).Return([]Item{{ID: "s1"}, {ID: "s2"}}, nil)

		all, err := svc.AllItems(adminCtx(), &pending)
		require.NoError(t, err)
		assert.Len(t, all.Products, 1)
		assert.Len(t, all.Services, 2)
		assert.Empty(t, all.Medicines)
	})

	t.Run("RepoError", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)
		repo.On("List", mock.Anything, KindMedicine, ListOptions{}).Return(nil, ErrFailedListItems)

		_, err := svc.AllItems(adminCtx(), nil)
		assert.ErrorIs(t, err, ErrFailedListItems)
	})
}

func TestService_Create(t *testing.T) {
	t.Run("SellerProductStartsPending", func(t *testing.T) {
		repo := new(MockRepository)
		svc, reg := newTestService(repo, nil)

		in := validProductInput()
		in.SellerID = "someone-else"

		repo.On("Create", mock.Anything, mock.MatchedBy(func(it Item) bool {
			return it.SellerID == "s1" &&
				it.Kind == KindProduct &&
				!it.Approved &&
				it.RejectedAt == nil &&
				it.InitialPrice == 500 &&
				it.Price == 500 &&
				it.Available &&
				it.Revision == 1 &&
				it.ID != "" &&
				len(it.Code) > 0
		})).Return(nil)

		it, err := svc.Create(sellerCtx("s1"), KindProduct, in)
		require.NoError(t, err)
		assert.True(t, it.IsPending())
		assert.Equal(t, "s1", it.SellerID)
		assert.Equal(t, fixedNow, it.CreatedAt)
		assert.Equal(t, uint64(1), reg.ItemsCreated.Load())
	})

	t.Run("GuestCannotCreate", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)

		_, err := svc.Create(context.Background(), KindService, validProductInput())
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ValidationBeforeRepo", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)

		in := validProductInput()
		in.Pincode = "4110"

		_, err := svc.Create(sellerCtx("s1"), KindProduct, in)
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Pincode must be exactly 6 digits", ve.Message)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("AdminMedicinePublished", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		svc, _ := newTestService(repo, cache)

		in := Input{
			Name:           "Paracetamol",
			Description:    "Fever relief",
			Price:          200,
			MRP:            220,
			GSTPercent:     5,
			DeliveryCharge: 30,
			Expiry:         "na",
			ImageURL:       "/uploads/p.png",
		}

		repo.On("Create", mock.Anything, mock.MatchedBy(func(it Item) bool {
			return it.Approved && it.Expiry == ExpiryNone && it.SellerID == ""
		})).Return(nil)
		cache.On("InvalidateListing", mock.Anything, KindMedicine).Return()

		it, err := svc.Create(adminCtx(), KindMedicine, in)
		require.NoError(t, err)
		assert.True(t, it.IsApproved())
		assert.Equal(t, "240.00", pricing.Format(it.Breakdown().Total))
		cache.AssertExpectations(t)
	})

	t.Run("SellerCannotCreateMedicine", func(t *testing.T) {
		svc, _ := newTestService(new(MockRepository), nil)
		_, err := svc.Create(sellerCtx("s1"), KindMedicine, Input{})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestService_Update(t *testing.T) {
	price := 600.0

	t.Run("SellerEditsOwnPending", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)

		repo.On("GetByID", mock.Anything, KindProduct, "p1").Return(&Item{ID: "p1", Kind: KindProduct, SellerID: "s1"}, nil)
		repo.On("Update", mock.Anything, KindProduct, "p1", Patch{Price: &price}).Return(&Item{ID: "p1", Price: 600}, nil)

		it, err := svc.Update(sellerCtx("s1"), KindProduct, "p1", Patch{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, 600.0, it.Price)
	})

	t.Run("SellerLockedOnApproved", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)

		repo.On("GetByID", mock.Anything, KindProduct, "p1").Return(&Item{ID: "p1", SellerID: "s1", Approved: true}, nil)

		_, err := svc.Update(sellerCtx("s1"), KindProduct, "p1", Patch{Price: &price})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("SellerNotOwner", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)

		repo.On("GetByID", mock.Anything, KindService, "x").Return(&Item{ID: "x", SellerID: "s2"}, nil)

		_, err := svc.Update(sellerCtx("s1"), KindService, "x", Patch{Price: &price})
		var fe *apperr.ForbiddenError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "not the owner", fe.Reason)
	})

	t.Run("SellerCannotToggleAvailability", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)
		off := false

		_, err := svc.Update(sellerCtx("s1"), KindProduct, "p1", Patch{Price: &price, Available: &off})
		var fe *apperr.ForbiddenError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "toggle-availability", fe.Action)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AdminTogglesAvailability", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)
		off := false

		repo.On("Update", mock.Anything, KindProduct, "p1", Patch{Available: &off}).Return(&Item{ID: "p1"}, nil)

		_, err := svc.Update(adminCtx(), KindProduct, "p1", Patch{Available: &off})
		assert.NoError(t, err)
	})

	t.Run("AdminEditsAnything", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)

		repo.On("Update", mock.Anything, KindMedicine, "m1", Patch{Price: &price}).Return(&Item{ID: "m1"}, nil)

		_, err := svc.Update(adminCtx(), KindMedicine, "m1", Patch{Price: &price})
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Conflict", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)

		rev := int64(2)
		p := Patch{Price: &price, Revision: &rev}
		repo.On("Update", mock.Anything, KindProduct, "p1", p).Return(nil, apperr.ErrConflict)

		_, err := svc.Update(adminCtx(), KindProduct, "p1", p)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("EmptyPatch", func(t *testing.T) {
		svc, _ := newTestService(new(MockRepository), nil)
		_, err := svc.Update(adminCtx(), KindProduct, "p1", Patch{})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("GuestForbidden", func(t *testing.T) {
		svc, _ := newTestService(new(MockRepository), nil)
		err := svc.Delete(context.Background(), KindProduct, "p1")
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("SellerDeletesRejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)

		at := fixedNow
		repo.On("GetByID", mock.Anything, KindProduct, "p1").Return(&Item{ID: "p1", SellerID: "s1", RejectedAt: &at}, nil)

		err := svc.Delete(sellerCtx("s1"), KindProduct, "p1")
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("AdminDelete", func(t *testing.T) {
		repo := new(MockRepository)
		svc, reg := newTestService(repo, nil)

		repo.On("Delete", mock.Anything, KindService, "s9").Return(nil)

		require.NoError(t, svc.Delete(adminCtx(), KindService, "s9"))
		assert.Equal(t, uint64(1), reg.ItemsDeleted.Load())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)

		repo.On("Delete", mock.Anything, KindService, "s9").Return(&apperr.NotFoundError{Resource: "service", ID: "s9"})

		err := svc.Delete(adminCtx(), KindService, "s9")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestService_Transitions(t *testing.T) {
	t.Run("ApprovePending", func(t *testing.T) {
		repo := new(MockRepository)
		svc, reg := newTestService(repo, nil)

		repo.On("GetByID", mock.Anything, KindProduct, "p1").Return(&Item{ID: "p1"}, nil)
		repo.On("SetApproval", mock.Anything, KindProduct, "p1", true, (*time.Time)(nil)).
			Return(&Item{ID: "p1", Approved: true}, nil)

		it, err := svc.Approve(adminCtx(), KindProduct, "p1")
		require.NoError(t, err)
		assert.True(t, it.IsApproved())
		assert.Equal(t, uint64(1), reg.Approvals.Load())
	})

	t.Run("RejectApproved", func(t *testing.T) {
		repo := new(MockRepository)
		svc, reg := newTestService(repo, nil)

		repo.On("GetByID", mock.Anything, KindService, "s1").Return(&Item{ID: "s1", Approved: true}, nil)
		repo.On("SetApproval", mock.Anything, KindService, "s1", false, mock.MatchedBy(func(at *time.Time) bool {
			return at != nil && at.Equal(fixedNow)
		})).Return(&Item{ID: "s1", RejectedAt: &fixedNow}, nil)

		it, err := svc.Reject(adminCtx(), KindService, "s1")
		require.NoError(t, err)
		assert.True(t, it.IsRejected())
		assert.Equal(t, uint64(1), reg.Rejections.Load())
	})

	t.Run("SellerCannotApprove", func(t *testing.T) {
		repo := new(MockRepository)
		svc, _ := newTestService(repo, nil)

		_, err := svc.Approve(sellerCtx("s1"), KindProduct, "p1")
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MedicinesNotModerated", func(t *testing.T) {
		svc, _ := newTestService(new(MockRepository), nil)
		_, err := svc.Reject(adminCtx(), KindMedicine, "m1")
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("FailureLeavesStateUntouched", func(t *testing.T) {
		repo := new(MockRepository)
		svc, reg := newTestService(repo, nil)

		stored := &Item{ID: "p1"}
		repo.On("GetByID", mock.Anything, KindProduct, "p1").Return(stored, nil)
		repo.On("SetApproval", mock.Anything, KindProduct, "p1", true, (*time.Time)(nil)).
			Return(nil, errors.New("db down"))

		_, err := svc.Approve(adminCtx(), KindProduct, "p1")
		assert.Error(t, err)
		assert.True(t, stored.IsPending())
		assert.Equal(t, uint64(0), reg.Approvals.Load())
	})
}

func TestService_Names(t *testing.T) {
	repo := new(MockRepository)
	svc, _ := newTestService(repo, nil)

	repo.On("Names", mock.Anything, KindProduct).Return([]string{"Rice"}, nil)

	names, err := svc.Names(context.Background(), KindProduct)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rice"}, names)
}
