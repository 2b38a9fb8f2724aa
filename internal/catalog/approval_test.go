package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exactlyOne(t *testing.T, it Item) {
	t.Helper()
	n := 0
	for _, b := range []bool{it.IsPending(), it.IsApproved(), it.IsRejected()} {
		if b {
			n++
		}
	}
	assert.Equal(t, 1, n, "exactly one status predicate must hold")
}

func TestStatus(t *testing.T) {
	at := fixedNow

	tests := []struct {
		name string
		item Item
		want Status
	}{
		{"fresh item is pending", Item{}, StatusPending},
		{"approved flag", Item{Approved: true}, StatusApproved},
		{"rejected timestamp", Item{RejectedAt: &at}, StatusRejected},
		{"legacy row with both flags reads rejected", Item{Approved: true, RejectedAt: &at}, StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Status())
			exactlyOne(t, tt.item)
		})
	}
}

func TestTransitions(t *testing.T) {
	later := fixedNow.Add(time.Hour)

	t.Run("Pending to Approved", func(t *testing.T) {
		it := Item{}
		Approve(&it, fixedNow)
		assert.True(t, it.IsApproved())
		assert.Nil(t, it.RejectedAt)
		exactlyOne(t, it)
	})

	t.Run("Approved to Rejected", func(t *testing.T) {
		it := Item{Approved: true}
		Reject(&it, later)
		assert.True(t, it.IsRejected())
		assert.False(t, it.Approved)
		require.NotNil(t, it.RejectedAt)
		assert.Equal(t, later, *it.RejectedAt)
		exactlyOne(t, it)
	})

	t.Run("Rejected to Approved clears timestamp", func(t *testing.T) {
		at := fixedNow
		it := Item{RejectedAt: &at}
		Approve(&it, later)
		assert.True(t, it.IsApproved())
		assert.Nil(t, it.RejectedAt)
		exactlyOne(t, it)
	})

	t.Run("Approve is idempotent", func(t *testing.T) {
		it := Item{}
		Approve(&it, fixedNow)
		Approve(&it, later)
		assert.True(t, it.IsApproved())
		assert.Equal(t, later, *it.UpdatedAt)
	})

	t.Run("Transition by status", func(t *testing.T) {
		it := Item{}
		require.NoError(t, Transition(&it, StatusRejected, fixedNow))
		assert.True(t, it.IsRejected())
		require.NoError(t, Transition(&it, StatusApproved, fixedNow))
		assert.True(t, it.IsApproved())
		assert.ErrorIs(t, Transition(&it, StatusPending, fixedNow), ErrUnknownStatus)
		assert.True(t, it.IsApproved())
	})
}

func TestCanSellerModify(t *testing.T) {
	at := fixedNow

	assert.NoError(t, CanSellerModify(Item{SellerID: "s1"}, "s1"))
	assert.ErrorIs(t, CanSellerModify(Item{SellerID: "s1"}, "s2"), ErrNotOwner)
	assert.ErrorIs(t, CanSellerModify(Item{SellerID: ""}, ""), ErrNotOwner)
	assert.ErrorIs(t, CanSellerModify(Item{SellerID: "s1", Approved: true}, "s1"), ErrLocked)
	assert.ErrorIs(t, CanSellerModify(Item{SellerID: "s1", RejectedAt: &at}, "s1"), ErrLocked)
}

func TestHasStatusAndStorefront(t *testing.T) {
	at := fixedNow
	items := []Item{
		{ID: "a"},
		{ID: "b", Approved: true, Available: true},
		{ID: "c", Approved: true, Available: false},
		{ID: "d", RejectedAt: &at, Available: true},
	}

	approved := StatusApproved
	assert.Len(t, Filter(items, "", ScopeListing, HasStatus(&approved)), 2)
	assert.Len(t, Filter(items, "", ScopeListing, HasStatus(nil)), 4)

	visible := Filter(items, "", ScopeListing, Storefront)
	require.Len(t, visible, 1)
	assert.Equal(t, "b", visible[0].ID)
}

func TestStorefront_UnmoderatedMedicines(t *testing.T) {
	ws := []Wire{}
	require.NoError(t, json.Unmarshal([]byte(`[
		{"_id": "m1", "name": "Tulsi Drops", "price": 120, "available": true},
		{"_id": "m2", "name": "Cough Syrup", "price": 90, "available": false}
	]`), &ws))

	items := FromWireList(KindMedicine, ws)
	require.Len(t, items, 2)
	assert.True(t, items[0].IsPending(), "no approved key reads as pending")

	visible := Filter(items, "", ScopeListing, Storefront)
	require.Len(t, visible, 1)
	assert.Equal(t, "m1", visible[0].ID)

	// Seller listings still need approval.
	assert.False(t, Storefront(Item{Kind: KindProduct, Available: true}))
}
