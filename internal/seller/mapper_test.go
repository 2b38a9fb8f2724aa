package seller

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWire(t *testing.T) {
	t.Run("either id key is accepted", func(t *testing.T) {
		var a, b Wire
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"s1","firstName":"Asha"}`), &a))
		require.NoError(t, json.Unmarshal([]byte(`{"id":"s2","firstName":"Ravi"}`), &b))

		assert.Equal(t, "s1", FromWire(a).ID)
		assert.Equal(t, "s2", FromWire(b).ID)
	})

	t.Run("password hash never leaves", func(t *testing.T) {
		out, err := json.Marshal(ToWire(Seller{ID: "s1", PasswordHash: "$2a$10$xyz"}))
		require.NoError(t, err)
		assert.NotContains(t, string(out), "2a$10")
		assert.Contains(t, string(out), `"_id":"s1"`)
		assert.Contains(t, string(out), `"id":"s1"`)
	})

	t.Run("auth response", func(t *testing.T) {
		res := ToAuthResponse(AuthResult{Seller: Seller{ID: "s1", FirstName: "Asha"}, Token: "tok"})
		assert.True(t, res.Success)
		assert.Equal(t, "tok", res.Token)
		assert.Equal(t, "Asha", res.Seller.FirstName)
	})

	t.Run("list", func(t *testing.T) {
		ws := ToWireList([]Seller{{ID: "a"}, {ID: "b"}})
		assert.Len(t, FromWireList(ws), 2)
	})
}
