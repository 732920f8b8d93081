package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/datacapflow/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTree(t *testing.T, w *httptest.ResponseRecorder) models.AuditTree {
	t.Helper()
	var tree models.AuditTree
	require.NoError(t, json.NewDecoder(w.Body).Decode(&tree))
	return tree
}

func childNamed(t *testing.T, node *models.TreeNode, name string) *models.TreeNode {
	t.Helper()
	for _, c := range node.Children {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no child %q under %q", name, node.Name)
	return nil
}

func TestGetAudits(t *testing.T) {
	src := &fakeSource{rows: sampleRows, sheet: sampleSheet}

	t.Run("builds tree with sheet round count", func(t *testing.T) {
		w := serve(t, newTestRouter(newDeps(src)), httptest.NewRequest(http.MethodGet, "/v1/audits", nil))

		require.Equal(t, http.StatusOK, w.Code)
		tree := decodeTree(t, w)

		assert.Equal(t, 2, tree.Rounds)
		require.NotNil(t, tree.Root)
		assert.Equal(t, "400", tree.Root.AggregateAmount.String())

		notActive := childNamed(t, tree.Root, "Not Active")
		require.Len(t, notActive.Allocators, 1)
		assert.Equal(t, "mp1", notActive.Allocators[0].ID)

		active := childNamed(t, tree.Root, "Active")
		assert.Len(t, childNamed(t, active, "Not Audited").Allocators, 2)

		round1 := childNamed(t, active, "Audit 1")
		assert.Equal(t, 1, round1.MemberCount)
		assert.Equal(t, "a2", childNamed(t, round1, "Pass").Allocators[0].ID)

		round2 := childNamed(t, active, "Audit 2")
		assert.Equal(t, "a1", childNamed(t, round2, "Failed").Allocators[0].ID)
	})

	t.Run("rounds query overrides the sheet", func(t *testing.T) {
		w := serve(t, newTestRouter(newDeps(src)), httptest.NewRequest(http.MethodGet, "/v1/audits?rounds=1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		tree := decodeTree(t, w)

		assert.Equal(t, 1, tree.Rounds)
		assert.Len(t, childNamed(t, tree.Root, "Active").Children, 2)
	})

	t.Run("invalid rounds", func(t *testing.T) {
		router := newTestRouter(newDeps(src))

		for _, q := range []string{"0", "-1", "eleven", "11"} {
			w := serve(t, router, httptest.NewRequest(http.MethodGet, "/v1/audits?rounds="+q, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code, "rounds=%s", q)
		}
	})

	t.Run("sheet without allocator column", func(t *testing.T) {
		bad := &fakeSource{rows: sampleRows, sheet: [][]string{{"Name", "1"}}}

		w := serve(t, newTestRouter(newDeps(bad)), httptest.NewRequest(http.MethodGet, "/v1/audits", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid upstream audit sheet")
	})

	t.Run("upstream failure", func(t *testing.T) {
		w := serve(t, newTestRouter(newDeps(&fakeSource{err: errors.New("timeout")})),
			httptest.NewRequest(http.MethodGet, "/v1/audits", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("missing sheet yields zero rounds", func(t *testing.T) {
		w := serve(t, newTestRouter(newDeps(&fakeSource{rows: sampleRows})),
			httptest.NewRequest(http.MethodGet, "/v1/audits", nil))

		require.Equal(t, http.StatusOK, w.Code)
		tree := decodeTree(t, w)

		assert.Zero(t, tree.Rounds)
		assert.Equal(t, 5, childNamed(t, tree.Root, "Active").MemberCount)
	})
}
