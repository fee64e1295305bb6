package query

import (
	"testing"

	"estatehub-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func renderOrder(o Order) (string, []any) {
	w := &writer{}
	o.appendSQL(w)
	return w.sb.String(), w.args
}

func strPtr(s string) *string { return &s }

func TestResolveOrderExplicitSortWins(t *testing.T) {
	lowest := model.SortLowestPrice
	highest := model.SortHighestPrice

	sql, _ := renderOrder(ResolveOrder(&model.PropertyFilter{Sort: &lowest}))
	assert.Equal(t, "p.price ASC", sql)

	// Explicit sort overrides the search-implied ordering.
	sql, _ = renderOrder(ResolveOrder(&model.PropertyFilter{Sort: &highest, Search: strPtr("villa canggu")}))
	assert.Equal(t, "p.price DESC", sql)
}

func TestResolveOrderTextSearchGroupsBySlug(t *testing.T) {
	sql, args := renderOrder(ResolveOrder(&model.PropertyFilter{Search: strPtr("villa canggu")}))
	assert.Equal(t, "p.site_path ASC, similarity(p.site_path, $1) DESC", sql)
	assert.Equal(t, []any{"villa canggu"}, args)
}

func TestResolveOrderNumericSearchFallsBackToRecency(t *testing.T) {
	sql, args := renderOrder(ResolveOrder(&model.PropertyFilter{Search: strPtr("42")}))
	assert.Equal(t, "p.id DESC", sql)
	assert.Empty(t, args)
}

func TestResolveOrderDefaultIsNewestFirst(t *testing.T) {
	sql, _ := renderOrder(ResolveOrder(&model.PropertyFilter{}))
	assert.Equal(t, "p.id DESC", sql)
}
