package query

import (
	"fmt"
	"strconv"
	"strings"

	"estatehub-backend/internal/model"
)

// SimilarityFloor is the minimum pg_trgm similarity for a fuzzy slug match.
const SimilarityFloor = 0.1

// Spec is a composed retrieval query: predicate tree plus ordering,
// deduplication and pagination decoration. The matching count query is the
// bare predicate tree (no ordering, no pagination).
type Spec struct {
	Where          Expr
	Order          Order
	DistinctOnSlug bool
	Limit          *int64
	Offset         int64
}

// Compose folds the visibility predicate and the filter specification into a
// retrieval spec and the structurally matching count predicate. Every filter
// except the search term goes through one shared fold, so the two queries
// cannot drift apart; search intentionally differs (ranked similarity for the
// fetch, inclusive substring matching for the count).
func Compose(ident *model.Identity, f *model.PropertyFilter) (Spec, Expr) {
	shared := sharedFilters(f)

	fetch := Spec{
		Where:          And(append([]Expr{Visibility(ident), searchFetch(f.Search)}, shared...)...),
		Order:          ResolveOrder(f),
		DistinctOnSlug: ident == nil && f.Search != nil,
	}
	fetch.Limit, fetch.Offset = limitOffset(f)

	count := And(append([]Expr{Visibility(ident), searchCount(f.Search)}, shared...)...)
	return fetch, count
}

// ComposeRelated builds the related-listings spec: the subject's street
// neighborhood, excluding the subject itself, restricted to available
// non-deleted rows regardless of caller.
func ComposeRelated(subjectID int32, f *model.PropertyFilter) Spec {
	exprs := []Expr{
		NotEq("p.id", subjectID),
		Eq("p.is_deleted", false),
		Eq("p.sold_status", model.SoldAvailable),
	}
	if f.Regency != nil {
		exprs = append(exprs, Eq("p.regency", strings.ToLower(*f.Regency)))
	}
	if f.Street != nil {
		exprs = append(exprs, Eq("p.street", strings.ToLower(*f.Street)))
	}
	spec := Spec{
		Where: And(exprs...),
		Order: Order{sql: "p.id DESC"},
	}
	spec.Limit, spec.Offset = limitOffset(f)
	return spec
}

// sharedFilters is the fold applied identically to fetch and count.
func sharedFilters(f *model.PropertyFilter) []Expr {
	var exprs []Expr
	if f.Province != nil {
		exprs = append(exprs, Eq("p.province", strings.ToLower(*f.Province)))
	}
	if f.Regency != nil {
		exprs = append(exprs, Eq("p.regency", strings.ToLower(*f.Regency)))
	}
	if f.Street != nil {
		exprs = append(exprs, Eq("p.street", strings.ToLower(*f.Street)))
	}
	if f.IsPopular != nil {
		exprs = append(exprs, ContainsJSON("p.configurations", map[string]bool{"is_popular": *f.IsPopular}))
	}
	if f.SoldStatus != nil {
		exprs = append(exprs, Eq("p.sold_status", *f.SoldStatus))
	}
	if f.PurchaseStatus != nil {
		exprs = append(exprs, Or(
			Eq("p.purchase_status", *f.PurchaseStatus),
			Eq("p.purchase_status", model.ForSaleOrRent),
		))
	}
	if f.BuildingType != nil {
		exprs = append(exprs, Eq("p.building_type", strings.ToLower(*f.BuildingType)))
	}
	if f.DeveloperID != nil {
		exprs = append(exprs, Eq("p.developer_id", *f.DeveloperID))
	}
	return exprs
}

// searchFetch: a numeric term is an exact id lookup and short-circuits fuzzy
// matching; anything else is a trigram match against the site-path slug.
func searchFetch(term *string) Expr {
	if term == nil {
		return nil
	}
	if id, err := strconv.ParseInt(*term, 10, 32); err == nil {
		return Eq("p.id", int32(id))
	}
	return SimilarityGT("p.site_path", *term, SimilarityFloor)
}

// searchCount: the count side matches the same numeric short-circuit but uses
// a broader case-insensitive substring/prefix/suffix net over title and
// street.
func searchCount(term *string) Expr {
	if term == nil {
		return nil
	}
	if id, err := strconv.ParseInt(*term, 10, 32); err == nil {
		return Eq("p.id", int32(id))
	}
	return Or(
		ILike("p.title", "%"+*term),
		ILike("p.title", "%"+*term+"%"),
		ILike("p.title", *term+"%"),
		ILike("p.street", "%"+*term),
		ILike("p.street", "%"+*term+"%"),
		ILike("p.street", *term+"%"),
	)
}

// limitOffset converts (page, limit) into the retrieval decoration. No limit
// means the whole result set. Callers are expected to have rejected
// non-positive values already.
func limitOffset(f *model.PropertyFilter) (*int64, int64) {
	if f.Limit == nil {
		return nil, 0
	}
	if f.Page != nil {
		return f.Limit, (*f.Page - 1) * *f.Limit
	}
	return f.Limit, 0
}

// Clauses renders everything after the FROM/JOIN block: WHERE, ORDER BY and
// LIMIT/OFFSET, with one shared positional-argument sequence. When slug
// deduplication is active the ORDER BY must lead with the DISTINCT ON
// expression, so site_path is prefixed if the resolved order does not already
// start there.
func (s Spec) Clauses() (string, []any) {
	w := &writer{}
	if s.Where != nil {
		w.sb.WriteString(" WHERE ")
		s.Where.appendSQL(w)
	}
	w.sb.WriteString(" ORDER BY ")
	if s.DistinctOnSlug && !s.Order.leadsWithSitePath() {
		w.sb.WriteString("p.site_path ASC, ")
	}
	s.Order.appendSQL(w)
	if s.Limit != nil {
		fmt.Fprintf(&w.sb, " LIMIT %d OFFSET %d", *s.Limit, s.Offset)
	}
	return w.sb.String(), w.args
}
