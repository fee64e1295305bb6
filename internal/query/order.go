package query

import (
	"strconv"

	"estatehub-backend/internal/model"
)

// Order is the resolved result ordering. The similarity variant carries the
// search term because it becomes a query parameter when rendered.
type Order struct {
	sql  string // static ORDER BY fragment, empty for the similarity variant
	term string // search term for slug-grouped similarity ordering
}

func (o Order) appendSQL(w *writer) {
	if o.term != "" {
		w.sb.WriteString("p.site_path ASC, similarity(p.site_path, ")
		w.sb.WriteString(w.placeholder(o.term))
		w.sb.WriteString(") DESC")
		return
	}
	w.sb.WriteString(o.sql)
}

func (o Order) leadsWithSitePath() bool {
	return o.term != "" || o.sql == "p.site_path ASC"
}

// ResolveOrder picks the result ordering, first match wins:
//
//  1. explicit sort key: price ascending or descending
//  2. non-numeric search term: slug grouping, best similarity first in group
//  3. numeric search term (id lookup): id descending
//  4. otherwise: id descending, newest listings first
func ResolveOrder(f *model.PropertyFilter) Order {
	if f.Sort != nil {
		if *f.Sort == model.SortLowestPrice {
			return Order{sql: "p.price ASC"}
		}
		return Order{sql: "p.price DESC"}
	}
	if f.Search != nil {
		if _, err := strconv.ParseInt(*f.Search, 10, 32); err != nil {
			return Order{term: *f.Search}
		}
	}
	return Order{sql: "p.id DESC"}
}
