package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Expr is an immutable predicate node. The same tree backs both the fetch and
// the count query, so a filter cannot silently apply to one and not the other.
type Expr interface {
	appendSQL(w *writer)
}

// writer accumulates SQL text and positional arguments.
type writer struct {
	sb   strings.Builder
	args []any
}

func (w *writer) placeholder(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// Render turns an expression into a SQL fragment with positional parameters.
func Render(e Expr) (string, []any) {
	if e == nil {
		return "", nil
	}
	w := &writer{}
	e.appendSQL(w)
	return w.sb.String(), w.args
}

type eqExpr struct {
	col string
	val any
}

func (e eqExpr) appendSQL(w *writer) {
	w.sb.WriteString(e.col)
	w.sb.WriteString(" = ")
	w.sb.WriteString(w.placeholder(e.val))
}

// Eq constrains a column to exact equality.
func Eq(col string, val any) Expr { return eqExpr{col: col, val: val} }

type notEqExpr struct {
	col string
	val any
}

func (e notEqExpr) appendSQL(w *writer) {
	w.sb.WriteString(e.col)
	w.sb.WriteString(" <> ")
	w.sb.WriteString(w.placeholder(e.val))
}

func NotEq(col string, val any) Expr { return notEqExpr{col: col, val: val} }

type ilikeExpr struct {
	col     string
	pattern string
}

func (e ilikeExpr) appendSQL(w *writer) {
	w.sb.WriteString(e.col)
	w.sb.WriteString(" ILIKE ")
	w.sb.WriteString(w.placeholder(e.pattern))
}

// ILike is a case-insensitive pattern match; the pattern carries its own
// wildcards.
func ILike(col, pattern string) Expr { return ilikeExpr{col: col, pattern: pattern} }

type similarityExpr struct {
	col       string
	term      string
	threshold float64
}

func (e similarityExpr) appendSQL(w *writer) {
	w.sb.WriteString("similarity(")
	w.sb.WriteString(e.col)
	w.sb.WriteString(", ")
	w.sb.WriteString(w.placeholder(e.term))
	w.sb.WriteString(fmt.Sprintf(") > %g", e.threshold))
}

// SimilarityGT keeps rows whose pg_trgm similarity to term exceeds threshold.
func SimilarityGT(col, term string, threshold float64) Expr {
	return similarityExpr{col: col, term: term, threshold: threshold}
}

type containsJSONExpr struct {
	col string
	doc json.RawMessage
}

func (e containsJSONExpr) appendSQL(w *writer) {
	w.sb.WriteString(e.col)
	w.sb.WriteString(" @> ")
	w.sb.WriteString(w.placeholder(string(e.doc)))
	w.sb.WriteString("::jsonb")
}

// ContainsJSON tests JSONB containment of doc in col. doc must marshal
// cleanly; map and struct inputs always do.
func ContainsJSON(col string, doc any) Expr {
	raw, err := json.Marshal(doc)
	if err != nil {
		raw = []byte("{}")
	}
	return containsJSONExpr{col: col, doc: raw}
}

type andExpr []Expr

func (e andExpr) appendSQL(w *writer) { appendJoined(w, e, " AND ") }

type orExpr []Expr

func (e orExpr) appendSQL(w *writer) { appendJoined(w, e, " OR ") }

func appendJoined(w *writer, exprs []Expr, sep string) {
	for i, sub := range exprs {
		if i > 0 {
			w.sb.WriteString(sep)
		}
		if isComposite(sub) {
			w.sb.WriteString("(")
			sub.appendSQL(w)
			w.sb.WriteString(")")
		} else {
			sub.appendSQL(w)
		}
	}
}

func isComposite(e Expr) bool {
	switch e.(type) {
	case andExpr, orExpr:
		return true
	}
	return false
}

// And combines predicates. Nil children are skipped and nested conjunctions
// are spliced in, so stacking And calls yields one flat AND chain. Returns nil
// when nothing remains, so an unconstrained (admin) query stays unconstrained.
func And(exprs ...Expr) Expr {
	kept := gather(exprs, func(e Expr) ([]Expr, bool) {
		sub, ok := e.(andExpr)
		return sub, ok
	})
	return wrap(kept, func(k []Expr) Expr { return andExpr(k) })
}

// Or combines predicates; nil children are skipped and nested disjunctions
// are spliced in.
func Or(exprs ...Expr) Expr {
	kept := gather(exprs, func(e Expr) ([]Expr, bool) {
		sub, ok := e.(orExpr)
		return sub, ok
	})
	return wrap(kept, func(k []Expr) Expr { return orExpr(k) })
}

func gather(exprs []Expr, splice func(Expr) ([]Expr, bool)) []Expr {
	kept := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if sub, ok := splice(e); ok {
			kept = append(kept, sub...)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

func wrap(kept []Expr, build func([]Expr) Expr) Expr {
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return build(kept)
}
