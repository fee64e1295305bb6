package service

// TotalPages derives the page count reported alongside search results. With
// no limit the whole result set is one page. The historical formula
// total/limit + 1 is kept as-is; it reports one extra page when the total is
// an exact multiple of the limit, and consumers depend on that.
func TotalPages(total int64, limit *int64) int64 {
	if limit == nil {
		return 1
	}
	return total / *limit + 1
}
