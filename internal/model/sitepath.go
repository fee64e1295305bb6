package model

import "strings"

// BuildSitePath derives the canonical listing slug from purchase status,
// building type and location. It is computed at write time only; reads never
// recompute it.
func BuildSitePath(purchase PurchaseStatus, buildingType, province, regency, street string) string {
	return "/" + purchase.Slug() +
		"/" + Slugify(buildingType) +
		"/" + Slugify(province) +
		"/" + Slugify(regency) +
		"/" + Slugify(street)
}

// Slugify lowercases, trims and hyphenates a path segment.
func Slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
