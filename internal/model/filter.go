package model

// PropertyFilter is the flat set of optional search parameters. A nil field
// means "do not constrain on this dimension". Fields combine with AND, except
// purchase status which also matches the for_sale_or_rent sentinel.
type PropertyFilter struct {
	Search         *string
	Province       *string
	Regency        *string
	Street         *string
	Page           *int64
	Limit          *int64
	IsPopular      *bool
	SoldStatus     *SoldStatus
	PurchaseStatus *PurchaseStatus
	BuildingType   *string
	Sort           *SortKey
	DeveloperID    *int32
}

// FindResponse is the search envelope: rows plus the unpaginated total and
// the derived page count.
type FindResponse struct {
	Data       []PropertyWithAgent `json:"data"`
	TotalData  int64               `json:"total_data"`
	TotalPages int64               `json:"total_pages"`
}

type AgentWithProperties struct {
	Agent      Agent               `json:"agent"`
	Properties []PropertyWithAgent `json:"properties"`
}
