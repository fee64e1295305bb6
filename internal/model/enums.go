package model

import "fmt"

// Closed enum types with explicit wire encodings. The database stores the same
// strings under CHECK constraints, but parsing here is the authoritative guard.

type AgentRole string

const (
	RoleAdmin AgentRole = "admin"
	RoleAgent AgentRole = "agent"
)

func ParseAgentRole(s string) (AgentRole, error) {
	switch AgentRole(s) {
	case RoleAdmin, RoleAgent:
		return AgentRole(s), nil
	}
	return "", fmt.Errorf("invalid agent role %q", s)
}

type PurchaseStatus string

const (
	ForSale       PurchaseStatus = "for_sale"
	ForRent       PurchaseStatus = "for_rent"
	ForSaleOrRent PurchaseStatus = "for_sale_or_rent"
)

func ParsePurchaseStatus(s string) (PurchaseStatus, error) {
	switch PurchaseStatus(s) {
	case ForSale, ForRent, ForSaleOrRent:
		return PurchaseStatus(s), nil
	}
	return "", fmt.Errorf("invalid purchase status %q", s)
}

// Slug is the URL form used in site paths.
func (p PurchaseStatus) Slug() string {
	switch p {
	case ForSale:
		return "for-sale"
	case ForRent:
		return "for-rent"
	default:
		return "for-sale-or-rent"
	}
}

type SoldStatus string

const (
	SoldAvailable SoldStatus = "available"
	SoldSold      SoldStatus = "sold"
)

func ParseSoldStatus(s string) (SoldStatus, error) {
	switch SoldStatus(s) {
	case SoldAvailable, SoldSold:
		return SoldStatus(s), nil
	}
	return "", fmt.Errorf("invalid sold status %q", s)
}

type BuildingCondition string

const (
	ConditionNew    BuildingCondition = "new"
	ConditionSecond BuildingCondition = "second"
)

func ParseBuildingCondition(s string) (BuildingCondition, error) {
	switch BuildingCondition(s) {
	case ConditionNew, ConditionSecond:
		return BuildingCondition(s), nil
	}
	return "", fmt.Errorf("invalid building condition %q", s)
}

type FurnitureCapacity string

const (
	Furnished     FurnitureCapacity = "furnished"
	SemiFurnished FurnitureCapacity = "semi_furnished"
	Unfurnished   FurnitureCapacity = "unfurnished"
)

func ParseFurnitureCapacity(s string) (FurnitureCapacity, error) {
	switch FurnitureCapacity(s) {
	case Furnished, SemiFurnished, Unfurnished:
		return FurnitureCapacity(s), nil
	}
	return "", fmt.Errorf("invalid furniture capacity %q", s)
}

type SoldChannel string

const (
	SoldViaOffice   SoldChannel = "office"
	SoldViaPersonal SoldChannel = "personal"
)

func ParseSoldChannel(s string) (SoldChannel, error) {
	switch SoldChannel(s) {
	case SoldViaOffice, SoldViaPersonal:
		return SoldChannel(s), nil
	}
	return "", fmt.Errorf("invalid sold channel %q", s)
}

type Currency string

const (
	CurrencyIDR Currency = "idr"
	CurrencyUSD Currency = "usd"
)

func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyIDR, CurrencyUSD:
		return Currency(s), nil
	}
	return "", fmt.Errorf("invalid currency %q", s)
}

type RentTime string

const (
	RentMonthly RentTime = "monthly"
	RentYearly  RentTime = "yearly"
)

func ParseRentTime(s string) (RentTime, error) {
	switch RentTime(s) {
	case RentMonthly, RentYearly:
		return RentTime(s), nil
	}
	return "", fmt.Errorf("invalid rent time %q", s)
}

type SortKey string

const (
	SortLowestPrice  SortKey = "LowestPrice"
	SortHighestPrice SortKey = "HighestPrice"
)

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortLowestPrice, SortHighestPrice:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("invalid sort key %q", s)
}
