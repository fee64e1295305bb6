package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePurchaseStatus(t *testing.T) {
	for _, s := range []string{"for_sale", "for_rent", "for_sale_or_rent"} {
		got, err := ParsePurchaseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, PurchaseStatus(s), got)
	}

	_, err := ParsePurchaseStatus("leasehold")
	assert.Error(t, err)
	_, err = ParsePurchaseStatus("")
	assert.Error(t, err)
}

func TestPurchaseStatusSlug(t *testing.T) {
	assert.Equal(t, "for-sale", ForSale.Slug())
	assert.Equal(t, "for-rent", ForRent.Slug())
	assert.Equal(t, "for-sale-or-rent", ForSaleOrRent.Slug())
}

func TestParseSoldStatus(t *testing.T) {
	got, err := ParseSoldStatus("available")
	require.NoError(t, err)
	assert.Equal(t, SoldAvailable, got)

	_, err = ParseSoldStatus("Available")
	assert.Error(t, err, "wire encoding is case sensitive")
}

func TestParseAgentRole(t *testing.T) {
	for _, s := range []string{"admin", "agent"} {
		got, err := ParseAgentRole(s)
		require.NoError(t, err)
		assert.Equal(t, AgentRole(s), got)
	}
	_, err := ParseAgentRole("superuser")
	assert.Error(t, err)
}

func TestParseSortKey(t *testing.T) {
	got, err := ParseSortKey("LowestPrice")
	require.NoError(t, err)
	assert.Equal(t, SortLowestPrice, got)

	got, err = ParseSortKey("HighestPrice")
	require.NoError(t, err)
	assert.Equal(t, SortHighestPrice, got)

	_, err = ParseSortKey("lowestprice")
	assert.Error(t, err)
}

func TestParseOptionalEnums(t *testing.T) {
	_, err := ParseBuildingCondition("new")
	assert.NoError(t, err)
	_, err = ParseBuildingCondition("old")
	assert.Error(t, err)

	_, err = ParseFurnitureCapacity("semi_furnished")
	assert.NoError(t, err)
	_, err = ParseFurnitureCapacity("semi")
	assert.Error(t, err)

	_, err = ParseSoldChannel("office")
	assert.NoError(t, err)
	_, err = ParseSoldChannel("phone")
	assert.Error(t, err)

	_, err = ParseCurrency("idr")
	assert.NoError(t, err)
	_, err = ParseCurrency("IDR")
	assert.Error(t, err)

	_, err = ParseRentTime("yearly")
	assert.NoError(t, err)
	_, err = ParseRentTime("weekly")
	assert.Error(t, err)
}
