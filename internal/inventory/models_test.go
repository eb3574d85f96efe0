package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMargin(t *testing.T) {
	s := SKU{CostPrice: decimal.RequireFromString("60"), SellPrice: decimal.RequireFromString("150")}
	assert.Equal(t, "60", s.Margin().String())

	free := SKU{CostPrice: decimal.RequireFromString("10"), SellPrice: decimal.Zero}
	assert.True(t, free.Margin().IsZero())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		qty  int
		want Level
	}{
		{0, LevelOutOfStock},
		{1, LevelLow},
		{15, LevelLow},
		{16, LevelHealthy},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.qty, 15), "qty=%d", c.qty)
	}
}

func TestInputValidate(t *testing.T) {
	ok := Input{CostPrice: decimal.RequireFromString("1.50"), SellPrice: decimal.RequireFromString("3")}
	assert.NoError(t, ok.Validate())

	bad := Input{CostPrice: decimal.RequireFromString("-1"), SellPrice: decimal.RequireFromString("3")}
	assert.Error(t, bad.Validate())
}

func TestSortColumnsWhitelist(t *testing.T) {
	for key, col := range sortColumns {
		assert.NotEmpty(t, col, key)
	}
	assert.Contains(t, sortColumns["margin"], "NULLIF")
}
