package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanIsBundle(t *testing.T) {
	bundle := &Plan{Name: "Ultimate Expert", Category: PlanCategoryBundles}
	assert.True(t, bundle.IsBundle())

	single := &Plan{Name: "Bollinger-Pro", Category: PlanCategoryBots}
	assert.False(t, single.IsBundle())

	// a bot plan entitling several bots counts as a bundle too
	multi := &Plan{
		Name:         "Bollinger-Pro",
		Category:     PlanCategoryBots,
		IncludedBots: StringList{"Bollinger-Pro", "Timer-Pro"},
	}
	assert.True(t, multi.IsBundle())
}

func TestPlanPriceFor(t *testing.T) {
	p := &Plan{PriceMonthly: 29.99, PriceYearly: 299.90}

	assert.Equal(t, 29.99, p.PriceFor("month"))
	assert.Equal(t, 299.90, p.PriceFor("year"))
	// unknown intervals fall back to monthly
	assert.Equal(t, 29.99, p.PriceFor(""))
}

func TestPlanValidate(t *testing.T) {
	valid := &Plan{Name: "Timer-Starter", Category: PlanCategoryBots, PriceMonthly: 9.99}
	assert.NoError(t, valid.Validate())

	noName := &Plan{Category: PlanCategoryBots}
	assert.Error(t, noName.Validate())

	negative := &Plan{Name: "Timer-Starter", Category: PlanCategoryBots, PriceMonthly: -1}
	assert.Error(t, negative.Validate())
}

func TestStringListScanValue(t *testing.T) {
	list := StringList{"Bollinger-Pro", "Timer-Pro"}
	val, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Bollinger-Pro","Timer-Pro"]`, val)

	var scanned StringList
	require.NoError(t, scanned.Scan([]byte(`["Bollinger-Pro","Timer-Pro"]`)))
	assert.Equal(t, list, scanned)

	var fromString StringList
	require.NoError(t, fromString.Scan(`["MVRV-Starter"]`))
	assert.Equal(t, StringList{"MVRV-Starter"}, fromString)

	var fromNil StringList
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)

	assert.Error(t, scanned.Scan(42))
}

func TestStringListValueEmpty(t *testing.T) {
	var empty StringList
	val, err := empty.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", val)
}

func TestStringListContains(t *testing.T) {
	list := StringList{"Bollinger-Pro"}
	assert.True(t, list.Contains("Bollinger-Pro"))
	assert.False(t, list.Contains("bollinger-pro"))
	assert.False(t, list.Contains(""))
}
