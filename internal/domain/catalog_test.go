package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	a := validFund()
	b := validFund()
	b.SchemeName = "HDFC Short Term Debt Fund"
	b.AMCName = "HDFC Mutual Fund"
	b.Category = CategoryDebt

	catalog, err := NewCatalog([]*Fund{&a, &b})
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	f, err := catalog.Lookup("HDFC Short Term Debt Fund")
	require.NoError(t, err)
	assert.Equal(t, CategoryDebt, f.Category)

	_, err = catalog.Lookup("Missing Fund")
	assert.ErrorIs(t, err, ErrFundNotFound)

	assert.Equal(t, []string{"Axis Mutual Fund", "HDFC Mutual Fund"}, catalog.AMCs())
	assert.Equal(t, map[Category]int{CategoryEquity: 1, CategoryDebt: 1}, catalog.CategoryCounts())
}

func TestNewCatalog_IsolatedFromCaller(t *testing.T) {
	a := validFund()
	catalog, err := NewCatalog([]*Fund{&a})
	require.NoError(t, err)

	a.Return3Yr = -99

	f, err := catalog.Lookup(a.SchemeName)
	require.NoError(t, err)
	assert.Equal(t, 12.1, f.Return3Yr)
}

func TestNewCatalog_Errors(t *testing.T) {
	dup := validFund()
	bad := validFund()
	bad.SchemeName = "Bad Fund"
	bad.Rating = 9

	tests := []struct {
		name   string
		funds  []*Fund
		errMsg string
	}{
		{name: "empty", funds: nil, errMsg: "catalog has no funds"},
		{name: "nil row", funds: []*Fund{nil}, errMsg: "row 1 is empty"},
		{name: "duplicate", funds: []*Fund{&dup, &dup}, errMsg: "duplicate scheme name"},
		{name: "invalid row", funds: []*Fund{&dup, &bad}, errMsg: "row 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.funds)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDataUnavailable)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCatalog_Filter(t *testing.T) {
	a := validFund()
	b := validFund()
	b.SchemeName = "Other"
	b.RiskLevel = 6

	catalog, err := NewCatalog([]*Fund{&a, &b})
	require.NoError(t, err)

	high := catalog.Filter(func(f *Fund) bool { return f.RiskLevel >= 5 })
	require.Len(t, high, 1)
	assert.Equal(t, "Other", high[0].SchemeName)
}
