package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

const header = "scheme_name,amc_name,return_1yr,return_3yr,return_5yr,risk_level,rating,expense_ratio,fund_size,fund_age," +
	"sharpe,sortino,alpha,beta,standard_deviation,stability_score,category_equity,category_debt,category_hybrid,category_other"

func row(name, flags string) string {
	return name + ",AMC A,10.5,14.2,12.1,4,5,0.75,1500,8.5,1.4,1.9,2.1,0.95,13.2,0.6," + flags
}

func TestColumns(t *testing.T) {
	assert.Equal(t, strings.Split(header, ","), Columns())
}

func TestRead(t *testing.T) {
	data := strings.Join([]string{
		header,
		row("Fund One", "True,False,False,False"),
		row("Fund Two", "0,1,0,0"),
		row("Fund Three", "false,false,true,false"),
	}, "\n")

	funds, err := Read(context.Background(), strings.NewReader(data))

	require.NoError(t, err)
	require.Len(t, funds, 3)

	f := funds[0]
	assert.Equal(t, "Fund One", f.SchemeName)
	assert.Equal(t, "AMC A", f.AMCName)
	assert.Equal(t, domain.CategoryEquity, f.Category)
	assert.Equal(t, 10.5, f.Return1Yr)
	assert.Equal(t, 14.2, f.Return3Yr)
	assert.Equal(t, 4, f.RiskLevel)
	assert.Equal(t, 5, f.Rating)
	assert.Equal(t, 0.75, f.ExpenseRatio)
	assert.Equal(t, 1.4, f.Sharpe)
	assert.Equal(t, 0.6, f.StabilityScore)

	assert.Equal(t, domain.CategoryDebt, funds[1].Category)
	assert.Equal(t, domain.CategoryHybrid, funds[2].Category)
}

func TestRead_ExtraColumnsAndOrder(t *testing.T) {
	cols := strings.Split(header, ",")
	// reversed header plus an unknown column
	reversed := make([]string, 0, len(cols)+1)
	for i := len(cols) - 1; i >= 0; i-- {
		reversed = append(reversed, cols[i])
	}
	reversed = append(reversed, "notes")

	values := strings.Split(row("Fund One", "False,False,False,True"), ",")
	rev := make([]string, 0, len(values)+1)
	for i := len(values) - 1; i >= 0; i-- {
		rev = append(rev, values[i])
	}
	rev = append(rev, "ignored")

	data := strings.Join(reversed, ",") + "\n" + strings.Join(rev, ",")
	funds, err := Read(context.Background(), strings.NewReader(data))

	require.NoError(t, err)
	require.Len(t, funds, 1)
	assert.Equal(t, "Fund One", funds[0].SchemeName)
	assert.Equal(t, domain.CategoryOther, funds[0].Category)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		expectedErr string
	}{
		{name: "empty", data: "", expectedErr: "dataset is empty"},
		{name: "missing column", data: strings.Replace(header, ",sharpe", "", 1) + "\n", expectedErr: "missing columns sharpe"},
		{name: "no category", data: header + "\n" + row("Fund", "0,0,0,0"), expectedErr: "line 2: no category flag set"},
		{name: "two categories", data: header + "\n" + row("Fund", "1,1,0,0"), expectedErr: "multiple category flags set"},
		{name: "bad flag", data: header + "\n" + row("Fund", "yes,0,0,0"), expectedErr: "invalid flag"},
		{name: "bad number", data: header + "\n" + strings.Replace(row("Fund", "1,0,0,0"), "10.5", "n/a", 1), expectedErr: "column return_1yr: invalid number"},
		{name: "short row", data: header + "\nFund,AMC", expectedErr: "failed to read line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			funds, err := Read(context.Background(), strings.NewReader(tt.data))

			assert.Nil(t, funds)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestSource_LoadFunds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funds.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"\n"+row("Fund One", "1,0,0,0")+"\n"), 0o600))

	funds, err := NewSource(path).LoadFunds(context.Background())

	require.NoError(t, err)
	assert.Len(t, funds, 1)

	_, err = NewSource(filepath.Join(t.TempDir(), "missing.csv")).LoadFunds(context.Background())
	assert.ErrorContains(t, err, "failed to open dataset")
}
