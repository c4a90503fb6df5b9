package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

const (
	columnSchemeName = "scheme_name"
	columnAMCName    = "amc_name"
	categoryPrefix   = "category_"
)

// Columns returns the header every dataset must carry, in canonical order
func Columns() []string {
	cols := []string{columnSchemeName, columnAMCName}
	cols = append(cols, domain.MetricNames...)
	for _, c := range domain.Categories {
		cols = append(cols, CategoryColumn(c))
	}
	return cols
}

// CategoryColumn returns the one-hot flag column of a category, e.g. "category_equity"
func CategoryColumn(c domain.Category) string {
	return categoryPrefix + strings.ToLower(string(c))
}

// Source loads the fund dataset from a CSV file
type Source struct {
	path string
}

// NewSource creates a new CSV fund source
func NewSource(path string) *Source {
	return &Source{path: path}
}

// LoadFunds reads and validates every row of the dataset
func (s *Source) LoadFunds(ctx context.Context) ([]*domain.Fund, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Read(ctx, f)
}

// Read parses a dataset. Extra columns are ignored; a missing column fails the whole load.
func Read(ctx context.Context, r io.Reader) ([]*domain.Fund, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	funds := make([]*domain.Fund, 0)
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		fund, err := parseRecord(record, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		funds = append(funds, fund)
	}

	return funds, nil
}

func indexHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range Columns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("dataset schema mismatch: missing columns %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRecord(record []string, index map[string]int) (*domain.Fund, error) {
	field := func(col string) string {
		return strings.TrimSpace(record[index[col]])
	}

	metrics := make(map[string]float64, len(domain.MetricNames))
	for _, name := range domain.MetricNames {
		v, err := strconv.ParseFloat(field(name), 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: invalid number %q", name, field(name))
		}
		metrics[name] = v
	}

	category, err := parseCategory(field)
	if err != nil {
		return nil, err
	}

	return &domain.Fund{
		SchemeName:        field(columnSchemeName),
		AMCName:           field(columnAMCName),
		Category:          category,
		Return1Yr:         metrics["return_1yr"],
		Return3Yr:         metrics["return_3yr"],
		Return5Yr:         metrics["return_5yr"],
		RiskLevel:         int(metrics["risk_level"]),
		Rating:            int(metrics["rating"]),
		ExpenseRatio:      metrics["expense_ratio"],
		FundSize:          metrics["fund_size"],
		FundAge:           metrics["fund_age"],
		Sharpe:            metrics["sharpe"],
		Sortino:           metrics["sortino"],
		Alpha:             metrics["alpha"],
		Beta:              metrics["beta"],
		StandardDeviation: metrics["standard_deviation"],
		StabilityScore:    metrics["stability_score"],
	}, nil
}

// parseCategory folds the one-hot flags into a single category; exactly one flag must be set
func parseCategory(field func(string) string) (domain.Category, error) {
	var found []domain.Category
	for _, c := range domain.Categories {
		set, err := parseFlag(field(CategoryColumn(c)))
		if err != nil {
			return "", fmt.Errorf("column %s: %w", CategoryColumn(c), err)
		}
		if set {
			found = append(found, c)
		}
	}

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return "", errors.New("no category flag set")
	default:
		return "", fmt.Errorf("multiple category flags set: %v", found)
	}
}

func parseFlag(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "1", "1.0":
		return true, nil
	case "false", "0", "0.0", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid flag %q", v)
	}
}
