package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

const fundColumns = `scheme_name, amc_name, category, return_1yr, return_3yr, return_5yr,
	risk_level, rating, expense_ratio, fund_size, fund_age,
	sharpe, sortino, alpha, beta, standard_deviation, stability_score`

// fundRepository implements domain.FundRepository
type fundRepository struct {
	db *DB
}

// NewFundRepository creates a new fund repository
func NewFundRepository(db *DB) domain.FundRepository {
	return &fundRepository{db: db}
}

// LoadFunds retrieves every stored fund ordered by scheme name
func (r *fundRepository) LoadFunds(ctx context.Context) ([]*domain.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM funds ORDER BY scheme_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}
	defer rows.Close()

	funds := make([]*domain.Fund, 0)
	for rows.Next() {
		var f domain.Fund
		var category string
		err := rows.Scan(
			&f.SchemeName,
			&f.AMCName,
			&category,
			&f.Return1Yr,
			&f.Return3Yr,
			&f.Return5Yr,
			&f.RiskLevel,
			&f.Rating,
			&f.ExpenseRatio,
			&f.FundSize,
			&f.FundAge,
			&f.Sharpe,
			&f.Sortino,
			&f.Alpha,
			&f.Beta,
			&f.StandardDeviation,
			&f.StabilityScore,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund: %w", err)
		}

		f.Category, err = domain.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("fund %q: failed to parse category: %w", f.SchemeName, err)
		}
		funds = append(funds, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate funds: %w", err)
	}

	return funds, nil
}

// Exists reports whether a fund with the scheme name is stored
func (r *fundRepository) Exists(ctx context.Context, schemeName string) (bool, error) {
	query := r.db.rebind(`SELECT 1 FROM funds WHERE scheme_name = $1`)

	var one int
	err := r.db.QueryRowContext(ctx, query, schemeName).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check fund: %w", err)
	}
	return true, nil
}

// Create stores a new fund
func (r *fundRepository) Create(ctx context.Context, f *domain.Fund) error {
	query := r.db.rebind(`
		INSERT INTO funds (` + fundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`)

	_, err := r.db.ExecContext(ctx, query,
		f.SchemeName,
		f.AMCName,
		string(f.Category),
		f.Return1Yr,
		f.Return3Yr,
		f.Return5Yr,
		f.RiskLevel,
		f.Rating,
		f.ExpenseRatio,
		f.FundSize,
		f.FundAge,
		f.Sharpe,
		f.Sortino,
		f.Alpha,
		f.Beta,
		f.StandardDeviation,
		f.StabilityScore,
	)
	if err != nil {
		return fmt.Errorf("failed to create fund: %w", err)
	}

	return nil
}
