package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Rrens/thai-travel-share/internal/domain"
)

const provinceColumns = `
	id, name_th, name_en, region, is_secondary_province,
	tax_reduction_percentage, description
`

// ProvinceRepository reads the province catalog
type ProvinceRepository struct {
	db *DB
}

// NewProvinceRepository creates a new province repository
func NewProvinceRepository(db *DB) *ProvinceRepository {
	return &ProvinceRepository{db: db}
}

// List returns every province, highest tax reduction first, then by Thai name
func (r *ProvinceRepository) List(ctx context.Context) ([]domain.Province, error) {
	query := `
		SELECT ` + provinceColumns + `
		FROM provinces
		ORDER BY tax_reduction_percentage DESC, name_th
	`

	rows, err := r.db.q(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list provinces: %w", err)
	}
	defer rows.Close()

	provinces := []domain.Province{}
	for rows.Next() {
		var p domain.Province
		if err := scanProvince(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan province: %w", err)
		}
		provinces = append(provinces, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list provinces: %w", err)
	}

	return provinces, nil
}

// GetByID retrieves a province by ID
func (r *ProvinceRepository) GetByID(ctx context.Context, id int) (*domain.Province, error) {
	query := `SELECT ` + provinceColumns + ` FROM provinces WHERE id = $1`

	var p domain.Province
	if err := scanProvince(r.db.q(ctx).QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get province: %w", err)
	}

	return &p, nil
}

func scanProvince(row pgx.Row, p *domain.Province) error {
	return row.Scan(
		&p.ID,
		&p.NameTH,
		&p.NameEN,
		&p.Region,
		&p.IsSecondaryProvince,
		&p.TaxReductionPercentage,
		&p.Description,
	)
}
