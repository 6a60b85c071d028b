package product

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	createHelmetTable = `
		CREATE TABLE IF NOT EXISTS helmet (
			product_id TEXT PRIMARY KEY,
			product_name TEXT,
			product_desc TEXT,
			product_price BIGINT NOT NULL DEFAULT 0,
			product_img TEXT,
			rating NUMERIC(2,1),
			stock INT,
			weight TEXT,
			colors TEXT[],
			features TEXT[],
			ord INT
		)
	`
	listHelmetsQuery = `
		SELECT product_id, product_name, product_desc, product_price, product_img,
		       rating, stock, weight, colors, features
		FROM helmet
		ORDER BY COALESCE(ord, 0) DESC, product_id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the helmet table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema() error {
	if _, err := r.db.Exec(createHelmetTable); err != nil {
		return fmt.Errorf("create helmet table: %w", err)
	}
	return nil
}

// List reads the whole helmet table. Nullable text and numeric columns map to
// zero values so a sparse row still produces a usable product.
func (r *PostgresRepository) List() ([]Product, error) {
	rows, err := r.db.Query(listHelmetsQuery)
	if err != nil {
		return nil, fmt.Errorf("query helmets: %w", err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		var (
			p        Product
			name     sql.NullString
			desc     sql.NullString
			img      sql.NullString
			rating   sql.NullFloat64
			stock    sql.NullInt64
			weight   sql.NullString
			colors   []string
			features []string
		)
		if err := rows.Scan(&p.ID, &name, &desc, &p.Price, &img, &rating, &stock, &weight, pq.Array(&colors), pq.Array(&features)); err != nil {
			return nil, fmt.Errorf("scan helmet: %w", err)
		}
		p.Name = name.String
		p.Description = desc.String
		p.Image = img.String
		p.Rating = rating.Float64
		p.Stock = int(stock.Int64)
		p.Weight = weight.String
		p.Colors = colors
		p.Features = features
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate helmets: %w", err)
	}
	return out, nil
}
