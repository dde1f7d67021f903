package postgres

import (
	"context"

	"github.com/reliwe/storefront/internal/models"
)

// FindActiveByIDs returns active products among the given ids, keyed
// by id. Missing or inactive products are simply absent.
func (s *Store) FindActiveByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	if len(ids) == 0 {
		return map[int64]models.Product{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, price, image, status FROM products
		WHERE id = ANY($1) AND status = 'active'`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[int64]models.Product, len(ids))
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Status); err != nil {
			return nil, err
		}
		found[p.ID] = p
	}
	return found, rows.Err()
}

// ListActive returns all sellable products.
func (s *Store) ListActive(ctx context.Context) ([]models.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, price, image, status FROM products
		WHERE status = 'active' ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Status); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
