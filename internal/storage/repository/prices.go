package repository

import (
	"context"
	"fmt"

	"github.com/CloudEngineHub/onlook/internal/models"
)

// GetPrice возвращает тариф по его идентификатору у провайдера.
func (s *Storage) GetPrice(ctx context.Context, priceID string) (*models.Price, error) {
	const op = "storage.GetPrice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, product_id, key, monthly_message_limit, daily_message_limit
			  FROM prices
			  WHERE id = $1`
	var p models.Price
	row := s.DB.QueryRowContext(ctx, query, priceID)
	if err := row.Scan(&p.ID, &p.ProductID, &p.Key, &p.MonthlyMessageLimit, &p.DailyMessageLimit); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// GetPriceByKey возвращает тариф по его ключу (free, pro, ...).
func (s *Storage) GetPriceByKey(ctx context.Context, key string) (*models.Price, error) {
	const op = "storage.GetPriceByKey"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, product_id, key, monthly_message_limit, daily_message_limit
			  FROM prices
			  WHERE key = $1`
	var p models.Price
	row := s.DB.QueryRowContext(ctx, query, key)
	if err := row.Scan(&p.ID, &p.ProductID, &p.Key, &p.MonthlyMessageLimit, &p.DailyMessageLimit); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// ListPrices возвращает все тарифы.
func (s *Storage) ListPrices(ctx context.Context) ([]*models.Price, error) {
	const op = "storage.ListPrices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, product_id, key, monthly_message_limit, daily_message_limit
			  FROM prices
			  ORDER BY monthly_message_limit`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Price
	for rows.Next() {
		var p models.Price
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Key, &p.MonthlyMessageLimit, &p.DailyMessageLimit); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
