package repository

import (
	"context"
	"fmt"
	"time"
)

// RecordUsage фиксирует израсходованное сообщение пользователя и возвращает ID записи.
func (s *Storage) RecordUsage(ctx context.Context, userUID string) (int, error) {
	const op = "storage.RecordUsage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO usage_records (user_uid)
			  VALUES ($1)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CountUsageSince подсчитывает количество сообщений пользователя с указанного момента.
func (s *Storage) CountUsageSince(ctx context.Context, userUID string, since time.Time) (int, error) {
	const op = "storage.CountUsageSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM usage_records
			  WHERE user_uid = $1 AND created_at >= $2`
	var count int
	err := s.DB.QueryRowContext(ctx, query, userUID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
