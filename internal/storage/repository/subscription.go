package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/CloudEngineHub/onlook/internal/models"
)

const subscriptionColumns = `id, user_uid, product_id, price_id, status,
		      started_at, updated_at, ended_at,
		      customer_id, provider_subscription_id, provider_item_id, schedule_id,
		      period_start, period_end,
		      scheduled_action, scheduled_price_id, scheduled_change_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var sub models.Subscription
	var endedAt, scheduledChangeAt sql.NullTime
	var scheduleID, scheduledAction, scheduledPriceID sql.NullString

	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.ProductID, &sub.PriceID, &sub.Status,
		&sub.StartedAt, &sub.UpdatedAt, &endedAt,
		&sub.CustomerID, &sub.ProviderSubscriptionID, &sub.ProviderItemID, &scheduleID,
		&sub.PeriodStart, &sub.PeriodEnd,
		&scheduledAction, &scheduledPriceID, &scheduledChangeAt); err != nil {
		return nil, err
	}

	if endedAt.Valid {
		sub.EndedAt = &endedAt.Time
	}
	if scheduleID.Valid {
		sub.ScheduleID = &scheduleID.String
	}
	if scheduledAction.Valid {
		action := models.ScheduledAction(scheduledAction.String)
		sub.ScheduledAction = &action
	}
	if scheduledPriceID.Valid {
		sub.ScheduledPriceID = &scheduledPriceID.String
	}
	if scheduledChangeAt.Valid {
		sub.ScheduledChangeAt = &scheduledChangeAt.Time
	}
	return &sub, nil
}

// CreateSubscription вставляет новую запись подписки и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, product_id, price_id, status,
			      customer_id, provider_subscription_id, provider_item_id,
			      period_start, period_end)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.ProductID, sub.PriceID, sub.Status,
		sub.CustomerID, sub.ProviderSubscriptionID, sub.ProviderItemID,
		sub.PeriodStart, sub.PeriodEnd).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetSubscriptionByUser возвращает последнюю незавершённую подписку пользователя.
func (s *Storage) GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_uid = $1 AND status != $2
			  ORDER BY started_at DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, userUID, models.SubscriptionCanceled)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetSubscriptionByProviderID возвращает подписку по идентификатору подписки у провайдера.
func (s *Storage) GetSubscriptionByProviderID(ctx context.Context, providerSubscriptionID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByProviderID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE provider_subscription_id = $1`
	row := s.DB.QueryRowContext(ctx, query, providerSubscriptionID)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// UpdateSubscriptionPeriod обновляет статус и границы расчётного периода подписки.
func (s *Storage) UpdateSubscriptionPeriod(ctx context.Context, providerSubscriptionID string,
	status models.SubscriptionStatus, periodStart, periodEnd time.Time) (int, error) {
	const op = "storage.UpdateSubscriptionPeriod"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1, period_start = $2, period_end = $3, updated_at = NOW()
			  WHERE provider_subscription_id = $4`
	result, err := s.DB.ExecContext(ctx, query, status, periodStart, periodEnd, providerSubscriptionID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateSubscriptionPrice меняет текущий тариф подписки.
func (s *Storage) UpdateSubscriptionPrice(ctx context.Context, id, priceID string) (int, error) {
	const op = "storage.UpdateSubscriptionPrice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET price_id = $1, updated_at = NOW()
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, priceID, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetScheduleID сохраняет идентификатор расписания, созданного у провайдера.
func (s *Storage) SetScheduleID(ctx context.Context, id, scheduleID string) error {
	const op = "storage.SetScheduleID"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET schedule_id = $1, updated_at = NOW()
			  WHERE id = $2`
	_, err := s.DB.ExecContext(ctx, query, scheduleID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetScheduledChange сохраняет проекцию отложенного изменения подписки.
// Для price_change обязателен scheduledPriceID, для cancellation он равен nil.
func (s *Storage) SetScheduledChange(ctx context.Context, id string, action models.ScheduledAction,
	scheduledPriceID *string, changeAt time.Time) error {
	const op = "storage.SetScheduledChange"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET scheduled_action = $1, scheduled_price_id = $2, scheduled_change_at = $3,
			      updated_at = NOW()
			  WHERE id = $4`
	_, err := s.DB.ExecContext(ctx, query, action, scheduledPriceID, changeAt, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClearScheduledChange снимает проекцию отложенного изменения и отвязывает расписание.
func (s *Storage) ClearScheduledChange(ctx context.Context, id string) error {
	const op = "storage.ClearScheduledChange"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET scheduled_action = NULL, scheduled_price_id = NULL, scheduled_change_at = NULL,
			      schedule_id = NULL, updated_at = NOW()
			  WHERE id = $1`
	_, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CancelSubscription переводит подписку в статус canceled и фиксирует момент завершения.
func (s *Storage) CancelSubscription(ctx context.Context, providerSubscriptionID string, endedAt time.Time) (int, error) {
	const op = "storage.CancelSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1, ended_at = $2, updated_at = NOW()
			  WHERE provider_subscription_id = $3`
	result, err := s.DB.ExecContext(ctx, query, models.SubscriptionCanceled, endedAt, providerSubscriptionID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindDueScheduledChanges находит подписки, у которых наступил момент отложенного изменения.
func (s *Storage) FindDueScheduledChanges(ctx context.Context, now time.Time) ([]*models.Subscription, error) {
	const op = "storage.FindDueScheduledChanges"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE scheduled_action IS NOT NULL
			    AND scheduled_change_at <= $1
			    AND status != $2`
	rows, err := s.DB.QueryContext(ctx, query, now, models.SubscriptionCanceled)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
