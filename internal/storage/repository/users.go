package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/CloudEngineHub/onlook/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его ID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash, &u.Role); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash, &u.Role); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindBillingCustomerID находит идентификатор покупателя у провайдера для пользователя.
func (s *Storage) FindBillingCustomerID(ctx context.Context, userUID string) (string, bool, error) {
	const op = "storage.FindBillingCustomerID"
	select {
	case <-ctx.Done():
		return "", false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT customer_id FROM billing_customers WHERE user_uid = $1`
	var customerID string
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&customerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return customerID, true, nil
}

// FindUserUIDByCustomerID находит пользователя по идентификатору покупателя у провайдера.
func (s *Storage) FindUserUIDByCustomerID(ctx context.Context, customerID string) (string, error) {
	const op = "storage.FindUserUIDByCustomerID"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid FROM billing_customers WHERE customer_id = $1`
	var userUID string
	if err := s.DB.QueryRowContext(ctx, query, customerID).Scan(&userUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, nil
}

// SaveBillingCustomerID сохраняет связку пользователь-покупатель.
func (s *Storage) SaveBillingCustomerID(ctx context.Context, userUID, customerID string) error {
	const op = "storage.SaveBillingCustomerID"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO billing_customers (user_uid, customer_id)
			  VALUES ($1, $2)
			  ON CONFLICT (user_uid) DO NOTHING`
	_, err := s.DB.ExecContext(ctx, query, userUID, customerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
