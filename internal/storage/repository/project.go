package repository

import (
	"context"
	"fmt"

	"github.com/CloudEngineHub/onlook/internal/models"
)

// Размеры кадра по умолчанию для нового проекта.
const (
	defaultFrameWidth  = 1536
	defaultFrameHeight = 960
)

// CreateProject транзакционно создаёт проект со всеми дочерними сущностями:
// ролью владельца, холстом, настройками холста, кадром, диалогом и,
// если передан prompt, запросом на генерацию. Либо создаётся всё, либо ничего.
func (s *Storage) CreateProject(ctx context.Context, userUID string, dummy models.DummyProject, prompt *string) (*models.FullProject, error) {
	const op = "storage.CreateProject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var project models.Project
	query := `INSERT INTO projects (name, description, sandbox_url, preview_url)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, name, description, sandbox_url, preview_url, created_at, updated_at`
	if err := tx.QueryRowContext(ctx, query,
		dummy.Name, dummy.Description, dummy.SandboxURL, dummy.PreviewURL).Scan(
		&project.ID, &project.Name, &project.Description, &project.SandboxURL,
		&project.PreviewURL, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO project_roles (user_uid, project_id, role)
			 VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, query, userUID, project.ID, models.ProjectRoleOwner); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var canvas models.Canvas
	query = `INSERT INTO canvases (project_id)
			 VALUES ($1)
			 RETURNING id, project_id`
	if err := tx.QueryRowContext(ctx, query, project.ID).Scan(&canvas.ID, &canvas.ProjectID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO user_canvases (user_uid, canvas_id, scale, x, y)
			 VALUES ($1, $2, 1, 0, 0)`
	if _, err := tx.ExecContext(ctx, query, userUID, canvas.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var frame models.Frame
	query = `INSERT INTO frames (canvas_id, url, x, y, width, height)
			 VALUES ($1, $2, 0, 0, $3, $4)
			 RETURNING id, canvas_id, url, x, y, width, height`
	if err := tx.QueryRowContext(ctx, query, canvas.ID, dummy.SandboxURL,
		defaultFrameWidth, defaultFrameHeight).Scan(
		&frame.ID, &frame.CanvasID, &frame.URL, &frame.X, &frame.Y, &frame.Width, &frame.Height); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var conversation models.Conversation
	query = `INSERT INTO conversations (project_id, title)
			 VALUES ($1, '')
			 RETURNING id, project_id, title, created_at`
	if err := tx.QueryRowContext(ctx, query, project.ID).Scan(
		&conversation.ID, &conversation.ProjectID, &conversation.Title, &conversation.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if prompt != nil {
		query = `INSERT INTO creation_requests (project_id, prompt, status)
				 VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, query, project.ID, *prompt, models.CreationRequestPending); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.FullProject{
		Project:       project,
		Canvases:      []models.Canvas{canvas},
		Frames:        []models.Frame{frame},
		Conversations: []models.Conversation{conversation},
	}, nil
}

// RemoveProject удаляет проект пользователя и возвращает количество удалённых строк.
// Дочерние сущности удаляются каскадно на уровне базы данных.
func (s *Storage) RemoveProject(ctx context.Context, projectID, userUID string) (int, error) {
	const op = "storage.RemoveProject"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM projects
			  WHERE id = $1
			    AND EXISTS (
			        SELECT 1 FROM project_roles
			        WHERE project_id = $1 AND user_uid = $2 AND role = $3
			    )`
	result, err := s.DB.ExecContext(ctx, query, projectID, userUID, models.ProjectRoleOwner)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListProjects возвращает список проектов пользователя, свежие первыми.
func (s *Storage) ListProjects(ctx context.Context, userUID string) ([]*models.Project, error) {
	const op = "storage.ListProjects"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.name, p.description, p.sandbox_url, p.preview_url, p.created_at, p.updated_at
			  FROM projects p
			  JOIN project_roles r ON r.project_id = p.id
			  WHERE r.user_uid = $1
			  ORDER BY p.updated_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.SandboxURL,
			&p.PreviewURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPreviewProjects возвращает последние проекты пользователя для витрины.
func (s *Storage) ListPreviewProjects(ctx context.Context, userUID string, limit int) ([]*models.Project, error) {
	const op = "storage.ListPreviewProjects"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.name, p.description, p.sandbox_url, p.preview_url, p.created_at, p.updated_at
			  FROM projects p
			  JOIN project_roles r ON r.project_id = p.id
			  WHERE r.user_uid = $1
			  ORDER BY p.updated_at DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.SandboxURL,
			&p.PreviewURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetProject возвращает проект пользователя по его ID.
func (s *Storage) GetProject(ctx context.Context, projectID, userUID string) (*models.Project, error) {
	const op = "storage.GetProject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.name, p.description, p.sandbox_url, p.preview_url, p.created_at, p.updated_at
			  FROM projects p
			  JOIN project_roles r ON r.project_id = p.id
			  WHERE p.id = $1 AND r.user_uid = $2`
	var p models.Project
	row := s.DB.QueryRowContext(ctx, query, projectID, userUID)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.SandboxURL,
		&p.PreviewURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// GetFullProject возвращает проект вместе с холстами, кадрами и диалогами.
func (s *Storage) GetFullProject(ctx context.Context, projectID, userUID string) (*models.FullProject, error) {
	const op = "storage.GetFullProject"

	project, err := s.GetProject(ctx, projectID, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	full := &models.FullProject{Project: *project}

	query := `SELECT id, project_id FROM canvases WHERE project_id = $1 ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for rows.Next() {
		var c models.Canvas
		if err := rows.Scan(&c.ID, &c.ProjectID); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		full.Canvases = append(full.Canvases, c)
	}
	if err = rows.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = `SELECT f.id, f.canvas_id, f.url, f.x, f.y, f.width, f.height
			 FROM frames f
			 JOIN canvases c ON c.id = f.canvas_id
			 WHERE c.project_id = $1
			 ORDER BY f.id`
	rows, err = s.DB.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for rows.Next() {
		var f models.Frame
		if err := rows.Scan(&f.ID, &f.CanvasID, &f.URL, &f.X, &f.Y, &f.Width, &f.Height); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		full.Frames = append(full.Frames, f)
	}
	if err = rows.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = `SELECT id, project_id, title, created_at
			 FROM conversations
			 WHERE project_id = $1
			 ORDER BY created_at`
	rows, err = s.DB.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Title, &c.CreatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		full.Conversations = append(full.Conversations, c)
	}
	if err = rows.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return full, nil
}

// UpdateProject обновляет имя и описание проекта и возвращает количество изменённых строк.
func (s *Storage) UpdateProject(ctx context.Context, projectID, userUID string, req models.DummyProjectUpdate) (int, error) {
	const op = "storage.UpdateProject"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE projects
			  SET name = $1, description = $2, updated_at = NOW()
			  WHERE id = $3
			    AND EXISTS (
			        SELECT 1 FROM project_roles
			        WHERE project_id = $3 AND user_uid = $4
			    )`
	result, err := s.DB.ExecContext(ctx, query, req.Name, req.Description, projectID, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
