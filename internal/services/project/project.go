// Package project содержит бизнес-логику проектов редактора: транзакционное
// создание со всеми дочерними сущностями, генерацию имени через языковую
// модель и публикацию событий аналитики после успешной записи.
package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/CloudEngineHub/onlook/internal/lib/sl"
	"github.com/CloudEngineHub/onlook/internal/llm"
	"github.com/CloudEngineHub/onlook/internal/models"
)

// Максимальная длина сгенерированного имени проекта.
const maxNameLength = 50

// Количество проектов на витрине по умолчанию.
const defaultPreviewLimit = 4

const namePrompt = "You name website projects. Reply with a short descriptive name " +
	"for the project, at most five words, without quotes or punctuation."

// ProjectRepository определяет методы хранилища для проектов.
type ProjectRepository interface {
	CreateProject(ctx context.Context, userUID string, dummy models.DummyProject, prompt *string) (*models.FullProject, error)
	RemoveProject(ctx context.Context, projectID, userUID string) (int, error)
	ListProjects(ctx context.Context, userUID string) ([]*models.Project, error)
	ListPreviewProjects(ctx context.Context, userUID string, limit int) ([]*models.Project, error)
	GetProject(ctx context.Context, projectID, userUID string) (*models.Project, error)
	GetFullProject(ctx context.Context, projectID, userUID string) (*models.FullProject, error)
	UpdateProject(ctx context.Context, projectID, userUID string, req models.DummyProjectUpdate) (int, error)
}

// NameGenerator описывает клиента языковой модели для генерации имён.
type NameGenerator interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// EventPublisher публикует события продуктовой аналитики.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ProjectService реализует бизнес-логику работы с проектами.
type ProjectService struct {
	repo      ProjectRepository
	generator NameGenerator
	publisher EventPublisher
	cache     Cache
	log       *slog.Logger
}

// New создает новый экземпляр ProjectService.
func New(repo ProjectRepository, generator NameGenerator, publisher EventPublisher,
	cache Cache, log *slog.Logger) *ProjectService {
	return &ProjectService{
		repo:      repo,
		generator: generator,
		publisher: publisher,
		cache:     cache,
		log:       log,
	}
}

// Create создаёт проект со всеми дочерними сущностями. Если имя не задано,
// оно генерируется из промпта. Событие аналитики публикуется только после
// успешной записи; его потеря не считается ошибкой операции.
func (s *ProjectService) Create(ctx context.Context, userUID string, dummy models.DummyProject,
	creation *models.DummyCreationRequest) (*models.FullProject, error) {
	var prompt *string
	if creation != nil {
		prompt = &creation.Prompt
	}

	if dummy.Name == "" {
		if prompt != nil {
			dummy.Name = s.GenerateName(ctx, *prompt)
		} else {
			dummy.Name = models.DefaultProjectName
		}
	}

	full, err := s.repo.CreateProject(ctx, userUID, dummy, prompt)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new project", slog.String("project_id", full.Project.ID))

	if err := s.publisher.Publish("analytics", models.AnalyticsEvent{
		UserUID: userUID,
		Event:   "project_created",
	}); err != nil {
		s.log.Warn("failed to publish analytics event", sl.Err(err))
	}

	cacheKey := fmt.Sprintf("project:%s", full.Project.ID)
	if err := s.cache.Set(cacheKey, full.Project, time.Hour); err != nil {
		s.log.Warn("failed to cache project", slog.String("key", cacheKey), sl.Err(err))
	}

	return full, nil
}

// GenerateName генерирует имя проекта по промпту. Ошибка генерации, пустой
// или слишком длинный ответ приводят к дефолтному имени.
func (s *ProjectService) GenerateName(ctx context.Context, prompt string) string {
	name, err := s.generator.Complete(ctx, []llm.Message{
		{Role: "system", Content: namePrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		s.log.Warn("failed to generate project name", sl.Err(err))
		return models.DefaultProjectName
	}

	name = strings.Trim(strings.TrimSpace(name), `"'`)
	if name == "" || len([]rune(name)) > maxNameLength {
		return models.DefaultProjectName
	}
	return name
}

// Remove удаляет проект пользователя и инвалидирует кеш.
func (s *ProjectService) Remove(ctx context.Context, projectID, userUID string) (int, error) {
	cacheKey := fmt.Sprintf("project:%s", projectID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), sl.Err(err))
	}

	count, err := s.repo.RemoveProject(ctx, projectID, userUID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		if err := s.publisher.Publish("analytics", models.AnalyticsEvent{
			UserUID: userUID,
			Event:   "project_deleted",
		}); err != nil {
			s.log.Warn("failed to publish analytics event", sl.Err(err))
		}
	}
	return count, nil
}

// List возвращает список проектов пользователя.
func (s *ProjectService) List(ctx context.Context, userUID string) ([]*models.Project, error) {
	return s.repo.ListProjects(ctx, userUID)
}

// Previews возвращает последние проекты пользователя для витрины.
func (s *ProjectService) Previews(ctx context.Context, userUID string, limit int) ([]*models.Project, error) {
	if limit <= 0 {
		limit = defaultPreviewLimit
	}
	return s.repo.ListPreviewProjects(ctx, userUID, limit)
}

// Read возвращает проект по ID, используя кеш или репозиторий.
func (s *ProjectService) Read(ctx context.Context, projectID, userUID string) (*models.Project, error) {
	var result *models.Project
	cacheKey := fmt.Sprintf("project:%s", projectID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetProject(ctx, projectID, userUID)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return result, nil
}

// ReadFull возвращает проект вместе с дочерними сущностями редактора.
func (s *ProjectService) ReadFull(ctx context.Context, projectID, userUID string) (*models.FullProject, error) {
	return s.repo.GetFullProject(ctx, projectID, userUID)
}

// Update обновляет имя и описание проекта и обновляет кеш.
func (s *ProjectService) Update(ctx context.Context, projectID, userUID string, req models.DummyProjectUpdate) (int, error) {
	count, err := s.repo.UpdateProject(ctx, projectID, userUID, req)
	if err != nil {
		return 0, err
	}

	cacheKey := fmt.Sprintf("project:%s", projectID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return count, nil
}
