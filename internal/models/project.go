package models

import "time"

// ProjectRoleOwner — роль владельца в связке пользователь-проект.
const ProjectRoleOwner = "owner"

// CreationRequestPending — начальный статус запроса на генерацию проекта.
const CreationRequestPending = "pending"

// DefaultProjectName — имя проекта, используемое при отказе генерации имени.
const DefaultProjectName = "New project"

// Project представляет проект пользователя в редакторе.
type Project struct {
	ID          string    // Идентификатор проекта
	Name        string    // Имя проекта
	Description string    // Описание проекта
	SandboxURL  string    // URL песочницы с кодом проекта
	PreviewURL  string    // URL превью-изображения
	CreatedAt   time.Time // Время создания
	UpdatedAt   time.Time // Время последнего изменения
}

// Canvas — холст проекта.
type Canvas struct {
	ID        string
	ProjectID string
}

// UserCanvas — настройки холста для конкретного пользователя (позиция, масштаб).
type UserCanvas struct {
	UserUID  string
	CanvasID string
	Scale    float64
	X        float64
	Y        float64
}

// Frame — кадр на холсте, указывающий на страницу песочницы.
type Frame struct {
	ID       string
	CanvasID string
	URL      string
	X        float64
	Y        float64
	Width    float64
	Height   float64
}

// Conversation — диалог с ассистентом внутри проекта.
type Conversation struct {
	ID        string
	ProjectID string
	Title     string
	CreatedAt time.Time
}

// CreationRequest — запрос на генерацию проекта из пользовательского промпта.
type CreationRequest struct {
	ID        string
	ProjectID string
	Prompt    string
	Status    string
	CreatedAt time.Time
}

// FullProject — проект вместе с дочерними сущностями редактора.
type FullProject struct {
	Project       Project
	Canvases      []Canvas
	Frames        []Frame
	Conversations []Conversation
}

// DummyProject используется для приёма данных проекта из JSON-запроса.
type DummyProject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SandboxURL  string `json:"sandbox_url" validate:"required"`
	PreviewURL  string `json:"preview_url"`
}

// DummyCreationRequest используется для приёма данных запроса генерации.
type DummyCreationRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// DummyProjectUpdate используется для приёма обновляемых полей проекта.
type DummyProjectUpdate struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}
