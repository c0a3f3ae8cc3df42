// Package models содержит доменные структуры приложения: пользователей,
// тарифы, подписки с проекцией отложенного изменения и проекты с дочерними
// сущностями редактора. Также включает вспомогательные типы для приёма
// данных из JSON-запросов.
package models

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string // Уникальный идентификатор пользователя
	Email        string // Электронная почта
	Username     string // Имя пользователя (уникальное)
	PasswordHash string // Хэш пароля пользователя
	Role         string // Роль пользователя, admin или user
}
