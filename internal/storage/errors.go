// Package storage объявляет ошибки уровня хранилища, общие для репозитория и сервисов.
package storage

import "errors"

var (
	// ErrUserNotFound пользователь не найден
	ErrUserNotFound = errors.New("user not found")
	// ErrChatNotFound чат не найден или принадлежит другому пользователю
	ErrChatNotFound = errors.New("chat not found")
	// ErrNoFreeQuestions счётчик бесплатных вопросов уже исчерпан
	ErrNoFreeQuestions = errors.New("no free questions remaining")
)
