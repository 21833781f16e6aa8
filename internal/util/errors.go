package util

import "errors"

var (
	ErrPermissionDenied        = errors.New("permission denied")
	ErrSubjectNotFound         = errors.New("subject not found")
	ErrCategoryNotFound        = errors.New("category not found")
	ErrTopicNotFound           = errors.New("topic not found")
	ErrQuestionNotFound        = errors.New("question not found")
	ErrProgressNotFound        = errors.New("progress record not found")
	ErrSessionNotFound         = errors.New("test session not found")
	ErrSessionAlreadySubmitted = errors.New("test session already submitted")
	ErrSessionExpired          = errors.New("test session expired")
	ErrNoQuestionsAvailable    = errors.New("no questions available")
	ErrInvalidQuestion         = errors.New("invalid question")
	ErrInvalidReference        = errors.New("invalid reference")
	ErrInvalidProgress         = errors.New("invalid progress record")
	ErrDuplicateName           = errors.New("name already exists")
	ErrInvalidFile             = errors.New("invalid file")
	ErrInvalidRequest          = errors.New("invalid request")
)
