package apperrors

import "errors"

var (
	ErrProfileNotFound  = errors.New("user profile not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrProgressNotFound = errors.New("course progress not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrAttemptNotFound  = errors.New("quiz attempt not found")
	ErrMalformedQuiz    = errors.New("quiz has no scorable questions")
)
