package service

import (
	"time"
)

type Option func(*TaskService)

// WithClock подменяет источник текущего времени, от него считается "сегодня"
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}
