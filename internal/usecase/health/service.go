package health

import (
	"context"
	"fmt"
)

// EnginePinger reports reachability of the search engine.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// Service answers readiness checks.
type Service struct {
	engine EnginePinger
}

func New(engine EnginePinger) *Service {
	return &Service{engine: engine}
}

// Check verifies the engine responds.
func (s *Service) Check(ctx context.Context) error {
	if err := s.engine.Ping(ctx); err != nil {
		return fmt.Errorf("engine ping: %w", err)
	}
	return nil
}
