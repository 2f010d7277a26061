package hsn

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=hsn
type Repository interface {
	FindMatch(ctx context.Context, description string) (string, error)
	CreateMapping(ctx context.Context, m *Mapping) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the code of the longest learned pattern contained in
// description. Returns empty string if nothing matches.
func (s *Service) Suggest(ctx context.Context, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, description)
}

// Learn remembers that descriptions containing rawPattern use code.
func (s *Service) Learn(ctx context.Context, rawPattern, code string) (*Mapping, error) {
	rawPattern = strings.TrimSpace(rawPattern)
	if rawPattern == "" {
		return nil, fmt.Errorf("%w: pattern is required", ErrInvalidMapping)
	}

	normalized, ok := NormalizeCode(code)
	if !ok {
		return nil, fmt.Errorf("%w: code %q must be 4, 6 or 8 digits", ErrInvalidMapping, code)
	}

	m := &Mapping{RawPattern: rawPattern, Code: normalized}
	if err := s.repo.CreateMapping(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}
