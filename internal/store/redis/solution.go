package redis

import (
	"context"
	"fmt"
)

func (s *Store) SetSolution(ctx context.Context, id, url string) error {
	if err := s.client.HSet(ctx, KeySolutions, id, url).Err(); err != nil {
		return fmt.Errorf("failed to save solution: %w", err)
	}
	return nil
}

func (s *Store) DeleteSolution(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, KeySolutions, id).Err(); err != nil {
		return fmt.Errorf("failed to delete solution: %w", err)
	}
	return nil
}

func (s *Store) ListSolutions(ctx context.Context) (map[string]string, error) {
	links, err := s.client.HGetAll(ctx, KeySolutions).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}
	return links, nil
}
