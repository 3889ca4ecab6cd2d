package redis

import (
	"context"

	"github.com/kailas-cloud/hoover/internal/db"
)

// SAdd adds member to a set. Returns true when the member was not present before.
func (s *Store) SAdd(ctx context.Context, key, member string) (bool, error) {
	cmd := s.b().Sadd().Key(key).Member(member).Build()
	added, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpSAdd, Err: err}
	}
	return added == 1, nil
}
