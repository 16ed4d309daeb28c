package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/marketlens/internal/db"
)

// delEqualScript deletes a key only when it still holds the caller's token,
// so an expired lock re-acquired by another worker is never released by the
// original holder.
var delEqualScript = rueidis.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// SetNX sets key=value with a TTL only when the key is absent.
func (s *Store) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	cmd := s.b().Set().Key(key).Value(value).Nx().Px(ttl).Build()
	res := s.do(ctx, cmd)
	if err := res.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpSetNX, Err: err}
	}
	return true, nil
}

// DelEqual deletes key only when its current value equals value.
func (s *Store) DelEqual(ctx context.Context, key, value string) (bool, error) {
	n, err := delEqualScript.Exec(ctx, s.client, []string{key}, []string{value}).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpEval, Err: err}
	}
	return n > 0, nil
}
