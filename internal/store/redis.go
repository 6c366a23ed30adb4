package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// saveIfGreater 原子地比较并写入, 游标只能前进
var saveIfGreater = redis.NewScript(`
local cur = redis.call("GET", KEYS[1])
if cur == false or tonumber(cur) < tonumber(ARGV[1]) then
  redis.call("SET", KEYS[1], ARGV[1])
  return 1
end
return 0
`)

// Redis 游标存在 scanner:cursor:{name}
type Redis struct {
	rdb *redis.Client
	key string
}

func NewRedis(rdb *redis.Client, name string) *Redis {
	return &Redis{rdb: rdb, key: "scanner:cursor:" + name}
}

func (r *Redis) Load(ctx context.Context) (uint64, bool, error) {
	raw, err := r.rdb.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load cursor %s: %w", r.key, err)
	}
	next, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cursor %s=%q: %w", r.key, raw, err)
	}
	return next, true, nil
}

func (r *Redis) Save(ctx context.Context, next uint64) error {
	if err := saveIfGreater.Run(ctx, r.rdb, []string{r.key}, strconv.FormatUint(next, 10)).Err(); err != nil {
		return fmt.Errorf("save cursor %s: %w", r.key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
