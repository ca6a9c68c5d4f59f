package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetValue 获取字符串类型的值，键不存在时返回空串
func GetValue(ctx context.Context, rdb redis.Cmdable, key string) (string, error) {
	value, err := rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// GetBytes 获取原始字节，键不存在时返回 nil
func GetBytes(ctx context.Context, rdb redis.Cmdable, key string) ([]byte, error) {
	value, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, rdb redis.Cmdable, key string, value interface{}, expiration time.Duration) error {
	return rdb.Set(ctx, key, value, expiration).Err()
}

// DeleteKey 删除一个或多个键
func DeleteKey(ctx context.Context, rdb redis.Cmdable, keys ...string) error {
	return rdb.Del(ctx, keys...).Err()
}

// RenameIfExists 原子地把 oldKey 改名为 newKey，oldKey 不存在时返回 false
func RenameIfExists(ctx context.Context, rdb redis.Cmdable, oldKey, newKey string) (bool, error) {
	err := rdb.Rename(ctx, oldKey, newKey).Err()
	if err != nil {
		if err.Error() == "ERR no such key" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetSet 获取集合
func GetSet(ctx context.Context, rdb redis.Cmdable, key string) ([]string, error) {
	return rdb.SMembers(ctx, key).Result()
}
