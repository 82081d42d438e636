package cache

import (
	"context"
	"fmt"
	"strings"
)

// Open returns the backend described by spec:
//
//	""  or "none"           NullCache
//	"file:<dir>"            FileCache
//	"redis://..."           RedisCache
//	"mongodb://..."         MongoCache with the default database and collection
//	"mongodb+srv://..."     same
func Open(ctx context.Context, spec string) (Cache, error) {
	switch {
	case spec == "" || spec == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(spec, "file:"):
		c, err := NewFileCache(strings.TrimPrefix(spec, "file:"))
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		c, err := NewRedisCache(ctx, spec)
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.HasPrefix(spec, "mongodb://"), strings.HasPrefix(spec, "mongodb+srv://"):
		c, err := NewMongoCache(ctx, spec, "", "")
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", spec)
}
