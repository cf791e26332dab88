package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	PoemKeyPrefix    = "poem:%d"
	PoemsListKey     = "poems:list"
	StoriesListKey   = "stories:list"
	TrendingUsersKey = "users:trending"
)

const (
	UserTTL     = 5 * time.Minute
	PoemTTL     = 30 * time.Minute
	ListTTL     = 30 * time.Second
	TrendingTTL = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PoemKey(poemID uint) string {
	return fmt.Sprintf(PoemKeyPrefix, poemID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, TrendingUsersKey)
}

func InvalidatePoem(ctx context.Context, poemID uint) {
	Invalidate(ctx, PoemKey(poemID))
	Invalidate(ctx, PoemsListKey)
}

func InvalidatePoemsList(ctx context.Context) {
	Invalidate(ctx, PoemsListKey)
}

func InvalidateStoriesList(ctx context.Context) {
	Invalidate(ctx, StoriesListKey)
}
