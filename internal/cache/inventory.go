package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix = "user:%d"
	PostKeyPrefix = "post:%d"

	// The first timeline page is cached per page size so a small page never
	// masquerades as a larger one.
	TimelinePagePrefix  = "timeline:active:p1:n%d"
	timelinePagePattern = "timeline:active:p1:n*"
)

const (
	UserTTL     = 5 * time.Minute
	PostTTL     = 30 * time.Minute
	TimelineTTL = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func TimelineKey(perPage int) string {
	return fmt.Sprintf(TimelinePagePrefix, perPage)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateTimeline drops the cached first page for every page size.
func InvalidateTimeline(ctx context.Context) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, timelinePagePattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}
