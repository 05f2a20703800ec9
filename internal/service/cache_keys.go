package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	electionListCacheKey = "elections:list"
	statsCacheKey        = "stats:overview"

	electionListCacheTTL = 30 * time.Second
	statsCacheTTL        = time.Minute
	profileCacheTTL      = 5 * time.Minute
)

func profileCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:profile:%s", id)
}
