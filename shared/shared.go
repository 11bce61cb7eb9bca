package shared

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"fleetops/shared/cache"
	"fleetops/shared/constant"
	"fleetops/shared/dto"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

// ConvertStringToBool parses an optional boolean query value. Empty or
// unparseable input yields nil so callers can fall back to their default.
func ConvertStringToBool(value string) *bool {
	if value == constant.Empty {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Err(err).Str("value", value).Msg("ignoring malformed boolean parameter")

		return nil
	}

	return &parsed
}

// CalculateTotalPage is at least 1, even for an empty result.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// BuildCacheKey joins a prefix and its parts with ":"; empty parts are skipped.
func BuildCacheKey(prefix string, parts ...string) string {
	key := []string{prefix}

	for _, part := range parts {
		if part != constant.Empty {
			key = append(key, part)
		}
	}

	return strings.Join(key, cacheKeySeparator)
}

// BuildCacheKeyWithQuery appends the page, limit and ordering to the key.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, parts ...string) string {
	query := fmt.Sprintf("p%d-l%d-%s-%s", params.Page, params.Limit, params.SortBy, params.SortDir)

	return BuildCacheKey(prefix, append(parts, query)...)
}

// InvalidateCaches removes every key under prefix. Failures are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	pattern := prefix + cacheKeySeparator + constant.Asterix

	if err := redisCache.Clear(ctx, pattern); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
