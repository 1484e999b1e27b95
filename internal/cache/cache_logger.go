package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateSurveyCache invalidates every cache entry derived from one survey.
// Called after any write to the survey graph or its responses.
func InvalidateSurveyCache(ctx context.Context, cm *CacheManager, surveyID uint, creatorID string) {
	SafeDelete(ctx, cm.Survey,
		fmt.Sprintf("id:%d", surveyID),
		fmt.Sprintf("published:%d", surveyID))

	SafeInvalidatePattern(ctx, cm.Survey, fmt.Sprintf("creator:%s:*", creatorID))
	SafeInvalidatePattern(ctx, cm.Survey, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("survey:%d:*", surveyID))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("creator:%s:*", creatorID))
}

// InvalidateResponseCache invalidates the response-derived caches of a survey.
// Submissions never touch the survey definition cache.
func InvalidateResponseCache(ctx context.Context, cm *CacheManager, surveyID uint) {
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("survey:%d:*", surveyID))
}
