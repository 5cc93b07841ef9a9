package constants

import "time"

const (
	SessionCachePrefix    = "session"      // Session cache by token ID (CacheBuilder adds colon)
	ChecklistCachePrefix  = "checklist"    // Full checklist hierarchy by project ID
	MonthLocksCachePrefix = "month_locks"  // Month lock set by project ID
	TransformCachePrefix  = "transform"    // Fitted coordinate transform by project ID
	SessionCacheExpiry    = 24 * time.Hour // Sessions re-issue daily
	ProjectCacheExpiry    = 12 * time.Hour // Config changes rarely mid-shift
)
