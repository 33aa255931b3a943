package loom

import "time"

// ResolveHook observes one resolution attempt. err is nil on success; on
// failure it is the same error the caller of Get or Invoke receives.
type ResolveHook func(name string, duration time.Duration, err error)
