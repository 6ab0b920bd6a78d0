package features

import (
	"strings"
	"sync"
)

// Build-time variables set via ldflags
var (
	// BuildMode indicates the build mode (demo, production, development)
	BuildMode = "production"

	// BuildFeatures is a comma-separated list of enabled features
	// Can be overridden at build time with:
	// -ldflags "-X sealgate/features.BuildFeatures=feature1,feature2"
	BuildFeatures = ""

	// BuildVersion is the version of the build
	BuildVersion = "dev"

	// BuildTime is the time the binary was built
	BuildTime = "unknown"
)

// Feature names
const (
	FeatureFullLogging   = "full-logging"
	FeatureMetrics       = "metrics"
	FeatureObservability = "observability"
	FeatureRateLimiting  = "rate-limiting"
	FeatureShortTimeouts = "short-timeouts"
)

var (
	featureCache = make(map[string]bool)
	cacheMux     sync.RWMutex
)

// IsEnabled checks if a feature is enabled based on build-time flags
func IsEnabled(feature string) bool {
	cacheMux.RLock()
	if enabled, found := featureCache[feature]; found {
		cacheMux.RUnlock()
		return enabled
	}
	cacheMux.RUnlock()

	enabled := false
	if BuildFeatures != "" {
		for _, f := range strings.Split(BuildFeatures, ",") {
			if strings.TrimSpace(f) == feature {
				enabled = true
				break
			}
		}
	}

	cacheMux.Lock()
	featureCache[feature] = enabled
	cacheMux.Unlock()

	return enabled
}

// ResetCache clears the memoized feature lookups. Intended for tests that
// mutate BuildFeatures.
func ResetCache() {
	cacheMux.Lock()
	featureCache = make(map[string]bool)
	cacheMux.Unlock()
}

// IsDemoMode returns true if the build is in demo mode
func IsDemoMode() bool {
	return strings.ToLower(BuildMode) == "demo"
}

// IsProductionMode returns true if the build is in production mode
func IsProductionMode() bool {
	return strings.ToLower(BuildMode) == "production"
}

// IsDevelopmentMode returns true if the build is in development mode
func IsDevelopmentMode() bool {
	return strings.ToLower(BuildMode) == "development"
}

// GetEnabledFeatures returns a slice of all enabled features
func GetEnabledFeatures() []string {
	if BuildFeatures == "" {
		return []string{}
	}
	features := strings.Split(BuildFeatures, ",")
	result := make([]string, 0, len(features))
	for _, f := range features {
		trimmed := strings.TrimSpace(f)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ShouldEnableFullLogging returns true if full logging should be enabled
func ShouldEnableFullLogging() bool {
	// Demo builds only log startup messages unless explicitly overridden
	return IsEnabled(FeatureFullLogging) || !IsDemoMode()
}

// ShouldEnableMetrics returns true if metrics should be enabled
func ShouldEnableMetrics() bool {
	return IsEnabled(FeatureMetrics)
}

// ShouldEnableObservability returns true if observability should be enabled
func ShouldEnableObservability() bool {
	return IsEnabled(FeatureObservability)
}

// ShouldEnableRateLimiting returns true if rate limiting should be enabled
func ShouldEnableRateLimiting() bool {
	return IsEnabled(FeatureRateLimiting)
}

// ShouldUseShortTimeouts returns true if short timeouts should be used
func ShouldUseShortTimeouts() bool {
	return IsEnabled(FeatureShortTimeouts) || IsDemoMode()
}

// GetBuildInfo returns build information as a map
func GetBuildInfo() map[string]string {
	return map[string]string{
		"mode":      BuildMode,
		"version":   BuildVersion,
		"buildTime": BuildTime,
		"features":  BuildFeatures,
	}
}
