package features

import (
	"testing"
)

func TestIsEnabled(t *testing.T) {
	originalFeatures := BuildFeatures
	defer func() {
		BuildFeatures = originalFeatures
		ResetCache()
	}()

	tests := []struct {
		name           string
		buildFeatures  string
		feature        string
		expectedResult bool
	}{
		{
			name:           "empty features",
			buildFeatures:  "",
			feature:        FeatureMetrics,
			expectedResult: false,
		},
		{
			name:           "single feature enabled",
			buildFeatures:  "metrics",
			feature:        FeatureMetrics,
			expectedResult: true,
		},
		{
			name:           "multiple features enabled",
			buildFeatures:  "metrics,observability,rate-limiting",
			feature:        FeatureObservability,
			expectedResult: true,
		},
		{
			name:           "feature not in list",
			buildFeatures:  "metrics,observability",
			feature:        FeatureRateLimiting,
			expectedResult: false,
		},
		{
			name:           "features with spaces",
			buildFeatures:  "metrics, observability, rate-limiting",
			feature:        FeatureObservability,
			expectedResult: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetCache()
			BuildFeatures = tt.buildFeatures
			result := IsEnabled(tt.feature)

			if result != tt.expectedResult {
				t.Errorf("IsEnabled(%s) = %v, want %v", tt.feature, result, tt.expectedResult)
			}
		})
	}
}

func TestIsDemoMode(t *testing.T) {
	originalMode := BuildMode
	defer func() { BuildMode = originalMode }()

	tests := []struct {
		name           string
		buildMode      string
		expectedResult bool
	}{
		{"demo mode", "demo", true},
		{"Demo mode uppercase", "DEMO", true},
		{"production mode", "production", false},
		{"development mode", "development", false},
		{"empty mode", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			BuildMode = tt.buildMode
			result := IsDemoMode()

			if result != tt.expectedResult {
				t.Errorf("IsDemoMode() = %v, want %v", result, tt.expectedResult)
			}
		})
	}
}

func TestShouldEnableFullLogging(t *testing.T) {
	originalMode := BuildMode
	originalFeatures := BuildFeatures
	defer func() {
		BuildMode = originalMode
		BuildFeatures = originalFeatures
		ResetCache()
	}()

	tests := []struct {
		name           string
		buildMode      string
		buildFeatures  string
		expectedResult bool
	}{
		{
			name:           "demo mode without full-logging flag",
			buildMode:      "demo",
			buildFeatures:  "",
			expectedResult: false,
		},
		{
			name:           "demo mode with full-logging flag",
			buildMode:      "demo",
			buildFeatures:  "full-logging",
			expectedResult: true,
		},
		{
			name:           "production mode without full-logging flag",
			buildMode:      "production",
			buildFeatures:  "",
			expectedResult: true,
		},
		{
			name:           "development mode without full-logging flag",
			buildMode:      "development",
			buildFeatures:  "",
			expectedResult: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetCache()
			BuildMode = tt.buildMode
			BuildFeatures = tt.buildFeatures
			result := ShouldEnableFullLogging()

			if result != tt.expectedResult {
				t.Errorf("ShouldEnableFullLogging() = %v, want %v", result, tt.expectedResult)
			}
		})
	}
}

func TestShouldUseShortTimeouts(t *testing.T) {
	originalMode := BuildMode
	originalFeatures := BuildFeatures
	defer func() {
		BuildMode = originalMode
		BuildFeatures = originalFeatures
		ResetCache()
	}()

	tests := []struct {
		name           string
		buildMode      string
		buildFeatures  string
		expectedResult bool
	}{
		{"demo mode implies short timeouts", "demo", "", true},
		{"explicit flag in production", "production", "short-timeouts", true},
		{"production without flag", "production", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetCache()
			BuildMode = tt.buildMode
			BuildFeatures = tt.buildFeatures
			result := ShouldUseShortTimeouts()

			if result != tt.expectedResult {
				t.Errorf("ShouldUseShortTimeouts() = %v, want %v", result, tt.expectedResult)
			}
		})
	}
}

func TestGetEnabledFeatures(t *testing.T) {
	originalFeatures := BuildFeatures
	defer func() {
		BuildFeatures = originalFeatures
		ResetCache()
	}()

	BuildFeatures = "metrics, rate-limiting ,"
	got := GetEnabledFeatures()
	if len(got) != 2 || got[0] != "metrics" || got[1] != "rate-limiting" {
		t.Errorf("GetEnabledFeatures() = %v, want [metrics rate-limiting]", got)
	}

	BuildFeatures = ""
	if got := GetEnabledFeatures(); len(got) != 0 {
		t.Errorf("GetEnabledFeatures() with empty BuildFeatures = %v, want empty", got)
	}
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	for _, key := range []string{"mode", "version", "buildTime", "features"} {
		if _, ok := info[key]; !ok {
			t.Errorf("GetBuildInfo() missing key %q", key)
		}
	}
}
