package config

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages runtime toggles of optional journal behavior.
// Defaults reproduce the original API; every flag can be overridden with
// FEATURE_<NAME>=true|false.
type FeatureFlags struct {
	mu       sync.RWMutex
	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	// === Statistics ===
	FeatureStatsRoundSubjectAverages = "stats.round_subject_averages" // Round per-subject averages like the overall one

	// === Grades ===
	FeatureGradesExport = "grades.export" // GET /grades/export (xlsx)

	// === Auth ===
	FeatureAuthTeacherCache   = "auth.teacher_cache"   // Cache teacher lookups in Redis during token validation
	FeatureAuthProtectJournal = "auth.protect_journal" // Require a bearer token on journal endpoints

	// === API ===
	FeatureAPITeacherRoutes = "api.teacher_routes" // /teachers/register/ and /teachers/login/ aliases
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureStatsRoundSubjectAverages] = &Feature{
		Name:        FeatureStatsRoundSubjectAverages,
		Description: "Round per-subject averages to 2 decimals",
		Enabled:     false,
	}

	ff.features[FeatureGradesExport] = &Feature{
		Name:        FeatureGradesExport,
		Description: "Export the grade journal as an Excel workbook",
		Enabled:     true,
	}

	ff.features[FeatureAuthTeacherCache] = &Feature{
		Name:        FeatureAuthTeacherCache,
		Description: "Cache teacher profiles in Redis (needs REDIS_ENABLED)",
		Enabled:     true,
	}

	ff.features[FeatureAuthProtectJournal] = &Feature{
		Name:        FeatureAuthProtectJournal,
		Description: "Require authentication for student, subject and grade endpoints",
		Enabled:     false,
	}

	ff.features[FeatureAPITeacherRoutes] = &Feature{
		Name:        FeatureAPITeacherRoutes,
		Description: "Serve /teachers/register/ and /teachers/login/ aliases",
		Enabled:     true,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_STATS_ROUND_SUBJECT_AVERAGES=true
func (ff *FeatureFlags) loadFromEnvironment() {
	for name := range ff.features {
		val := os.Getenv(featureNameToEnvKey(name))
		if val == "" {
			continue
		}
		if b, err := strconv.ParseBool(val); err == nil {
			_ = ff.SetEnabled(name, b)
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "stats.round_subject_averages" -> "FEATURE_STATS_ROUND_SUBJECT_AVERAGES"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled. Unknown features are disabled.
// Safe to call on a nil receiver.
func (ff *FeatureFlags) IsEnabled(featureName string) bool {
	if ff == nil {
		return false
	}
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	return ok && feature.Enabled
}

// SetEnabled toggles a feature at runtime.
func (ff *FeatureFlags) SetEnabled(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}
	feature.Enabled = enabled
	return nil
}

// EnabledFeatures returns the sorted names of enabled features.
func (ff *FeatureFlags) EnabledFeatures() []string {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	names := make([]string, 0, len(ff.features))
	for name, f := range ff.features {
		if f.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// --- Errors ---

var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
