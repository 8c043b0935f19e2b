package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aybis/maya-family/internal/model"
	"github.com/Aybis/maya-family/internal/repository"
	"github.com/Aybis/maya-family/internal/safe"
)

// historyCap bounds the processing-history ring.
const historyCap = 50

// AISettingsPatch is a partial settings update. Nil fields are untouched.
type AISettingsPatch struct {
	Provider            *string
	APIKey              *string
	AutoProcess         *bool
	ConfidenceThreshold *float64
}

// AIStore owns the receipt-adapter settings and the processing history.
// The API key lives only in memory: the durable snapshot has no field for
// it, so it cannot leak to disk.
type AIStore struct {
	snapshots repository.Snapshots
	log       zerolog.Logger
	now       func() time.Time

	mu         sync.RWMutex
	settings   model.AISettings
	processing bool
	lastResult *model.AIProcessingResult
	history    []model.AIProcessingResult
	err        string
}

// NewAIStore builds the store and rehydrates settings and history. The
// rehydrated settings always come back with an empty API key.
func NewAIStore(snapshots repository.Snapshots, log zerolog.Logger) *AIStore {
	s := &AIStore{
		snapshots: snapshots,
		log:       log,
		now:       time.Now,
		settings:  model.DefaultAISettings(),
	}
	snap, err := snapshots.LoadAI()
	if err != nil {
		log.Warn().Err(err).Msg("ai snapshot rehydration failed")
		return s
	}
	if snap != nil {
		s.settings.Provider = snap.Provider
		s.settings.AutoProcess = snap.AutoProcess
		s.settings.ConfidenceThreshold = snap.ConfidenceThreshold
		s.history = snap.History
	}
	return s
}

// UpdateSettings merges the patch and validates the result. An invalid
// combination sets the store error and leaves the settings untouched.
func (s *AIStore) UpdateSettings(patch AISettingsPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.settings
	if patch.Provider != nil {
		merged.Provider = *patch.Provider
	}
	if patch.APIKey != nil {
		merged.APIKey = *patch.APIKey
	}
	if patch.AutoProcess != nil {
		merged.AutoProcess = *patch.AutoProcess
	}
	if patch.ConfidenceThreshold != nil {
		merged.ConfidenceThreshold = *patch.ConfidenceThreshold
	}

	if err := merged.Validate(); err != nil {
		s.err = err.Error()
		return false
	}
	s.settings = merged
	s.err = ""
	s.persistLocked()
	return true
}

// ClearAPIKey drops the in-memory credential.
func (s *AIStore) ClearAPIKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.APIKey = ""
	s.err = ""
}

// Settings returns the current adapter settings.
func (s *AIStore) Settings() model.AISettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetProcessing flags a scan in flight.
func (s *AIStore) SetProcessing(processing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = processing
}

// Processing reports whether a scan is in flight.
func (s *AIStore) Processing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processing
}

// Error returns the last settings/validation error.
func (s *AIStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// RecordResult stores a scan result as the latest outcome and prepends it
// to the capped history. The entry is re-validated field by field before it
// is kept.
func (s *AIStore) RecordResult(result model.AIProcessingResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	if result.Category == "" {
		result.Category = "Others"
	}
	if result.Description == "" {
		result.Description = "Unknown"
	}
	result.Items = safe.Array(result.Items)
	if result.Timestamp == "" {
		result.Timestamp = s.now().Format(time.RFC3339)
	}

	s.lastResult = &result
	s.history = append([]model.AIProcessingResult{result}, s.history...)
	if len(s.history) > historyCap {
		s.history = s.history[:historyCap]
	}
	s.err = ""
	s.persistLocked()
}

// LastResult returns the most recent scan outcome, or nil.
func (s *AIStore) LastResult() *model.AIProcessingResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastResult == nil {
		return nil
	}
	r := *s.lastResult
	return &r
}

// History returns up to limit entries, newest first. A non-positive limit
// means 10.
func (s *AIStore) History(limit int) []model.AIProcessingResult {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return safe.Slice(s.history, 0, limit)
}

// ClearHistory drops all processing history.
func (s *AIStore) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.err = ""
	s.persistLocked()
}

// AverageConfidence averages the confidence of all stored entries.
func (s *AIStore) AverageConfidence() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return 0
	}
	sum := safe.Reduce(s.history, func(acc float64, r model.AIProcessingResult) float64 {
		return acc + r.Confidence
	}, 0)
	return sum / float64(len(s.history))
}

// IsConfigured reports whether a scan can be attempted with the current
// settings.
func (s *AIStore) IsConfigured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.IsConfigured()
}

// Reset restores defaults and clears all transient and durable state.
func (s *AIStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = model.DefaultAISettings()
	s.processing = false
	s.lastResult = nil
	s.history = nil
	s.err = ""
	s.persistLocked()
}

// persistLocked writes the durable snapshot. The mapping deliberately
// omits the API key.
func (s *AIStore) persistLocked() {
	snap := repository.AISnapshot{
		Provider:            s.settings.Provider,
		AutoProcess:         s.settings.AutoProcess,
		ConfidenceThreshold: s.settings.ConfidenceThreshold,
		History:             s.history,
	}
	if err := s.snapshots.SaveAI(snap); err != nil {
		s.log.Warn().Err(err).Msg("ai snapshot write failed")
	}
}
