package ai

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aybis/maya-family/internal/model"
)

// ScanState tracks the capture-and-process lifecycle of a receipt scan.
type ScanState int

const (
	StateIdle ScanState = iota
	StateCapturing
	StateProcessing
	StateSucceeded
	StateFailed
)

func (s ScanState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateProcessing:
		return "processing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Scanner runs a receipt image through the recognition chain: the configured
// provider first, the demo scan endpoint second, and the local mock last.
// Every payload that survives the chain is normalized into the fixed
// suggestion shape, so downstream consumers never see raw model output.
type Scanner struct {
	provider Provider
	gw       ScanGateway
	mock     *MockProvider
	log      zerolog.Logger
	now      func() time.Time

	mu     sync.Mutex
	state  ScanState
	result *model.AIProcessingResult
}

func NewScanner(provider Provider, gw ScanGateway, log zerolog.Logger) *Scanner {
	return &Scanner{
		provider: provider,
		gw:       gw,
		mock:     NewMockProvider(),
		log:      log,
		now:      time.Now,
	}
}

// State returns the current lifecycle state.
func (s *Scanner) State() ScanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StartCapture marks the scanner as capturing an image.
func (s *Scanner) StartCapture() {
	s.setState(StateCapturing)
}

// Reset returns the scanner to idle and drops the last result.
func (s *Scanner) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.result = nil
}

// LastResult returns the outcome of the most recent successful scan, or nil.
func (s *Scanner) LastResult() *model.AIProcessingResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// Process runs the recognition chain on a captured image. A provider failure
// falls through to the demo endpoint, and a demo failure falls through to
// the local mock, so the scan only errors when the context is cancelled.
func (s *Scanner) Process(ctx context.Context, imageData string) (model.AIProcessingResult, error) {
	s.setState(StateProcessing)

	payload, err := s.provider.ProcessReceipt(ctx, imageData)
	if err != nil {
		s.log.Warn().Err(err).Msg("provider scan failed, trying demo endpoint")
		payload, err = s.gw.DummyInvoiceScan(ctx)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("demo scan failed, using local mock")
		payload, err = s.mock.ProcessReceipt(ctx, imageData)
	}
	if err != nil {
		s.setState(StateFailed)
		return model.AIProcessingResult{}, err
	}

	result := model.NormalizeAIResult(payload, s.now())

	s.mu.Lock()
	s.state = StateSucceeded
	s.result = &result
	s.mu.Unlock()
	return result, nil
}

func (s *Scanner) setState(state ScanState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
