package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cabinkeeper/internal/logging"
	"github.com/dmitrijs2005/cabinkeeper/internal/models"
)

const (
	DefaultPropertyName = "Rancho Laguna Ita"
	DefaultModel        = "gemini-3-flash-preview"

	NotConfiguredMessage = "Configure your API key to see smart insights."
	ErrorMessage         = "Error connecting to the AI service for the analysis."
)

var ErrInsightBusy = errors.New("insight request already in progress")

// Summarizer turns a prompt into narrative text using the given model.
type Summarizer interface {
	Summarize(ctx context.Context, model, prompt string) (string, error)
}

// SummarizerFactory builds a Summarizer for a credential. It is called lazily,
// on the first request after the credential is set.
type SummarizerFactory func(ctx context.Context, apiKey string) (Summarizer, error)

type Outcome int

const (
	OutcomeText Outcome = iota
	OutcomeNotConfigured
	OutcomeError
)

type Insight struct {
	Text    string
	Outcome Outcome
}

// Paragraphs splits the text on line breaks, dropping blank lines.
func (i Insight) Paragraphs() []string {
	var out []string
	for _, line := range strings.Split(i.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type InsightOptions struct {
	PropertyName string
	Model        string
	Timeout      time.Duration // 0 leaves the deadline to ctx and the transport
}

type InsightService struct {
	factory SummarizerFactory
	log     logging.Logger
	opts    InsightOptions

	mu         sync.Mutex
	apiKey     string
	summarizer Summarizer
	state      State
	last       Insight
}

func NewInsightService(factory SummarizerFactory, apiKey string, log logging.Logger, opts InsightOptions) *InsightService {
	if opts.PropertyName == "" {
		opts.PropertyName = DefaultPropertyName
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	return &InsightService{
		factory: factory,
		log:     log.With("component", "insight"),
		opts:    opts,
		apiKey:  apiKey,
	}
}

// SetCredential replaces the API key and drops the cached summarizer.
func (s *InsightService) SetCredential(apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = apiKey
	s.summarizer = nil
}

func (s *InsightService) Configured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey != ""
}

func (s *InsightService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Last returns the result of the most recent finished request.
func (s *InsightService) Last() Insight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Request asks the summarizer for an analysis of the given data. Failures never
// surface as errors: they produce the fixed messages instead. The only error is
// ErrInsightBusy, when another request is still running.
func (s *InsightService) Request(ctx context.Context, cabins []models.Cabin, reservations []models.Reservation) (Insight, error) {
	s.mu.Lock()
	if s.state == StateRequesting {
		s.mu.Unlock()
		return Insight{}, ErrInsightBusy
	}
	s.state = StateRequesting
	apiKey := s.apiKey
	summarizer := s.summarizer
	s.mu.Unlock()

	if apiKey == "" {
		return s.finish(Insight{Text: NotConfiguredMessage, Outcome: OutcomeNotConfigured}, StateSucceeded, nil, ""), nil
	}

	if summarizer == nil {
		var err error
		summarizer, err = s.factory(ctx, apiKey)
		if err != nil {
			s.log.Error(ctx, "create summarizer", "error", err)
			return s.fail(), nil
		}
	}

	prompt, err := BuildPrompt(s.opts.PropertyName, cabins, reservations)
	if err != nil {
		s.log.Error(ctx, "build prompt", "error", err)
		return s.fail(), nil
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	started := time.Now()
	text, err := summarizer.Summarize(ctx, s.opts.Model, prompt)
	if err != nil {
		s.log.Error(ctx, "summarize", "model", s.opts.Model, "error", err)
		return s.fail(), nil
	}
	s.log.Info(ctx, "insight received", "model", s.opts.Model, "took", time.Since(started))

	return s.finish(Insight{Text: text, Outcome: OutcomeText}, StateSucceeded, summarizer, apiKey), nil
}

func (s *InsightService) fail() Insight {
	return s.finish(Insight{Text: ErrorMessage, Outcome: OutcomeError}, StateFailed, nil, "")
}

func (s *InsightService) finish(in Insight, state State, summarizer Summarizer, apiKey string) Insight {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.last = in
	// the credential may have been replaced while the call was running
	if summarizer != nil && apiKey == s.apiKey {
		s.summarizer = summarizer
	}
	return in
}

// BuildPrompt renders the analysis request for the property.
func BuildPrompt(property string, cabins []models.Cabin, reservations []models.Reservation) (string, error) {
	names := make([]string, len(cabins))
	for i, c := range cabins {
		names[i] = c.Name
	}
	namesJSON, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("encode cabin names: %w", err)
	}
	reservationsJSON, err := models.EncodeReservations(reservations)
	if err != nil {
		return "", fmt.Errorf("encode reservations: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "As the administrative assistant of %s, analyze these reservations:\n", property)
	fmt.Fprintf(&b, "Cabins: %s\n", namesJSON)
	fmt.Fprintf(&b, "Current reservations: %s\n\n", reservationsJSON)
	b.WriteString("Provide a brief summary (at most 3 paragraphs) covering:\n")
	b.WriteString("1. Overall occupancy.\n")
	b.WriteString("2. The cabins with the highest demand.\n")
	b.WriteString("3. One strategic suggestion to improve sales or management.\n")
	b.WriteString("Write in English, in a professional and friendly tone.\n")
	return b.String(), nil
}
