package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vcscsvcscs/vitals-tracker/internal/metrics"
	"github.com/vcscsvcscs/vitals-tracker/internal/prompt"
	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
	"go.uber.org/zap"
)

// Generator answers a single prompt with model text
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Exchange is the outcome of one assistant action
type Exchange struct {
	// Messages appended to the transcript, in order
	Messages []model.ChatMessage `json:"messages"`
	// Alert is a non-blocking notice for the user when a call failed
	Alert string `json:"alert,omitempty"`
}

// AssistantService runs the chat and health-data analysis flows
type AssistantService struct {
	store    VitalsStore
	ai       Generator
	logger   *zap.Logger
	settings settings
	send     *inFlight
	fetch    *inFlight
}

// NewAssistantService creates a new AssistantService
func NewAssistantService(store VitalsStore, ai Generator, logger *zap.Logger, opts ...Option) *AssistantService {
	return &AssistantService{
		store:    store,
		ai:       ai,
		logger:   logger,
		settings: newSettings(opts),
		send:     newInFlight(ControlChatSend),
		fetch:    newInFlight(ControlHealthFetch),
	}
}

// NewSession starts a conversation using the service clock
func (s *AssistantService) NewSession(historySize int) *ChatSession {
	return NewChatSession(historySize, s.settings.clock)
}

// Send appends the user's question, asks the model and appends its answer.
// With includeHealthData the CSV projection is fetched fresh and embedded.
// Store and model failures are answered with a fixed fallback message.
func (s *AssistantService) Send(ctx context.Context, session *ChatSession, text string, includeHealthData bool) (*Exchange, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidation, model.FieldErrors{"text": "Enter a message"})
	}

	release, err := s.send.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	exchange := &Exchange{}
	exchange.Messages = append(exchange.Messages, session.append(text, false))

	reply, err := s.answer(ctx, text, includeHealthData)
	if err != nil {
		s.logger.Error("failed to answer question",
			zap.Error(err),
			zap.Bool("include_health_data", includeHealthData),
		)
		exchange.Messages = append(exchange.Messages, session.append(prompt.SendFailure, true))
		exchange.Alert = prompt.SendFailureAlert
		return exchange, nil
	}

	exchange.Messages = append(exchange.Messages, session.append(reply, true))
	return exchange, nil
}

func (s *AssistantService) answer(ctx context.Context, text string, includeHealthData bool) (string, error) {
	csv := ""
	if includeHealthData {
		raw, err := s.store.List(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to fetch health history: %w", err)
		}
		csv = vitals.Project(raw, s.settings.location).String()
	}
	return s.generate(ctx, "question", prompt.Question(text, csv, includeHealthData))
}

// FetchHealthData loads the newest snapshot into the session, reports its
// status and, when a snapshot exists, asks the model for an analysis of the
// updated history.
func (s *AssistantService) FetchHealthData(ctx context.Context, session *ChatSession) (*Exchange, error) {
	release, err := s.fetch.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	exchange := &Exchange{}

	raw, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("failed to fetch health data", zap.Error(err))
		exchange.Messages = append(exchange.Messages, session.append(prompt.FetchFailure, true))
		exchange.Alert = prompt.FetchFailureAlert
		return exchange, nil
	}

	now := s.settings.clock()
	batch := vitals.Normalize(raw, now)
	latest, ok := batch.Latest()
	if !ok {
		session.recordSnapshot(vitals.EmptyRecord(now), false)
		s.logger.Info("no health data found", zap.Int("skipped", batch.Skipped))
		exchange.Messages = append(exchange.Messages, session.append(prompt.NoDataFound, true))
		return exchange, nil
	}

	history := session.recordSnapshot(latest, true)
	status := prompt.FormatStatus(&latest)
	exchange.Messages = append(exchange.Messages, session.append(prompt.FetchSuccess(status), true))

	analysis, err := s.generate(ctx, "analysis", prompt.Analysis(history, status))
	if err != nil {
		s.logger.Error("failed to analyze health data", zap.Error(err), zap.Int("history", len(history)))
		exchange.Messages = append(exchange.Messages, session.append(prompt.AnalysisFailure, true))
		return exchange, nil
	}

	exchange.Messages = append(exchange.Messages, session.append(prompt.AnalysisResult(analysis), true))
	return exchange, nil
}

// Clear resets the transcript to the greeting
func (s *AssistantService) Clear(session *ChatSession) []model.ChatMessage {
	return session.Clear()
}

func (s *AssistantService) generate(ctx context.Context, purpose, text string) (reply string, err error) {
	defer func() { metrics.ObserveAICall(s.ai.Name(), purpose, err) }()

	if s.settings.limiter != nil {
		if err := s.settings.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	s.logger.Debug("sending prompt", zap.String("provider", s.ai.Name()), zap.String("purpose", purpose), zap.Int("length", len(text)))
	reply, err = s.ai.Generate(ctx, text)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s reply: %w", purpose, err)
	}
	return reply, nil
}
