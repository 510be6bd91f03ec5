// Package mocks holds testify mocks for the cross-domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mbecker/lumen/internal/domain/analytics"
	"github.com/mbecker/lumen/internal/llm"
)

// Classifier is a mock for capture.Classifier.
type Classifier struct {
	mock.Mock
}

func (m *Classifier) Classify(ctx context.Context, text string) (*llm.Classification, error) {
	args := m.Called(ctx, text)
	if cls, ok := args.Get(0).(*llm.Classification); ok {
		return cls, args.Error(1)
	}
	return nil, args.Error(1)
}

// Recorder is a mock for capture.Recorder and project.Recorder.
type Recorder struct {
	mock.Mock
}

func (m *Recorder) RecordActivity(ctx context.Context, userID string, ev analytics.Event) {
	m.Called(ctx, userID, ev)
}

func (m *Recorder) IncrementCaptureCounter(ctx context.Context, userID, captureType string) {
	m.Called(ctx, userID, captureType)
}

// Scheduler is a mock for capture.Scheduler.
type Scheduler struct {
	mock.Mock
}

func (m *Scheduler) ScheduleEvent(ctx context.Context, userID, title string, dates []string) error {
	args := m.Called(ctx, userID, title, dates)
	return args.Error(0)
}

// TaskCreator is a mock for capture.TaskCreator.
type TaskCreator struct {
	mock.Mock
}

func (m *TaskCreator) CreateTaskFromCapture(ctx context.Context, userID, title, captureID string) error {
	args := m.Called(ctx, userID, title, captureID)
	return args.Error(0)
}
