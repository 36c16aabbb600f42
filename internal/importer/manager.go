// Package importer bulk-creates records through the catalog API with a
// bounded pool of workers.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/api"
	"github.com/dgnsrekt/catalog-stream/internal/store"
)

// Client is the subset of api.Client used for imports.
type Client interface {
	Create(ctx context.Context, rec store.Record) (*store.Record, error)
	FindByName(ctx context.Context, name string) (*store.Record, error)
}

type Manager struct {
	client       Client
	workers      int
	skipExisting bool
	logger       *zap.Logger
}

type BatchResult struct {
	Total   int
	Success int
	Skipped int
	Invalid int
	Failed  int
	Errors  []string
}

// NewManager creates an import manager. With skipExisting, records whose name
// is already in the catalog are skipped so an interrupted import can resume.
func NewManager(client Client, workers int, skipExisting bool, logger *zap.Logger) *Manager {
	if workers < 1 {
		workers = 1
	}
	return &Manager{
		client:       client,
		workers:      workers,
		skipExisting: skipExisting,
		logger:       logger,
	}
}

func (m *Manager) Execute(ctx context.Context, tasks []Task) (*BatchResult, error) {
	result := &BatchResult{Total: len(tasks)}

	if len(tasks) == 0 {
		return result, nil
	}

	jobs := make(chan Task, len(tasks))
	results := make(chan TaskResult, len(tasks))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < m.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			m.worker(ctx, workerID, jobs, results)
		}(i)
	}

	// Send jobs
	go func() {
		defer close(jobs)
		for _, task := range tasks {
			select {
			case <-ctx.Done():
				return
			case jobs <- task:
			}
		}
	}()

	// Wait for workers and close results
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results
	for r := range results {
		switch {
		case r.Skipped:
			result.Skipped++
		case r.Success:
			result.Success++
		case r.Invalid:
			result.Invalid++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", r.Task, r.Error))
		default:
			result.Failed++
			if r.Error != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", r.Task, r.Error))
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (m *Manager) worker(ctx context.Context, id int, jobs <-chan Task, results chan<- TaskResult) {
	for task := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result := m.processTask(ctx, task)

		select {
		case <-ctx.Done():
			return
		case results <- result:
		}
	}
}

func (m *Manager) processTask(ctx context.Context, task Task) TaskResult {
	result := TaskResult{Task: task}

	if m.skipExisting {
		existing, err := m.client.FindByName(ctx, task.Record.Name)
		switch {
		case err == nil:
			m.logger.Debug("skipping existing record", zap.String("task", task.String()))
			result.Skipped = true
			result.Success = true
			result.ID = existing.ID
			return result
		case !errors.Is(err, api.ErrNotFound):
			result.Error = err
			return result
		}
	}

	saved, err := m.client.Create(ctx, task.Record)
	if err != nil {
		if api.IsValidation(err) {
			m.logger.Debug("invalid record", zap.String("task", task.String()), zap.Error(err))
			result.Invalid = true
		}
		result.Error = err
		return result
	}

	result.Success = true
	result.ID = saved.ID
	m.logger.Info("imported", zap.String("task", task.String()), zap.String("id", saved.ID))

	return result
}
