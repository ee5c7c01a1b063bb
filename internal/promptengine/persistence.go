package promptengine

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SavePromptPopulation writes the prompt population, keyed by prompt_id, to
// populationPath.
func (e *Engine) SavePromptPopulation(populationPath string) error {
	e.mu.RLock()
	doc := make(map[uuid.UUID]PromptDNA, len(e.prompts))
	for id, p := range e.prompts {
		doc[id] = *p
	}
	e.mu.RUnlock()

	return writeJSON(populationPath, doc, e.logFailure)
}

// SavePerformanceHistory writes the last performance_history_limit records
// to historyPath.
func (e *Engine) SavePerformanceHistory(historyPath string) error {
	e.mu.RLock()
	history := append([]PromptPerformance(nil), e.performance...)
	e.mu.RUnlock()

	return writeJSON(historyPath, history, e.logFailure)
}

func (e *Engine) logFailure(err error) {
	e.logger.WithError(err).Error("prompt engine persistence failure")
}

// LoadPromptPopulation replaces the in-memory population with what is found
// at populationPath. Missing or malformed files are treated as empty state.
func (e *Engine) LoadPromptPopulation(populationPath string) {
	data, err := os.ReadFile(populationPath)
	if err != nil {
		if !os.IsNotExist(err) {
			e.logger.WithError(err).Warn("failed to read prompt population file, starting empty")
		}
		return
	}

	var doc map[uuid.UUID]PromptDNA
	if err := json.Unmarshal(data, &doc); err != nil {
		e.logger.WithError(err).Warn("prompt population file is malformed, starting empty")
		return
	}

	prompts := make(map[uuid.UUID]*PromptDNA, len(doc))
	for id, p := range doc {
		prompt := p
		prompts[id] = &prompt
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.prompts = prompts
}

// LoadPerformanceHistory replaces the in-memory performance history with
// what is found at historyPath.
func (e *Engine) LoadPerformanceHistory(historyPath string) {
	data, err := os.ReadFile(historyPath)
	if err != nil {
		if !os.IsNotExist(err) {
			e.logger.WithError(err).Warn("failed to read performance history file, starting empty")
		}
		return
	}

	var history []PromptPerformance
	if err := json.Unmarshal(data, &history); err != nil {
		e.logger.WithError(err).Warn("performance history file is malformed, starting empty")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.performance = history
}

func writeJSON(path string, v interface{}, onError func(error)) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		onError(err)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		onError(err)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		onError(err)
		return err
	}
	return nil
}
