package agentfactory

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// populationDoc is the on-disk shape of population.json.
type populationDoc struct {
	ActiveAgents  map[uuid.UUID]AgentDNA `json:"active_agents"`
	RetiredAgents map[uuid.UUID]AgentDNA `json:"retired_agents"`
}

// SavePopulation writes the active/retired population to populationPath.
// Persistence failures are logged and also returned to the caller.
func (f *Factory) SavePopulation(populationPath string) error {
	f.mu.RLock()
	doc := populationDoc{
		ActiveAgents:  copyAgentMap(f.active),
		RetiredAgents: copyAgentMap(f.retired),
	}
	f.mu.RUnlock()

	return writeJSON(populationPath, doc, f.logFailure)
}

// persistedHistoryLimit is the number of evolution events written to
// historyPath on save. It is smaller than the in-memory EventHistoryLimit:
// the in-memory ring buffer keeps more history available for diagnostics
// than is worth persisting to disk on every save.
const persistedHistoryLimit = 100

// SaveHistory writes the last persistedHistoryLimit evolution events to
// historyPath.
func (f *Factory) SaveHistory(historyPath string) error {
	f.mu.RLock()
	history := append([]EvolutionEvent(nil), f.history...)
	f.mu.RUnlock()

	if len(history) > persistedHistoryLimit {
		history = history[len(history)-persistedHistoryLimit:]
	}

	return writeJSON(historyPath, history, f.logFailure)
}

func (f *Factory) logFailure(err error) {
	f.logger.WithError(err).Error("agent factory persistence failure")
}

// LoadPopulation replaces the in-memory population with what is found at
// populationPath. Missing or malformed files are treated as empty state.
func (f *Factory) LoadPopulation(populationPath string) {
	data, err := os.ReadFile(populationPath)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.WithError(err).Warn("failed to read agent population file, starting empty")
		}
		return
	}

	var doc populationDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		f.logger.WithError(err).Warn("agent population file is malformed, starting empty")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = agentMapToPointers(doc.ActiveAgents)
	f.retired = agentMapToPointers(doc.RetiredAgents)
}

// LoadHistory replaces the in-memory evolution history with what is found
// at historyPath.
func (f *Factory) LoadHistory(historyPath string) {
	data, err := os.ReadFile(historyPath)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.WithError(err).Warn("failed to read evolution history file, starting empty")
		}
		return
	}

	var history []EvolutionEvent
	if err := json.Unmarshal(data, &history); err != nil {
		f.logger.WithError(err).Warn("evolution history file is malformed, starting empty")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = history
}

func copyAgentMap(m map[uuid.UUID]*AgentDNA) map[uuid.UUID]AgentDNA {
	out := make(map[uuid.UUID]AgentDNA, len(m))
	for id, a := range m {
		out[id] = *a
	}
	return out
}

func agentMapToPointers(m map[uuid.UUID]AgentDNA) map[uuid.UUID]*AgentDNA {
	out := make(map[uuid.UUID]*AgentDNA, len(m))
	for id, a := range m {
		agent := a
		out[id] = &agent
	}
	return out
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
