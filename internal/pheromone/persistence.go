package pheromone

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// fileSchema is the on-disk JSON shape.
type fileSchema struct {
	TaskPheromones  map[string]taskPheromonesDoc        `json:"task_pheromones"`
	AgentPheromones map[string]AgentPheromone            `json:"agent_pheromones"`
	ToolPheromones  map[string]map[string]toolTrail       `json:"tool_pheromones"`
	SavedAt         time.Time                             `json:"saved_at"`
}

type taskPheromonesDoc struct {
	TaskType           string           `json:"task_type"`
	TotalAttempts      int              `json:"total_attempts"`
	SuccessfulAttempts int              `json:"successful_attempts"`
	Trails             map[string]Trail `json:"trails"`
}

// Save persists the store to path as human-readable JSON. Persistence
// failures are logged and also returned to the caller; the in-memory store
// is left untouched either way.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	doc := s.snapshotLocked()
	s.mu.RUnlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.logger.WithError(err).Error("failed to marshal pheromone state")
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.logger.WithError(err).Error("failed to create pheromone state directory")
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.WithError(err).Error("failed to write pheromone state file")
		return err
	}

	return nil
}

func (s *Store) snapshotLocked() fileSchema {
	doc := fileSchema{
		TaskPheromones:  make(map[string]taskPheromonesDoc, len(s.taskPheromones)),
		AgentPheromones: make(map[string]AgentPheromone, len(s.agentPheromones)),
		ToolPheromones:  make(map[string]map[string]toolTrail, len(s.toolPheromones)),
		SavedAt:         s.now(),
	}

	for taskType, tp := range s.taskPheromones {
		trails := make(map[string]Trail, len(tp.Trails))
		for pattern, t := range tp.Trails {
			trails[pattern] = *t
		}
		doc.TaskPheromones[taskType] = taskPheromonesDoc{
			TaskType:           tp.TaskType,
			TotalAttempts:      tp.TotalAttempts,
			SuccessfulAttempts: tp.SuccessfulAttempts,
			Trails:             trails,
		}
	}

	for combo, ap := range s.agentPheromones {
		doc.AgentPheromones[combo] = *ap
	}

	for taskType, byTool := range s.toolPheromones {
		tools := make(map[string]toolTrail, len(byTool))
		for name, t := range byTool {
			tools[name] = *t
		}
		doc.ToolPheromones[taskType] = tools
	}

	return doc
}

// Load replaces the store's in-memory state with what is found at path. A
// missing file, a malformed file, or any I/O error is logged and treated as
// "start from empty" rather than returned as a fatal error.
func (s *Store) Load(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).Warn("failed to read pheromone state file, starting empty")
		}
		return
	}

	var doc fileSchema
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.WithError(err).Warn("pheromone state file is malformed, starting empty")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.taskPheromones = make(map[string]*TaskPheromones, len(doc.TaskPheromones))
	for taskType, tpDoc := range doc.TaskPheromones {
		trails := make(map[string]*Trail, len(tpDoc.Trails))
		for pattern, t := range tpDoc.Trails {
			trail := t
			trails[pattern] = &trail
		}
		s.taskPheromones[taskType] = &TaskPheromones{
			TaskType:           tpDoc.TaskType,
			TotalAttempts:      tpDoc.TotalAttempts,
			SuccessfulAttempts: tpDoc.SuccessfulAttempts,
			Trails:             trails,
		}
	}

	s.agentPheromones = make(map[string]*AgentPheromone, len(doc.AgentPheromones))
	for combo, ap := range doc.AgentPheromones {
		apCopy := ap
		s.agentPheromones[combo] = &apCopy
	}

	s.toolPheromones = make(map[string]map[string]*toolTrail, len(doc.ToolPheromones))
	for taskType, tools := range doc.ToolPheromones {
		byTool := make(map[string]*toolTrail, len(tools))
		for name, t := range tools {
			tCopy := t
			byTool[name] = &tCopy
		}
		s.toolPheromones[taskType] = byTool
	}

	s.logger.WithFields(map[string]interface{}{
		"task_types":        len(s.taskPheromones),
		"agent_combinations": len(s.agentPheromones),
	}).Info("loaded pheromone state")
}
