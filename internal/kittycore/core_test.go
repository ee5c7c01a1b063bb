package kittycore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittycore/core/internal/config"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.StateDir = t.TempDir()
	return cfg
}

func TestRecommendUnseenTaskTypeHasZeroConfidence(t *testing.T) {
	c := New(testConfig(t), testLogger())
	rec := c.Recommend("unseen_task")
	assert.Empty(t, rec.Patterns)
	assert.Equal(t, 0.0, rec.Confidence)
}

func TestColdStartLearningScenario(t *testing.T) {
	c := New(testConfig(t), testLogger())

	for i := 0; i < 5; i++ {
		c.Record(RecordInput{
			TaskType:   "programming",
			Pattern:    "python_script",
			AgentCombo: "CodeAgent",
			Tools:      []string{"code_generator", "file_manager"},
			Success:    true,
		})
	}

	rec := c.Recommend("programming")
	require.NotEmpty(t, rec.Patterns)
	assert.Equal(t, "python_script", rec.Patterns[0])
	assert.Equal(t, "CodeAgent", rec.AgentCombo)
	assert.Contains(t, rec.Tools, "code_generator")
	assert.Contains(t, rec.Tools, "file_manager")
	assert.GreaterOrEqual(t, rec.Confidence, 0.5)
}

func TestSpawnAgentAndRecordPerformance(t *testing.T) {
	c := New(testConfig(t), testLogger())
	agent := c.SpawnAgent("code", []string{"backend"})
	require.NotNil(t, agent)

	c.Record(RecordInput{
		TaskType: "programming",
		AgentID:  agent.AgentID,
		Success:  true,
		Duration: time.Second,
	})

	stats := c.Stats()
	assert.GreaterOrEqual(t, stats.Agents.Active, 1)
}

func TestGetBestPromptAndRenderPrompt(t *testing.T) {
	c := New(testConfig(t), testLogger())
	prompt := c.GetBestPrompt("code", "")
	require.NotNil(t, prompt)

	rendered := c.RenderPrompt(prompt)
	assert.NotEmpty(t, rendered)
}

func TestEvolveDoesNotPanicOnEmptyState(t *testing.T) {
	c := New(testConfig(t), testLogger())
	c.Evolve() // must not panic
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	c := New(cfg, testLogger())

	agent := c.SpawnAgent("code", nil)
	prompt := c.GetBestPrompt("code", "")
	c.Record(RecordInput{
		TaskType:   "programming",
		Pattern:    "python_script",
		AgentCombo: "CodeAgent",
		Tools:      []string{"code_generator"},
		AgentID:    agent.AgentID,
		PromptID:   prompt.PromptID,
		Success:    true,
		Quality:    0.9,
		Duration:   time.Second,
	})

	require.NoError(t, c.Save())

	fresh := New(cfg, testLogger())
	fresh.Load()

	s1 := c.Stats()
	s2 := fresh.Stats()
	assert.Equal(t, s1.Agents.Total, s2.Agents.Total)
	assert.Equal(t, s1.Prompts.Total, s2.Prompts.Total)
	assert.Equal(t, s1.Pheromones.TaskTypes, s2.Pheromones.TaskTypes)

	rec := fresh.Recommend("programming")
	assert.Equal(t, "python_script", rec.Patterns[0])
}

func TestClosePersistsState(t *testing.T) {
	cfg := testConfig(t)
	c := New(cfg, testLogger())
	c.SpawnAgent("code", nil)
	require.NoError(t, c.Close())

	_, err := filepath.Abs(cfg.StateDir)
	require.NoError(t, err)

	fresh := New(cfg, testLogger())
	fresh.Load()
	assert.GreaterOrEqual(t, fresh.Stats().Agents.Total, 1)
}
