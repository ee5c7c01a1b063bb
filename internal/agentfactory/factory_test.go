package agentfactory

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
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

func newTestFactory(seed int64) *Factory {
	return New(config.Default().Agents, testLogger(), WithSeed(seed))
}

func TestSpawnAgentEmptyPopulationCreatesGenerationZero(t *testing.T) {
	f := newTestFactory(1)
	agent := f.SpawnAgent("code", []string{"backend"})
	require.NotNil(t, agent)
	assert.Equal(t, 0, agent.Generation)
	assert.Equal(t, "code", agent.Genes.AgentType)
	assert.Contains(t, agent.Genes.Specialization, "backend")
	assert.GreaterOrEqual(t, agent.Genes.SuccessRate, 0.3)
	assert.LessOrEqual(t, agent.Genes.SuccessRate, 0.7)
}

func TestFitnessRangeForRandomPopulation(t *testing.T) {
	f := newTestFactory(2)
	now := time.Now()
	for i := 0; i < 10; i++ {
		a := f.SpawnAgent("code", nil)
		fit := Fitness(a, now)
		assert.GreaterOrEqual(t, fit, 0.0)
		assert.LessOrEqual(t, fit, 1.0)
	}
}

func TestCrossoverLineage(t *testing.T) {
	f := newTestFactory(3)

	a := f.SpawnAgent("code", nil)
	b := f.SpawnAgent("code", nil)

	f.mu.Lock()
	a.TotalSuccessRate = 0.8
	a.TasksCompleted = 10
	a.Genes.SuccessRate = 0.8
	b.TotalSuccessRate = 0.3
	b.TasksCompleted = 10
	b.Genes.SuccessRate = 0.3

	// exercise crossoverLocked directly so the outcome does not depend on
	// SpawnAgent's additional post-crossover mutation roll.
	c := f.crossoverLocked(a, b)
	f.mu.Unlock()

	require.NotNil(t, c)

	assert.Greater(t, c.Generation, a.Generation)
	assert.Greater(t, c.Generation, b.Generation)
	assert.Equal(t, maxInt(a.Generation, b.Generation)+1, c.Generation)

	ids := map[string]bool{a.AgentID.String(): true, b.AgentID.String(): true}
	require.Len(t, c.ParentIDs, 2)
	for _, pid := range c.ParentIDs {
		assert.True(t, ids[pid.String()])
	}

	expected := 0.7*0.8 + 0.3*0.3
	assert.InDelta(t, expected, c.Genes.SuccessRate, 1e-9)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func TestMutationResistanceInvariant(t *testing.T) {
	f := newTestFactory(4)
	parent := &AgentDNA{
		AgentID: uuid.New(),
		Genes: AgentGenes{
			AgentType:          "code",
			MutationResistance: 1.0,
			ToolEfficiency:     map[string]float64{},
		},
	}
	f.cfg.MutationRate = 0.0

	for i := 0; i < 1000; i++ {
		child := f.mutateAgentLocked(parent, 1.0)
		assert.Same(t, parent, child)
	}
}

func TestUpdateAgentPerformanceUnknownAgentNoOp(t *testing.T) {
	f := newTestFactory(5)
	f.UpdateAgentPerformance(uuid.New(), true, time.Second) // must not panic
}

func TestUpdateAgentPerformanceLearning(t *testing.T) {
	f := newTestFactory(6)
	a := f.SpawnAgent("code", nil)
	before := a.Genes.SuccessRate

	f.UpdateAgentPerformance(a.AgentID, true, time.Second)
	assert.Greater(t, a.Genes.SuccessRate, before-1e-9)
	assert.Equal(t, 1, a.TasksCompleted)
}

func TestPopulationBounds(t *testing.T) {
	cfg := config.Default().Agents
	cfg.MinPopulation = 3
	cfg.MaxPopulation = 5
	f := New(cfg, testLogger(), WithSeed(7))

	for i := 0; i < 20; i++ {
		f.SpawnAgent("code", nil)
		stats := f.GetPopulationStats()
		assert.GreaterOrEqual(t, stats.Active, 0)
		assert.LessOrEqual(t, stats.Active, cfg.MaxPopulation)
	}
}

func TestEvolvePopulationKeepsBounds(t *testing.T) {
	cfg := config.Default().Agents
	cfg.MinPopulation = 4
	cfg.MaxPopulation = 10
	f := New(cfg, testLogger(), WithSeed(8))

	for i := 0; i < 8; i++ {
		f.SpawnAgent("code", nil)
	}

	f.EvolvePopulation(true)
	stats := f.GetPopulationStats()
	assert.GreaterOrEqual(t, stats.Active, cfg.MinPopulation)
	assert.LessOrEqual(t, stats.Active, cfg.MaxPopulation)
}

func TestGetBestAgent(t *testing.T) {
	f := newTestFactory(9)
	f.SpawnAgent("code", nil)
	f.SpawnAgent("web", nil)

	best, ok := f.GetBestAgent("")
	require.True(t, ok)
	assert.NotNil(t, best)

	best2, ok := f.GetBestAgent("web")
	require.True(t, ok)
	assert.Equal(t, "web", best2.Genes.AgentType)

	_, ok = f.GetBestAgent("document")
	assert.False(t, ok)
}

func TestPersistenceRoundTrip(t *testing.T) {
	f := newTestFactory(10)
	for i := 0; i < 3; i++ {
		a := f.SpawnAgent("code", nil)
		f.UpdateAgentPerformance(a.AgentID, true, time.Second)
	}

	dir := t.TempDir()
	popPath := filepath.Join(dir, "population.json")
	histPath := filepath.Join(dir, "evolution_history.json")
	require.NoError(t, f.SavePopulation(popPath))
	require.NoError(t, f.SaveHistory(histPath))

	fresh := New(config.Default().Agents, testLogger())
	fresh.LoadPopulation(popPath)
	fresh.LoadHistory(histPath)

	s1 := f.GetPopulationStats()
	s2 := fresh.GetPopulationStats()
	assert.Equal(t, s1.Total, s2.Total)
	assert.Equal(t, s1.MaxGeneration, s2.MaxGeneration)
	assert.Equal(t, s1.TotalMutations, s2.TotalMutations)
	assert.Equal(t, s1.TotalCrossovers, s2.TotalCrossovers)
}
