package promptengine

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

func newTestEngine(seed int64) *Engine {
	return New(config.Default().Prompts, testLogger(), WithSeed(seed))
}

func TestCreateInitialPromptSeedsFromTemplate(t *testing.T) {
	e := newTestEngine(1)
	p := e.CreateInitialPrompt("code")
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Generation)
	assert.Equal(t, "code", p.AgentType)
	assert.NotEmpty(t, p.Genes.RoleDefinition)
	assert.GreaterOrEqual(t, p.Genes.ContextAwareness, 0.4)
	assert.LessOrEqual(t, p.Genes.ContextAwareness, 0.6)
}

func TestPromptFitnessBoundary(t *testing.T) {
	e := newTestEngine(2)
	p := e.CreateInitialPrompt("code")

	assert.Equal(t, 0.5, Fitness(p, e.now()))

	e.RecordPromptPerformance(PromptPerformance{
		PromptID:      p.PromptID,
		TaskType:      "programming",
		Success:       true,
		QualityScore:  1.0,
		ExecutionTime: 0,
	})

	fit := Fitness(p, e.now())
	assert.GreaterOrEqual(t, fit, 0.8)
}

func TestGetBestPromptCreatesWhenNoneExist(t *testing.T) {
	e := newTestEngine(3)
	p := e.GetBestPrompt("analysis", "")
	require.NotNil(t, p)
	assert.Equal(t, "analysis", p.AgentType)
}

func TestGetBestPromptPicksHighestFitness(t *testing.T) {
	e := newTestEngine(4)
	low := e.CreateInitialPrompt("code")
	high := e.CreateInitialPrompt("code")

	e.RecordPromptPerformance(PromptPerformance{PromptID: low.PromptID, Success: false, QualityScore: 0.1})
	e.RecordPromptPerformance(PromptPerformance{PromptID: high.PromptID, Success: true, QualityScore: 1.0})

	best := e.GetBestPrompt("code", "")
	assert.Equal(t, high.PromptID, best.PromptID)
}

func TestRecordPromptPerformanceUnknownIDNoOp(t *testing.T) {
	e := newTestEngine(5)
	e.RecordPromptPerformance(PromptPerformance{PromptID: uuid.New()}) // must not panic
}

func TestCrossoverPromptsLineage(t *testing.T) {
	e := newTestEngine(6)
	a := e.CreateInitialPrompt("code")
	b := e.CreateInitialPrompt("code")

	e.mu.Lock()
	a.SuccessRate = 0.8
	a.UsageCount = 10
	b.SuccessRate = 0.3
	b.UsageCount = 10
	child := e.crossoverPromptsLocked(a, b)
	e.mu.Unlock()

	require.NotNil(t, child)
	assert.Greater(t, child.Generation, a.Generation)
	assert.Greater(t, child.Generation, b.Generation)
	assert.Equal(t, a.Genes.RoleDefinition, child.Genes.RoleDefinition)
	require.Len(t, child.ParentIDs, 2)
	ids := map[uuid.UUID]bool{a.PromptID: true, b.PromptID: true}
	assert.True(t, ids[child.ParentIDs[0]])
	assert.True(t, ids[child.ParentIDs[1]])
}

func TestMutatePromptNeverEmptiesNonEmptyText(t *testing.T) {
	e := newTestEngine(7)
	p := e.CreateInitialPrompt("code")

	for i := 0; i < 50; i++ {
		p = e.MutatePrompt(p, 2.0)
		assert.NotEmpty(t, p.Genes.RoleDefinition)
		assert.NotEmpty(t, p.Genes.TaskInstructions)
	}
}

func TestEvolvePromptsEnforcesMaxPopulation(t *testing.T) {
	cfg := config.Default().Prompts
	cfg.MaxPopulation = 5
	e := New(cfg, testLogger(), WithSeed(8))

	for i := 0; i < 10; i++ {
		e.CreateInitialPrompt("code")
	}
	e.EvolvePrompts("")
	stats := e.GetStatistics()
	assert.LessOrEqual(t, stats.Total, cfg.MaxPopulation)
}

func TestRenderPromptDeterministic(t *testing.T) {
	e := newTestEngine(9)
	p := e.CreateInitialPrompt("code")

	r1 := RenderPrompt(p)
	r2 := RenderPrompt(p)
	assert.Equal(t, r1, r2)
	assert.Contains(t, r1, p.Genes.RoleDefinition)
}

func TestRenderPromptAdaptiveLine(t *testing.T) {
	e := newTestEngine(10)
	p := e.CreateInitialPrompt("code")
	p.Genes.ContextAwareness = 0.9
	p.Genes.UserAdaptation = 0.9
	p.Genes.TaskSpecialization = 0.9

	rendered := RenderPrompt(p)
	assert.Contains(t, rendered, "учитывай контекст")
	assert.Contains(t, rendered, "адаптируй стиль под пользователя")
	assert.Contains(t, rendered, "специализируйся под задачу")
}

func TestPersistenceRoundTrip(t *testing.T) {
	e := newTestEngine(11)
	for i := 0; i < 3; i++ {
		p := e.CreateInitialPrompt("code")
		for j := 0; j < 5; j++ {
			e.RecordPromptPerformance(PromptPerformance{
				PromptID:      p.PromptID,
				Success:       j%2 == 0,
				QualityScore:  0.7,
				ExecutionTime: 1,
				Timestamp:     time.Now(),
			})
		}
	}

	dir := t.TempDir()
	popPath := filepath.Join(dir, "prompt_population.json")
	histPath := filepath.Join(dir, "performance_history.json")
	require.NoError(t, e.SavePromptPopulation(popPath))
	require.NoError(t, e.SavePerformanceHistory(histPath))

	fresh := New(config.Default().Prompts, testLogger())
	fresh.LoadPromptPopulation(popPath)
	fresh.LoadPerformanceHistory(histPath)

	s1 := e.GetStatistics()
	s2 := fresh.GetStatistics()
	assert.Equal(t, s1.Total, s2.Total)
	assert.Equal(t, s1.MaxGeneration, s2.MaxGeneration)
	assert.Equal(t, s1.TotalMutations, s2.TotalMutations)
	assert.Equal(t, s1.TotalCrossovers, s2.TotalCrossovers)
}
