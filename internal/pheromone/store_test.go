package pheromone

import (
	"os"
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

func newTestStore() *Store {
	return New(config.Default().Pheromone, testLogger())
}

func TestRecordSolutionSuccessCreatesTrail(t *testing.T) {
	s := newTestStore()
	s.RecordSolutionSuccess("programming", "python_script", "CodeAgent", []string{"code_generator", "file_manager"}, true)

	patterns := s.GetBestSolutionPatterns("programming", 3)
	require.Len(t, patterns, 1)
	assert.Equal(t, "python_script", patterns[0])
}

func TestColdStartLearning(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 5; i++ {
		s.RecordSolutionSuccess("programming", "python_script", "CodeAgent",
			[]string{"code_generator", "file_manager"}, true)
	}

	patterns := s.GetBestSolutionPatterns("programming", 3)
	require.NotEmpty(t, patterns)
	assert.Equal(t, "python_script", patterns[0])

	combo, ok := s.GetBestAgentCombination("programming")
	require.True(t, ok)
	assert.Equal(t, "CodeAgent", combo)

	tools := s.GetBestTools("programming", 5)
	assert.Contains(t, tools, "code_generator")
	assert.Contains(t, tools, "file_manager")
}

func TestFailureDecayEvictsTrail(t *testing.T) {
	s := newTestStore()
	s.RecordSolutionSuccess("programming", "python_script", "CodeAgent",
		[]string{"code_generator"}, true)

	for i := 0; i < 20; i++ {
		s.RecordSolutionSuccess("programming", "python_script", "CodeAgent",
			[]string{"code_generator"}, false)
	}

	s.mu.RLock()
	trail := s.taskPheromones["programming"].Trails["python_script"]
	s.mu.RUnlock()
	require.NotNil(t, trail)
	assert.Less(t, trail.Strength, s.cfg.MinStrength*2)

	s.EvaporatePheromones()

	patterns := s.GetBestSolutionPatterns("programming", 3)
	assert.Empty(t, patterns)
}

func TestPheromoneMonotonicity(t *testing.T) {
	s := newTestStore()
	s.RecordSolutionSuccess("analysis", "report", "AnalysisAgent", nil, true)

	s.mu.RLock()
	before := s.taskPheromones["analysis"].Trails["report"].Strength
	s.mu.RUnlock()

	s.RecordSolutionSuccess("analysis", "report", "AnalysisAgent", nil, true)
	s.mu.RLock()
	after := s.taskPheromones["analysis"].Trails["report"].Strength
	s.mu.RUnlock()

	if before < 1.0 {
		assert.Greater(t, after, before)
	} else {
		assert.Equal(t, before, after)
	}

	s.RecordSolutionSuccess("analysis", "report", "AnalysisAgent", nil, false)
	s.mu.RLock()
	afterFail := s.taskPheromones["analysis"].Trails["report"].Strength
	s.mu.RUnlock()

	if after > s.cfg.MinStrength {
		assert.Less(t, afterFail, after)
	} else {
		assert.Equal(t, afterFail, after)
	}
}

func TestEvaporationKeepsStrengthAboveMin(t *testing.T) {
	s := newTestStore()
	s.RecordSolutionSuccess("design", "wireframe", "DesignAgent", []string{"sketch_tool"}, true)

	var strengths []float64
	for i := 0; i < 5; i++ {
		s.EvaporatePheromones()
		s.mu.RLock()
		if trail, ok := s.taskPheromones["design"].Trails["wireframe"]; ok {
			strengths = append(strengths, trail.Strength)
		}
		s.mu.RUnlock()
	}

	for _, v := range strengths {
		assert.GreaterOrEqual(t, v, s.cfg.MinStrength)
	}
}

func TestUnknownTaskTypeReturnsEmpty(t *testing.T) {
	s := newTestStore()
	assert.Empty(t, s.GetBestSolutionPatterns("unknown", 3))
	assert.Empty(t, s.GetBestTools("unknown", 5))
	_, ok := s.GetBestAgentCombination("unknown")
	assert.False(t, ok)
}

func TestRankingDeterminism(t *testing.T) {
	s := newTestStore()
	s.RecordSolutionSuccess("programming", "a", "Combo", nil, true)
	s.RecordSolutionSuccess("programming", "b", "Combo", nil, true)
	s.RecordSolutionSuccess("programming", "c", "Combo", nil, false)

	first := s.GetBestSolutionPatterns("programming", 10)
	second := s.GetBestSolutionPatterns("programming", 10)
	assert.Equal(t, first, second)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore()
	s.RecordSolutionSuccess("programming", "python_script", "CodeAgent", []string{"code_generator"}, true)
	s.RecordSolutionSuccess("analysis", "report", "AnalysisAgent", []string{"data_analysis"}, false)

	dir := t.TempDir()
	path := filepath.Join(dir, "pheromones.json")
	require.NoError(t, s.Save(path))

	fresh := New(config.Default().Pheromone, testLogger())
	fresh.Load(path)

	assert.Equal(t, s.GetBestSolutionPatterns("programming", 3), fresh.GetBestSolutionPatterns("programming", 3))
	stats1 := s.GetStatistics()
	stats2 := fresh.GetStatistics()
	assert.Equal(t, stats1.TotalTrails, stats2.TotalTrails)
	assert.Equal(t, stats1.TaskTypes, stats2.TaskTypes)
}

func TestLoadMalformedFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pheromones.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := newTestStore()
	s.Load(path)
	assert.Empty(t, s.GetStatistics().TaskTypes)
}

func TestGetStatisticsHealth(t *testing.T) {
	s := newTestStore()
	stats := s.GetStatistics()
	assert.Equal(t, 0.0, stats.SystemHealth)

	s.RecordSolutionSuccess("programming", "python_script", "CodeAgent", nil, true)
	stats = s.GetStatistics()
	assert.Greater(t, stats.SystemHealth, 0.0)
	require.Len(t, stats.StrongestTrails, 1)
	assert.Equal(t, "python_script", stats.StrongestTrails[0].SolutionPattern)
}

func TestWithClockOverride(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(config.Default().Pheromone, testLogger(), WithClock(func() time.Time { return fixed }))
	s.RecordSolutionSuccess("programming", "python_script", "CodeAgent", nil, true)

	s.mu.RLock()
	lastUsed := s.taskPheromones["programming"].Trails["python_script"].LastUsed
	s.mu.RUnlock()
	assert.True(t, lastUsed.Equal(fixed))
}
