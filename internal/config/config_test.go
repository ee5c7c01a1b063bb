package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 0.1, cfg.Pheromone.EvaporationRate)
	assert.Equal(t, 1.5, cfg.Pheromone.ReinforcementFactor)
	assert.Equal(t, 0.1, cfg.Pheromone.MinStrength)
	assert.Equal(t, 7, cfg.Pheromone.ExpiryDays)
	assert.Equal(t, 5, cfg.Agents.MinPopulation)
	assert.Equal(t, 20, cfg.Agents.MaxPopulation)
	assert.Equal(t, 10, cfg.Prompts.MinPopulation)
	assert.Equal(t, 50, cfg.Prompts.MaxPopulation)
}

func TestValidateClampsInvalidValues(t *testing.T) {
	cfg := Default()
	cfg.Pheromone.MinStrength = 1.5
	cfg.Pheromone.EvaporationRate = 0
	cfg.Agents.MinPopulation = 0
	cfg.Agents.MaxPopulation = 1
	cfg.Prompts.MinPopulation = -3

	require_ := assert.New(t)
	err := validate(cfg)
	require_.NoError(err)

	require_.Equal(0.1, cfg.Pheromone.MinStrength)
	require_.Equal(0.1, cfg.Pheromone.EvaporationRate)
	require_.Equal(1, cfg.Agents.MinPopulation)
	require_.GreaterOrEqual(cfg.Agents.MaxPopulation, cfg.Agents.MinPopulation)
	require_.Equal(1, cfg.Prompts.MinPopulation)
}

func TestExpiryDuration(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 7*24, int(cfg.Pheromone.ExpiryDuration().Hours()))
}
