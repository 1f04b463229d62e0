package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomcost/pkg/application/services"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, services.DefaultPolicy(), cfg.Policy)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		EnvLogLevel:  "debug",
		EnvLogFormat: "text",
		EnvHTTPAddr:  "127.0.0.1:9000",
		EnvSeed:      "1234",
		EnvWorkers:   "4",
	}))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, int64(1234), cfg.Policy.MonteCarlo.Seed)
	assert.Equal(t, 4, cfg.Policy.MonteCarlo.Workers)
}

func TestFromEnv_Invalid(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{EnvSeed: "forty-two"}))
	assert.EqualError(t, err, `BOMCOST_MC_SEED: invalid integer "forty-two"`)

	_, err = FromEnv(envMap(map[string]string{EnvWorkers: "0"}))
	assert.EqualError(t, err, "invalid policy: monte carlo workers must be at least 1, got 0")
}

func TestDecodePolicy_OverlaysDefaults(t *testing.T) {
	policy, err := DecodePolicy(strings.NewReader(`
inventory:
  fixedOrderingCost: 75
monteCarlo:
  seed: 7
  material:
    min: 0.9
    max: 1.1
trendYears: 3
`))
	require.NoError(t, err)

	defaults := services.DefaultPolicy()
	assert.Equal(t, 75.0, policy.Inventory.FixedOrderingCost)
	assert.Equal(t, defaults.Inventory.CarryingCostRate, policy.Inventory.CarryingCostRate)
	assert.Equal(t, int64(7), policy.MonteCarlo.Seed)
	assert.Equal(t, 0.9, policy.MonteCarlo.Material.Min)
	assert.Equal(t, defaults.MonteCarlo.Labor, policy.MonteCarlo.Labor)
	assert.Equal(t, 3, policy.TrendYears)
	assert.Equal(t, defaults.Optimization, policy.Optimization)
}

func TestDecodePolicy_Empty(t *testing.T) {
	policy, err := DecodePolicy(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, services.DefaultPolicy(), policy)
}

func TestDecodePolicy_UnknownField(t *testing.T) {
	_, err := DecodePolicy(strings.NewReader("inventory:\n  orderCost: 5\n"))
	assert.Error(t, err)
}

func TestFromEnv_PolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("risk:\n  highRiskThreshold: 0.7\n"), 0o600))

	cfg, err := FromEnv(envMap(map[string]string{EnvPolicyFile: path, EnvSeed: "5"}))
	require.NoError(t, err)

	assert.Equal(t, 0.7, cfg.Policy.Risk.HighRiskThreshold)
	assert.Equal(t, int64(5), cfg.Policy.MonteCarlo.Seed)

	_, err = FromEnv(envMap(map[string]string{EnvPolicyFile: filepath.Join(t.TempDir(), "missing.yaml")}))
	assert.Error(t, err)
}
