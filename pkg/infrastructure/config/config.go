package config

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/bomcost/pkg/application/services"
)

// Environment variables read by Load
const (
	EnvLogLevel   = "BOMCOST_LOG_LEVEL"
	EnvLogFormat  = "BOMCOST_LOG_FORMAT"
	EnvHTTPAddr   = "BOMCOST_HTTP_ADDR"
	EnvSeed       = "BOMCOST_MC_SEED"
	EnvWorkers    = "BOMCOST_MC_WORKERS"
	EnvPolicyFile = "BOMCOST_POLICY_FILE"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "json"
	defaultHTTPAddr  = ":8080"
)

// Config holds process configuration. Policy already has the policy file,
// seed and worker settings applied.
type Config struct {
	LogLevel   string
	LogFormat  string
	HTTPAddr   string
	PolicyFile string
	Policy     services.Policy
}

// Load reads .env (a missing file is ignored) and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a variable lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		LogLevel:   valueOr(getenv(EnvLogLevel), defaultLogLevel),
		LogFormat:  valueOr(getenv(EnvLogFormat), defaultLogFormat),
		HTTPAddr:   valueOr(getenv(EnvHTTPAddr), defaultHTTPAddr),
		PolicyFile: getenv(EnvPolicyFile),
		Policy:     services.DefaultPolicy(),
	}

	if cfg.PolicyFile != "" {
		policy, err := LoadPolicyFile(cfg.PolicyFile)
		if err != nil {
			return nil, err
		}
		cfg.Policy = policy
	}

	if raw := getenv(EnvSeed); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Errorf("%s: invalid integer %q", EnvSeed, raw)
		}
		cfg.Policy.MonteCarlo.Seed = seed
	}
	if raw := getenv(EnvWorkers); raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Errorf("%s: invalid integer %q", EnvWorkers, raw)
		}
		cfg.Policy.MonteCarlo.Workers = workers
	}

	if err := cfg.Policy.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid policy")
	}
	return cfg, nil
}

// LoadPolicyFile decodes a YAML policy file over the default policy
func LoadPolicyFile(path string) (services.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return services.Policy{}, errors.Wrapf(err, "read policy file %s", path)
	}
	policy, err := DecodePolicy(bytes.NewReader(data))
	if err != nil {
		return services.Policy{}, errors.Wrapf(err, "policy file %s", path)
	}
	return policy, nil
}

// DecodePolicy decodes YAML over the default policy. Fields not present
// in the document keep their defaults; unknown fields are rejected.
func DecodePolicy(r io.Reader) (services.Policy, error) {
	policy := services.DefaultPolicy()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&policy); err != nil && !errors.Is(err, io.EOF) {
		return services.Policy{}, errors.Wrap(err, "decode policy")
	}
	return policy, nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
