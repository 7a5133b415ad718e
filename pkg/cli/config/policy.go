package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/riskledger/pkg/domain/model/config"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// PolicyFile is the TOML representation of the engine policy. Omitted keys
// keep their default values.
type PolicyFile struct {
	AgingThresholdDays    *int    `toml:"aging_threshold_days"`
	UnitHeadScope         *string `toml:"unit_head_scope"`
	DefaultOwnerName      *string `toml:"default_owner_name"`
	NumberingMaxRetries   *int    `toml:"numbering_max_retries"`
	SweepMinIntervalHours *int    `toml:"sweep_min_interval_hours"`
}

// Validate checks if the PolicyFile is valid
func (p *PolicyFile) Validate() error {
	if p.AgingThresholdDays != nil && *p.AgingThresholdDays < 1 {
		return goerr.Wrap(ErrInvalidConfig, "aging_threshold_days must be positive",
			goerr.V("aging_threshold_days", *p.AgingThresholdDays))
	}
	if p.UnitHeadScope != nil {
		if _, err := types.ParseUnitHeadScope(*p.UnitHeadScope); err != nil {
			return goerr.Wrap(ErrInvalidConfig, "invalid unit_head_scope",
				goerr.V("unit_head_scope", *p.UnitHeadScope))
		}
	}
	if p.DefaultOwnerName != nil && strings.TrimSpace(*p.DefaultOwnerName) == "" {
		return goerr.Wrap(ErrInvalidConfig, "default_owner_name must not be empty")
	}
	if p.NumberingMaxRetries != nil && *p.NumberingMaxRetries < 0 {
		return goerr.Wrap(ErrInvalidConfig, "numbering_max_retries must not be negative",
			goerr.V("numbering_max_retries", *p.NumberingMaxRetries))
	}
	if p.SweepMinIntervalHours != nil && *p.SweepMinIntervalHours < 0 {
		return goerr.Wrap(ErrInvalidConfig, "sweep_min_interval_hours must not be negative",
			goerr.V("sweep_min_interval_hours", *p.SweepMinIntervalHours))
	}
	return nil
}

// ToDomainPolicy applies the file on top of the default policy
func (p *PolicyFile) ToDomainPolicy() *domainConfig.Policy {
	policy := domainConfig.DefaultPolicy()
	if p.AgingThresholdDays != nil {
		policy.AgingThreshold = time.Duration(*p.AgingThresholdDays) * 24 * time.Hour
	}
	if p.UnitHeadScope != nil {
		policy.UnitHeadScope = types.UnitHeadScope(*p.UnitHeadScope)
	}
	if p.DefaultOwnerName != nil {
		policy.DefaultOwnerName = strings.TrimSpace(*p.DefaultOwnerName)
	}
	if p.NumberingMaxRetries != nil {
		policy.NumberingMaxRetries = *p.NumberingMaxRetries
	}
	if p.SweepMinIntervalHours != nil {
		policy.SweepMinInterval = time.Duration(*p.SweepMinIntervalHours) * time.Hour
	}
	return policy
}

// LoadPolicyFile loads the engine policy from a TOML file
func LoadPolicyFile(path string) (*PolicyFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "policy file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read policy file", goerr.V(ConfigPathKey, path))
	}

	var file PolicyFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML policy",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(err, "policy validation failed", goerr.V(ConfigPathKey, path))
	}

	return &file, nil
}

// Policy holds CLI flags for the engine policy
type Policy struct {
	path          string
	unitHeadScope string
}

// Flags returns CLI flags for policy configuration
func (x *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy",
			Category:    "Policy",
			Usage:       "Path to the TOML policy file",
			Sources:     cli.EnvVars("RISKLEDGER_POLICY"),
			Destination: &x.path,
		},
		&cli.StringFlag{
			Name:        "unit-head-scope",
			Category:    "Policy",
			Usage:       "Visibility of unit_head users [organization|department], overrides the policy file",
			Sources:     cli.EnvVars("RISKLEDGER_UNIT_HEAD_SCOPE"),
			Destination: &x.unitHeadScope,
		},
	}
}

// LogValue renders the policy settings
func (x Policy) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.path),
		slog.String("unit_head_scope", x.unitHeadScope),
	)
}

// Configure loads the policy file, if any, and applies flag overrides
func (x *Policy) Configure() (*domainConfig.Policy, error) {
	file := &PolicyFile{}
	if x.path != "" {
		loaded, err := LoadPolicyFile(x.path)
		if err != nil {
			return nil, err
		}
		file = loaded
	}

	if x.unitHeadScope != "" {
		scope := x.unitHeadScope
		file.UnitHeadScope = &scope
		if err := file.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid unit-head-scope flag")
		}
	}

	return file.ToDomainPolicy(), nil
}
