package collector

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for an optional on-disk YAML file, letting
// operators check a collector.yaml into their deployment repo instead of
// passing flags. Any field left unset in the file keeps DefaultConfig's
// value.
type fileConfig struct {
	Ingress   string `yaml:"ingress"`
	Egress    string `yaml:"egress"`
	Admin     string `yaml:"admin"`
	StatsCron string `yaml:"stats_cron"`
}

// LoadConfigFile reads a YAML file at path and overlays it onto base.
// A missing file is not an error: base is returned unchanged.
func LoadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return base, err
	}

	cfg := base
	if fc.Ingress != "" {
		cfg.IngressSocketPath = fc.Ingress
	}
	if fc.Egress != "" {
		cfg.EgressAddr = fc.Egress
	}
	if fc.Admin != "" {
		cfg.AdminAddr = fc.Admin
	}
	if fc.StatsCron != "" {
		cfg.StatsCron = fc.StatsCron
	}
	return cfg, nil
}
