package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/marketplace/tools/dashgen/dashboards"
	"github.com/donaldgifford/marketplace/tools/dashgen/rules"
	"github.com/donaldgifford/marketplace/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by tools/dashgen. DO NOT EDIT.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// artifact is one generated file, relative to the output directory.
type artifact struct {
	path string
	data []byte
}

func run(cfg Config, validateOnly bool) error {
	artifacts, err := build(cfg)
	if err != nil {
		return err
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	for _, a := range artifacts {
		path := filepath.Join(cfg.OutputDir, a.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, a.data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("dashgen: wrote %s\n", path)
	}
	return nil
}

// build renders and validates every enabled artifact.
func build(cfg Config) ([]artifact, error) {
	var out []artifact

	if cfg.DashboardEnabled {
		dash, err := dashboards.BuildOverview().Build()
		if err != nil {
			return nil, fmt.Errorf("building overview dashboard: %w", err)
		}
		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding overview dashboard: %w", err)
		}

		res, err := validate.Dashboard(data, KnownMetrics)
		if err != nil {
			return nil, err
		}
		if !res.Ok() {
			return nil, fmt.Errorf("overview dashboard: %v", res.Errors)
		}

		out = append(out, artifact{
			path: filepath.Join("grafana", "data", "items-overview.json"),
			data: append(data, '\n'),
		})
	}

	if cfg.RulesEnabled {
		for _, cr := range []rules.PrometheusRule{rules.RecordingRules(), rules.AlertRules()} {
			if res := validate.Rules(cr, KnownMetrics); !res.Ok() {
				return nil, fmt.Errorf("%s: %v", cr.Metadata.Name, res.Errors)
			}
			data, err := yaml.Marshal(cr)
			if err != nil {
				return nil, fmt.Errorf("encoding %s: %w", cr.Metadata.Name, err)
			}
			out = append(out, artifact{
				path: filepath.Join("prometheus", cr.Metadata.Name+".yaml"),
				data: append([]byte(generatedHeader), data...),
			})
		}
	}

	return out, nil
}
