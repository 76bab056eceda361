// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/luna-seek/doris"
)

const (
	cfgFile           = ".doris-scan.yaml"
	defaultMaxWorkers = 5
	defaultBatchSize  = 4064
)

type Config struct {
	MaxScanWorkers int                            `yaml:"max-scan-workers"`
	BatchSize      int                            `yaml:"batch-size"`
	RuntimeFilter  RuntimeFilterConfig            `yaml:"runtime-filter"`
	Columns        map[string]RuntimeFilterConfig `yaml:"column"`
}

// RuntimeFilterConfig tunes the adaptive disabling of runtime-filter
// predicates, globally or per column.
type RuntimeFilterConfig struct {
	SamplingFrequency int     `yaml:"sampling-frequency"`
	IgnoreThreshold   float64 `yaml:"ignore-threshold"`
}

// Policy converts the configured knobs into the predicate layer's policy,
// substituting the default window length when none is set.
func (c RuntimeFilterConfig) Policy() doris.SelectivityPolicy {
	freq := c.SamplingFrequency
	if freq <= 0 {
		freq = doris.DefaultJudgeFrequency
	}

	return doris.SelectivityPolicy{
		JudgeFrequency:  freq,
		IgnoreThreshold: c.IgnoreThreshold,
	}
}

func LoadConfig(configPath string) []byte {
	var path string
	if len(configPath) > 0 {
		path = configPath
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(homeDir, cfgFile)
	}
	file, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	return file
}

// ParseConfig extracts the runtime-filter tuning for one column, or nil
// when the file carries no override for it.
func ParseConfig(file []byte, column string) *RuntimeFilterConfig {
	var config Config
	err := yaml.Unmarshal(file, &config)
	if err != nil {
		return nil
	}
	res, ok := config.Columns[column]
	if !ok {
		return nil
	}

	return &res
}

// PolicyFor resolves the effective selectivity policy for a column: the
// per-column override when present, otherwise the global setting.
func (c Config) PolicyFor(column string) doris.SelectivityPolicy {
	if override, ok := c.Columns[column]; ok {
		return override.Policy()
	}

	return c.RuntimeFilter.Policy()
}

func fromConfigFiles() Config {
	dir := os.Getenv("DORIS_SCAN_HOME")
	if dir != "" {
		dir = filepath.Join(dir, cfgFile)
	}

	var cfg Config
	if err := yaml.Unmarshal(LoadConfig(dir), &cfg); err != nil {
		return cfg
	}

	if cfg.MaxScanWorkers <= 0 {
		cfg.MaxScanWorkers = defaultMaxWorkers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	return cfg
}

var EnvConfig = fromConfigFiles()
