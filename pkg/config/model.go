/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"os"
)

import (
	"github.com/creasty/defaults"

	"github.com/go-playground/validator/v10"

	"github.com/pkg/errors"

	"gopkg.in/yaml.v3"
)

import (
	"github.com/txkit-db/txkit/pkg/util/log"
)

type (
	// Configuration is the root config of the txkit tooling.
	Configuration struct {
		DataSources []*DataSource      `yaml:"data_sources" json:"data_sources" validate:"required,dive"`
		Logging     *log.LoggingConfig `yaml:"logging" json:"logging"`
	}

	// DataSource describes one backend resource manager the participant
	// talks to.
	DataSource struct {
		Name      string                 `yaml:"name" json:"name" validate:"required"`
		DSN       string                 `yaml:"dsn" json:"dsn" validate:"required"`
		ConnProps map[string]interface{} `yaml:"conn_props" json:"conn_props,omitempty"`
	}
)

// Load reads, defaults and validates the configuration at path.
func Load(path string) (*Configuration, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	var cfg Configuration
	if err = yaml.Unmarshal(content, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err = defaults.Set(&cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	if err = Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the input configuration.
func Validate(cfg *Configuration) error {
	v := validator.New()
	return v.Struct(cfg)
}

// DataSource returns the named data source, or the first one when name is
// empty.
func (c *Configuration) DataSource(name string) (*DataSource, error) {
	if len(c.DataSources) == 0 {
		return nil, errors.New("no data source configured")
	}
	if name == "" {
		return c.DataSources[0], nil
	}
	for _, ds := range c.DataSources {
		if ds.Name == name {
			return ds, nil
		}
	}
	return nil, errors.Errorf("no such data source: %s", name)
}
