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

package resource

import (
	"github.com/pkg/errors"
)

import (
	"github.com/txkit-db/txkit/pkg/config"
)

var dataSourceManager *DataSourceManager

// DataSourceManager holds the opened data sources by name.
type DataSourceManager struct {
	dataSources map[string]*DataSource
}

// InitDataSourceManager opens every configured data source.
func InitDataSourceManager(cfgs []*config.DataSource) error {
	dataSources := make(map[string]*DataSource, len(cfgs))
	for _, cfg := range cfgs {
		ds, err := NewDataSource(cfg)
		if err != nil {
			return err
		}
		dataSources[cfg.Name] = ds
	}
	dataSourceManager = &DataSourceManager{dataSources: dataSources}
	return nil
}

func GetDataSourceManager() *DataSourceManager {
	return dataSourceManager
}

func (manager *DataSourceManager) Get(name string) (*DataSource, error) {
	ds, ok := manager.dataSources[name]
	if !ok {
		return nil, errors.Errorf("no such data source: %s", name)
	}
	return ds, nil
}

func (manager *DataSourceManager) Close() error {
	var first error
	for _, ds := range manager.dataSources {
		if err := ds.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
