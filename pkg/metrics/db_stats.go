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

package metrics

import (
	"database/sql"
)

import (
	"github.com/prometheus/client_golang/prometheus"
)

type dbStatsCollector struct {
	stats func() sql.DBStats

	maxOpenDesc           *prometheus.Desc
	openDesc              *prometheus.Desc
	inUseDesc             *prometheus.Desc
	idleDesc              *prometheus.Desc
	waitCountDesc         *prometheus.Desc
	waitDurationDesc      *prometheus.Desc
	maxIdleClosedDesc     *prometheus.Desc
	maxLifetimeClosedDesc *prometheus.Desc
}

// NewDBStatsCollector collects connection pool statistics of one data source.
func NewDBStatsCollector(name string, stats func() sql.DBStats) prometheus.Collector {
	labels := prometheus.Labels{"datasource": name}
	return &dbStatsCollector{
		stats:                 stats,
		maxOpenDesc:           prometheus.NewDesc("datasource_pool_max_open", "Maximum number of open connections", nil, labels),
		openDesc:              prometheus.NewDesc("datasource_pool_open", "Open connections, both in use and idle", nil, labels),
		inUseDesc:             prometheus.NewDesc("datasource_pool_in_use", "Connections currently in use", nil, labels),
		idleDesc:              prometheus.NewDesc("datasource_pool_idle", "Idle connections", nil, labels),
		waitCountDesc:         prometheus.NewDesc("datasource_pool_wait_count", "Number of waits for a connection", nil, labels),
		waitDurationDesc:      prometheus.NewDesc("datasource_pool_wait_seconds", "Total time blocked waiting for a connection", nil, labels),
		maxIdleClosedDesc:     prometheus.NewDesc("datasource_pool_max_idle_closed", "Connections closed due to SetMaxIdleConns", nil, labels),
		maxLifetimeClosedDesc: prometheus.NewDesc("datasource_pool_max_lifetime_closed", "Connections closed due to SetConnMaxLifetime", nil, labels),
	}
}

func (c *dbStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.maxOpenDesc
	ch <- c.openDesc
	ch <- c.inUseDesc
	ch <- c.idleDesc
	ch <- c.waitCountDesc
	ch <- c.waitDurationDesc
	ch <- c.maxIdleClosedDesc
	ch <- c.maxLifetimeClosedDesc
}

func (c *dbStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.stats()
	ch <- prometheus.MustNewConstMetric(c.maxOpenDesc, prometheus.GaugeValue, float64(stats.MaxOpenConnections))
	ch <- prometheus.MustNewConstMetric(c.openDesc, prometheus.GaugeValue, float64(stats.OpenConnections))
	ch <- prometheus.MustNewConstMetric(c.inUseDesc, prometheus.GaugeValue, float64(stats.InUse))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(stats.Idle))
	ch <- prometheus.MustNewConstMetric(c.waitCountDesc, prometheus.CounterValue, float64(stats.WaitCount))
	ch <- prometheus.MustNewConstMetric(c.waitDurationDesc, prometheus.CounterValue, stats.WaitDuration.Seconds())
	ch <- prometheus.MustNewConstMetric(c.maxIdleClosedDesc, prometheus.CounterValue, float64(stats.MaxIdleClosed))
	ch <- prometheus.MustNewConstMetric(c.maxLifetimeClosedDesc, prometheus.CounterValue, float64(stats.MaxLifetimeClosed))
}
