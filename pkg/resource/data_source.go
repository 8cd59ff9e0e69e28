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
	"context"
	"database/sql"
	"database/sql/driver"
	"time"
)

import (
	_ "github.com/go-sql-driver/mysql" // register mysql

	"github.com/pkg/errors"

	"github.com/prometheus/client_golang/prometheus"
)

import (
	"github.com/txkit-db/txkit/pkg/config"
	"github.com/txkit-db/txkit/pkg/metrics"
	"github.com/txkit-db/txkit/pkg/proto"
)

const (
	_defaultCapacity    = 4
	_defaultMaxCapacity = 16
	_defaultIdleTime    = 30 * time.Minute
)

var _ proto.ConnProvider = (*DataSource)(nil)

// DataSource owns one backend connection pool and hands out the dedicated
// connections XA branches require. The pool itself is database/sql; this type
// only adapts its acquire/release contract.
type DataSource struct {
	name string
	db   *sql.DB
}

// NewDataSource opens a pool for cfg. Pool sizing comes from the conn props
// (capacity, max_capacity, idle_time).
func NewDataSource(cfg *config.DataSource) (*DataSource, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "open data source %s", cfg.Name)
	}
	db.SetMaxIdleConns(config.GetConnPropCapacity(cfg.ConnProps, _defaultCapacity))
	db.SetMaxOpenConns(config.GetConnPropMaxCapacity(cfg.ConnProps, _defaultMaxCapacity))
	db.SetConnMaxIdleTime(config.GetConnPropIdleTime(cfg.ConnProps, _defaultIdleTime))

	collector := metrics.NewDBStatsCollector(cfg.Name, db.Stats)
	if err := prometheus.Register(collector); err != nil {
		// a reopened data source keeps the collector of its first life
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			_ = db.Close()
			return nil, errors.WithStack(err)
		}
	}

	return &DataSource{name: cfg.Name, db: db}, nil
}

func (ds *DataSource) Name() string {
	return ds.name
}

// DB exposes the underlying pool for tests and advanced callers.
func (ds *DataSource) DB() *sql.DB {
	return ds.db
}

func (ds *DataSource) Close() error {
	return errors.WithStack(ds.db.Close())
}

// Acquire checks one connection out of the pool. The caller owns it
// exclusively until Release or Discard.
func (ds *DataSource) Acquire(ctx context.Context) (proto.Conn, error) {
	conn, err := ds.db.Conn(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "acquire connection from %s", ds.name)
	}
	return &pooledConn{conn: conn}, nil
}

type pooledConn struct {
	conn *sql.Conn
}

func (c *pooledConn) Exec(ctx context.Context, command string) error {
	_, err := c.conn.ExecContext(ctx, command)
	return err
}

func (c *pooledConn) Query(ctx context.Context, command string) (proto.Rows, error) {
	return c.conn.QueryContext(ctx, command)
}

func (c *pooledConn) Release() error {
	return c.conn.Close()
}

// Discard marks the physical connection bad so the pool drops it instead of
// reusing a session that may still sit inside an XA branch.
func (c *pooledConn) Discard() error {
	if err := c.conn.Raw(func(interface{}) error {
		return driver.ErrBadConn
	}); err != nil && err != driver.ErrBadConn {
		return err
	}
	if err := c.conn.Close(); err != nil && err != sql.ErrConnDone {
		return err
	}
	return nil
}
