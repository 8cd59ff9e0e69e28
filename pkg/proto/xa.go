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

//go:generate mockgen -destination=../../testdata/mock_xa.go -package=testdata . Conn,ConnProvider,Rows,Dialect
package proto

import (
	"context"
)

type (
	// Rows iterates an introspection result set. *sql.Rows satisfies it.
	Rows interface {
		Next() bool
		Scan(dest ...interface{}) error
		Err() error
		Close() error
	}

	// Conn is a dedicated backend connection. A branch owns its Conn
	// exclusively from Begin until a terminal transition: XA state in the
	// resource manager is bound to the physical session, so the Conn must
	// never be shared across logical tasks.
	Conn interface {
		// Exec issues one imperative command and discards its result.
		Exec(ctx context.Context, command string) error

		// Query issues one introspection command and returns its rows.
		Query(ctx context.Context, command string) (Rows, error)

		// Release returns the healthy connection to its pool. Call it only
		// when no branch state is left on the session.
		Release() error

		// Discard drops the physical connection instead of pooling it.
		// Required whenever a command failed mid-protocol: the session may
		// still sit inside a branch and would poison the next borrower.
		Discard() error
	}

	// ConnProvider hands out dedicated connections. Pooling policy lives
	// behind this interface and is not this library's concern.
	ConnProvider interface {
		Acquire(ctx context.Context) (Conn, error)
	}

	// Dialect formats the branch commands for one backend so the state
	// machine stays backend agnostic. Implementations must escape the xid
	// in every formatted command.
	Dialect interface {
		Start(xid Xid) string
		End(xid Xid) string
		Prepare(xid Xid) string
		Commit(xid Xid) string
		CommitOnePhase(xid Xid) string
		Rollback(xid Xid) string

		// Recover returns the command listing all prepared branches.
		Recover() string

		// ReadOnlyVote reports whether err is the backend voting read-only
		// on prepare, which counts as a successful prepare.
		ReadOnlyVote(err error) bool
	}
)
