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

package transaction

import (
	"github.com/pkg/errors"

	uatomic "go.uber.org/atomic"
)

import (
	"github.com/txkit-db/txkit/pkg/proto"
)

// session is the state shared by every typestate wrapper: the exclusively
// owned connection, the branch xid and a single-use consumption flag. Each
// transition claims the flag with a CAS and hands a fresh session to the next
// state, so a stale value can never drive the protocol twice.
type session struct {
	conn     proto.Conn
	xid      proto.Xid
	consumed uatomic.Bool
}

func newSession(conn proto.Conn, xid proto.Xid) *session {
	return &session{conn: conn, xid: xid}
}

// consume claims the session for exactly one transition.
func (s *session) consume() error {
	if !s.consumed.CAS(false, true) {
		return errors.WithStack(ErrSessionConsumed)
	}
	return nil
}

// next carries conn and xid into the following protocol state.
func (s *session) next() *session {
	return newSession(s.conn, s.xid)
}

// Xid returns the branch identifier.
func (s *session) Xid() proto.Xid {
	return s.xid
}

// Conn exposes the owned connection so callers can run branch work between
// Begin and End. It returns nil once the session was consumed: the connection
// may already be back in the pool or gone.
func (s *session) Conn() proto.Conn {
	if s.consumed.Load() {
		return nil
	}
	return s.conn
}

type (
	// StartedSession is a branch after XA START. Run branch work on Conn(),
	// then pass the session to End or RollbackStarted.
	StartedSession struct {
		*session
	}

	// EndedSession is a branch after XA END. Pass it to Prepare for the full
	// two-phase protocol, or to CommitOnePhase when this is the only branch
	// of the global transaction.
	EndedSession struct {
		*session
	}

	// PreparedSession is a branch after XA PREPARE: the resource manager now
	// guarantees it survives a crash. Pass it to Commit or RollbackPrepared.
	PreparedSession struct {
		*session
	}
)
