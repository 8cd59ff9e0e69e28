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
	"context"
)

import (
	"github.com/pkg/errors"
)

import (
	"github.com/txkit-db/txkit/pkg/dialect"
	"github.com/txkit-db/txkit/pkg/metrics"
	"github.com/txkit-db/txkit/pkg/proto"
	"github.com/txkit-db/txkit/pkg/util/log"
)

const (
	cmdStart          = "start"
	cmdEnd            = "end"
	cmdPrepare        = "prepare"
	cmdCommit         = "commit"
	cmdCommitOnePhase = "commit_one_phase"
	cmdRollback       = "rollback"
	cmdRecover        = "recover"
)

// Participant drives one resource manager's side of a two-phase commit. It
// holds no transactional state, only the connection provider and the command
// dialect, so one value can be shared by any number of concurrent callers;
// every Begin yields an independent session owning its own connection.
//
// The session types make illegal transitions unrepresentable for compliant
// callers and fault loudly (ErrSessionConsumed) on reuse of a stale value.
type Participant struct {
	provider proto.ConnProvider
	dialect  proto.Dialect
}

// Option customizes a Participant.
type Option func(*Participant)

// WithDialect overrides the default MySQL command dialect.
func WithDialect(d proto.Dialect) Option {
	return func(p *Participant) {
		p.dialect = d
	}
}

// NewParticipant builds a participant over the given connection provider.
func NewParticipant(provider proto.ConnProvider, opts ...Option) *Participant {
	p := &Participant{
		provider: provider,
		dialect:  dialect.MySQL{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Begin acquires a dedicated connection and starts a new branch under xid,
// returning the session that owns the connection from here on.
func (p *Participant) Begin(ctx context.Context, xid proto.Xid) (*StartedSession, error) {
	if len(xid) == 0 {
		return nil, errors.WithStack(proto.ErrInvalidXid)
	}
	conn, err := p.provider.Acquire(ctx)
	if err != nil {
		return nil, errors.WithStack(&AcquireError{cause: err})
	}
	if err := p.exec(ctx, conn, cmdStart, p.dialect.Start(xid)); err != nil {
		_ = conn.Discard()
		return nil, err
	}
	log.Debugf("xa branch %s started", xid)
	return &StartedSession{newSession(conn, xid)}, nil
}

// End closes the work phase of the branch. The started session is consumed;
// on success the branch continues as an EndedSession.
func (p *Participant) End(ctx context.Context, s *StartedSession) (*EndedSession, error) {
	if err := s.consume(); err != nil {
		return nil, err
	}
	if err := p.exec(ctx, s.conn, cmdEnd, p.dialect.End(s.xid)); err != nil {
		_ = s.conn.Discard()
		return nil, err
	}
	return &EndedSession{s.next()}, nil
}

// Prepare votes the branch into the durable Prepared state. A read-only vote
// from the resource manager counts as a successful prepare.
func (p *Participant) Prepare(ctx context.Context, s *EndedSession) (*PreparedSession, error) {
	if err := s.consume(); err != nil {
		return nil, err
	}
	command := p.dialect.Prepare(s.xid)
	err := s.conn.Exec(ctx, command)
	if err != nil && p.dialect.ReadOnlyVote(err) {
		log.Debugf("xa branch %s voted read-only on prepare", s.xid)
		err = nil
	}
	metrics.ObserveCommand(cmdPrepare, err)
	if err != nil {
		_ = s.conn.Discard()
		return nil, errors.WithStack(&ProtocolError{Command: command, cause: err})
	}
	log.Debugf("xa branch %s prepared", s.xid)
	return &PreparedSession{s.next()}, nil
}

// Commit completes the second phase for a prepared branch and releases the
// connection. If it fails, the true branch outcome is unknown to the caller
// and must be learned through recovery.
func (p *Participant) Commit(ctx context.Context, s *PreparedSession) error {
	if err := s.consume(); err != nil {
		return err
	}
	return p.finish(ctx, s.session, cmdCommit, p.dialect.Commit(s.xid))
}

// CommitOnePhase commits an ended branch without a prepare vote. Valid only
// when this branch is the sole participant of the global transaction: the
// caller is responsible for that precondition, because skipping the vote
// forfeits the durability guarantee recovery depends on.
func (p *Participant) CommitOnePhase(ctx context.Context, s *EndedSession) error {
	if err := s.consume(); err != nil {
		return err
	}
	return p.finish(ctx, s.session, cmdCommitOnePhase, p.dialect.CommitOnePhase(s.xid))
}

// RollbackStarted aborts a branch that never reached the work-phase end.
func (p *Participant) RollbackStarted(ctx context.Context, s *StartedSession) error {
	if err := s.consume(); err != nil {
		return err
	}
	return p.finish(ctx, s.session, cmdRollback, p.dialect.Rollback(s.xid))
}

// RollbackPrepared aborts a prepared branch.
func (p *Participant) RollbackPrepared(ctx context.Context, s *PreparedSession) error {
	if err := s.consume(); err != nil {
		return err
	}
	return p.finish(ctx, s.session, cmdRollback, p.dialect.Rollback(s.xid))
}

// CommitByXid commits a prepared branch on a fresh connection, with no held
// session and no typestate checking. For recovery only: the caller must have
// established through ListPrepared that the branch really is prepared, or the
// resource manager will answer with a protocol error.
func (p *Participant) CommitByXid(ctx context.Context, xid proto.Xid) error {
	if len(xid) == 0 {
		return errors.WithStack(proto.ErrInvalidXid)
	}
	return p.execFresh(ctx, cmdCommit, p.dialect.Commit(xid))
}

// RollbackByXid rolls back a prepared branch on a fresh connection. See
// CommitByXid for the contract.
func (p *Participant) RollbackByXid(ctx context.Context, xid proto.Xid) error {
	if len(xid) == 0 {
		return errors.WithStack(proto.ErrInvalidXid)
	}
	return p.execFresh(ctx, cmdRollback, p.dialect.Rollback(xid))
}

func (p *Participant) exec(ctx context.Context, conn proto.Conn, verb, command string) error {
	err := conn.Exec(ctx, command)
	metrics.ObserveCommand(verb, err)
	if err != nil {
		return errors.WithStack(&ProtocolError{Command: command, cause: err})
	}
	return nil
}

// finish runs a terminal command. Success releases the connection back to the
// pool; failure discards it, since the session may still sit inside the
// branch.
func (p *Participant) finish(ctx context.Context, s *session, verb, command string) error {
	if err := p.exec(ctx, s.conn, verb, command); err != nil {
		_ = s.conn.Discard()
		return err
	}
	log.Debugf("xa branch %s finished: %s", s.xid, verb)
	return errors.WithStack(s.conn.Release())
}

// execFresh runs one xid-addressed command on a connection acquired just for
// it.
func (p *Participant) execFresh(ctx context.Context, verb, command string) error {
	conn, err := p.provider.Acquire(ctx)
	if err != nil {
		return errors.WithStack(&AcquireError{cause: err})
	}
	if err := p.exec(ctx, conn, verb, command); err != nil {
		_ = conn.Discard()
		return err
	}
	return errors.WithStack(conn.Release())
}
