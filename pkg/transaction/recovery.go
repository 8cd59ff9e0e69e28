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
	"strings"
	"unicode/utf8"
)

import (
	"github.com/pkg/errors"
)

import (
	"github.com/txkit-db/txkit/pkg/metrics"
	"github.com/txkit-db/txkit/pkg/proto"
	"github.com/txkit-db/txkit/pkg/util/log"
)

// TransactionInfo is one prepared branch reported by the resource manager's
// introspection command. It only lives for the duration of a recovery pass:
// the resource manager, not this library, is the durable record.
type TransactionInfo struct {
	FormatID    int64
	GtridLength int64
	BqualLength int64

	// Data is the raw xid payload as the resource manager stores it.
	Data []byte

	// Xid is Data decoded with the same encoding xids are created with, so
	// it compares equal to locally known xids. When DecodeOK is false the
	// payload was not valid UTF-8 and Xid holds a lossy rendering.
	Xid      string
	DecodeOK bool
}

// ListPrepared queries the resource manager for every branch parked in the
// Prepared state. A failing query is fatal to the whole recovery pass.
func (p *Participant) ListPrepared(ctx context.Context) ([]TransactionInfo, error) {
	conn, err := p.provider.Acquire(ctx)
	if err != nil {
		return nil, errors.WithStack(&AcquireError{cause: err})
	}

	command := p.dialect.Recover()
	rows, err := conn.Query(ctx, command)
	metrics.ObserveCommand(cmdRecover, err)
	if err != nil {
		_ = conn.Discard()
		return nil, errors.WithStack(&ProtocolError{Command: command, cause: err})
	}

	var infos []TransactionInfo
	for rows.Next() {
		var info TransactionInfo
		if err := rows.Scan(&info.FormatID, &info.GtridLength, &info.BqualLength, &info.Data); err != nil {
			_ = rows.Close()
			_ = conn.Discard()
			return nil, errors.Wrap(err, "scan recover record")
		}
		info.Xid, info.DecodeOK = decodeXid(info.Data)
		if !info.DecodeOK {
			log.Warnf("recover record with format id %d carries a non-utf8 xid payload", info.FormatID)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		_ = conn.Discard()
		return nil, errors.Wrap(err, "iterate recover records")
	}
	if err := rows.Close(); err != nil {
		_ = conn.Discard()
		return nil, errors.WithStack(err)
	}
	return infos, errors.WithStack(conn.Release())
}

// FindPrepared scans the prepared branches for one whose decoded xid equals
// xid. It returns nil when no such branch exists.
func (p *Participant) FindPrepared(ctx context.Context, xid proto.Xid) (*TransactionInfo, error) {
	infos, err := p.ListPrepared(ctx)
	if err != nil {
		return nil, err
	}
	for i := range infos {
		if infos[i].DecodeOK && infos[i].Xid == xid.String() {
			return &infos[i], nil
		}
	}
	return nil, nil
}

// CleanupStale rolls back every prepared branch whose decoded xid starts with
// prefix and returns the number successfully resolved. It is best-effort,
// operator-triggered garbage collection: a branch that fails to roll back is
// logged and skipped so it cannot block cleanup of the rest. Records whose
// payload did not decode are left untouched.
func (p *Participant) CleanupStale(ctx context.Context, prefix string) (int, error) {
	infos, err := p.ListPrepared(ctx)
	if err != nil {
		return 0, err
	}

	var cleaned int
	for i := range infos {
		if !infos[i].DecodeOK || !strings.HasPrefix(infos[i].Xid, prefix) {
			continue
		}
		if err := p.RollbackByXid(ctx, proto.Xid(infos[i].Xid)); err != nil {
			log.Warnf("cleanup skipped stale xa branch %s: %v", infos[i].Xid, err)
			continue
		}
		cleaned++
	}
	return cleaned, nil
}

func decodeXid(data []byte) (string, bool) {
	if utf8.Valid(data) {
		return string(data), true
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), false
}
