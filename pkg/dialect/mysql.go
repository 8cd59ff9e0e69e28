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

package dialect

import (
	"fmt"
)

import (
	"github.com/txkit-db/txkit/pkg/proto"
)

var _ proto.Dialect = (*MySQL)(nil)

// MySQL formats the XA command family as MySQL speaks it. XA statements are
// rejected by the prepared-statement protocol, so the xid is interpolated as
// an escaped literal instead of bound as a parameter.
type MySQL struct{}

func (MySQL) Start(xid proto.Xid) string {
	return fmt.Sprintf("XA START '%s'", xid.Escape())
}

func (MySQL) End(xid proto.Xid) string {
	return fmt.Sprintf("XA END '%s'", xid.Escape())
}

func (MySQL) Prepare(xid proto.Xid) string {
	return fmt.Sprintf("XA PREPARE '%s'", xid.Escape())
}

func (MySQL) Commit(xid proto.Xid) string {
	return fmt.Sprintf("XA COMMIT '%s'", xid.Escape())
}

func (MySQL) CommitOnePhase(xid proto.Xid) string {
	return fmt.Sprintf("XA COMMIT '%s' ONE PHASE", xid.Escape())
}

func (MySQL) Rollback(xid proto.Xid) string {
	return fmt.Sprintf("XA ROLLBACK '%s'", xid.Escape())
}

// Recover lists prepared branches as (formatID, gtrid_length, bqual_length, data) rows.
func (MySQL) Recover() string {
	return "XA RECOVER"
}

// ReadOnlyVote always reports false: MySQL prepares read-only branches like
// any other branch instead of voting them out of phase two.
func (MySQL) ReadOnlyVote(error) bool {
	return false
}
