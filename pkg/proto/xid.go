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

package proto

import (
	"strings"
)

import (
	"github.com/google/uuid"

	"github.com/pkg/errors"
)

// ErrInvalidXid is returned when an empty transaction identifier is supplied.
var ErrInvalidXid = errors.New("invalid xid: empty")

// Xid identifies one branch of a global transaction. It is opaque to this
// library: two xids are the same branch iff their raw bytes are equal.
type Xid string

// NewXid validates raw and returns it as an Xid.
func NewXid(raw string) (Xid, error) {
	if len(raw) == 0 {
		return "", errors.WithStack(ErrInvalidXid)
	}
	return Xid(raw), nil
}

// NewRandomXid returns a fresh xid with the given prefix.
func NewRandomXid(prefix string) Xid {
	return Xid(prefix + uuid.NewString())
}

func (x Xid) String() string {
	return string(x)
}

// Escape doubles every single quote so the xid cannot break out of the
// string literal it is interpolated into. Every formatted branch command
// must go through this; skipping it is an injection bug.
func (x Xid) Escape() string {
	return strings.ReplaceAll(string(x), "'", "''")
}
