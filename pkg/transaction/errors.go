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
	"fmt"
)

import (
	"github.com/pkg/errors"
)

// ErrSessionConsumed is returned when a session is passed into a transition
// after it was already consumed by another one. The branch itself is
// unaffected; only the stale session value is rejected.
var ErrSessionConsumed = errors.New("xa session already consumed")

// AcquireError reports that the connection provider could not supply a
// dedicated connection. The transaction never started.
type AcquireError struct {
	cause error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("acquire xa connection: %v", e.cause)
}

func (e *AcquireError) Unwrap() error {
	return e.cause
}

// ProtocolError reports that the resource manager rejected a command, for
// example a duplicate xid on start or an unknown xid on commit. It is
// surfaced verbatim and never retried: after an ambiguous failure the true
// branch state can only be learned through recovery.
type ProtocolError struct {
	// Command is the formatted command the resource manager rejected.
	Command string

	cause error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.cause)
}

func (e *ProtocolError) Unwrap() error {
	return e.cause
}

// IsProtocolError reports whether err carries a ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsAcquireError reports whether err carries an AcquireError.
func IsAcquireError(err error) bool {
	var ae *AcquireError
	return errors.As(err, &ae)
}
