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
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var commandTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "xa_commands_total",
		Help: "Total XA commands issued against the resource manager, by command and outcome.",
	},
	[]string{"command", "outcome"},
)

func init() {
	prometheus.MustRegister(commandTotal)
}

// ObserveCommand records one issued XA command and its outcome.
func ObserveCommand(command string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	commandTotal.WithLabelValues(command, outcome).Inc()
}

// CommandCounter exposes the counter for one (command, outcome) pair so tests
// can assert on increments.
func CommandCounter(command, outcome string) prometheus.Counter {
	return commandTotal.WithLabelValues(command, outcome)
}
