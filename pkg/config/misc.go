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

package config

import (
	"time"
)

import (
	"github.com/spf13/cast"
)

// GetConnPropCapacity parses the capacity of the backend connection pool,
// returning defaultValue if absent or invalid.
func GetConnPropCapacity(connProps map[string]interface{}, defaultValue int) int {
	capacity, ok := connProps["capacity"]
	if !ok {
		return defaultValue
	}
	n := cast.ToInt(capacity)
	if n < 1 {
		return defaultValue
	}
	return n
}

// GetConnPropMaxCapacity parses the max capacity of the backend connection
// pool, returning defaultValue if absent or invalid.
func GetConnPropMaxCapacity(connProps map[string]interface{}, defaultValue int) int {
	maxCapacity, ok := connProps["max_capacity"]
	if !ok {
		if maxCapacity, ok = connProps["maxCapacity"]; !ok {
			return defaultValue
		}
	}
	n := cast.ToInt(maxCapacity)
	if n < 1 {
		return defaultValue
	}
	return n
}

// GetConnPropIdleTime parses the idle time of pooled connections, returning
// defaultValue if absent or invalid. Plain numbers are read as seconds.
func GetConnPropIdleTime(connProps map[string]interface{}, defaultValue time.Duration) time.Duration {
	idleTime, ok := connProps["idle_time"]
	if !ok {
		if idleTime, ok = connProps["idleTime"]; !ok {
			return defaultValue
		}
	}
	if n := cast.ToInt64(idleTime); n > 0 {
		return time.Duration(n) * time.Second
	}
	if d := cast.ToDuration(idleTime); d > 0 {
		return d
	}
	return defaultValue
}
