// Copyright (C) 2026  windward authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/windward-net/windward/pkg/log"
)

var (
	logTicker   *time.Ticker
	logDuration = time.Minute
	logDone     chan struct{}
	logMutex    sync.Mutex
)

// EnableLogging starts printing metrics to the log periodically.
func EnableLogging() {
	logMutex.Lock()
	defer logMutex.Unlock()
	if logTicker == nil {
		logTicker = time.NewTicker(logDuration)
		logDone = make(chan struct{})
		go logMetricsLoop(logTicker, logDone)
		log.Infof("enabled metrics logging with duration %v", logDuration)
	}
}

// DisableLogging stops printing metrics to the log.
func DisableLogging() {
	logMutex.Lock()
	defer logMutex.Unlock()
	if logTicker != nil {
		close(logDone)
		logTicker.Stop()
		logTicker = nil
		log.Infof("disabled metrics logging")
	}
}

// SetLoggingDuration sets the metrics logging time interval.
func SetLoggingDuration(duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be a positive number")
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	logDuration = duration
	return nil
}

// LogMetricsNow writes all metric groups that enabled logging to the
// log immediately.
func LogMetricsNow() {
	for _, group := range GetMetricGroupList() {
		if group.IsLoggingEnabled() {
			log.WithFields(group.NewLogFields()).Infof("%s", group.NewLogMsg())
		}
	}
}

func logMetricsLoop(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-ticker.C:
			LogMetricsNow()
		case <-done:
			return
		}
	}
}
