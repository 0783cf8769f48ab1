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

// Package congestion decides how many bytes the sender is allowed to
// keep in flight. The loss detection layer reports acknowledgment and
// loss events to a SenderAlgorithm, and the sender consults the
// congestion window before releasing new packets.
package congestion

import (
	"fmt"
	"math"
	"time"

	"github.com/windward-net/windward/pkg/mathext"
	"github.com/windward-net/windward/pkg/metrics"
)

const (
	// minCongestionWindowPackets is the lower bound of the congestion
	// window after a reduction, in packets.
	minCongestionWindowPackets = 2

	// maxUDPPayloadCeiling is the largest UDP payload size assumed to
	// fit a common 1500 byte path MTU.
	maxUDPPayloadCeiling = 1472

	// maxWindow marks a window value that has not been measured yet.
	maxWindow = math.MaxInt64
)

var (
	metricLossEpisodes              = metrics.RegisterMetric("congestion", "LossEpisodes")
	metricSlowStartExits            = metrics.RegisterMetric("congestion", "SlowStartExits")
	metricPersistentCongestionEvent = metrics.RegisterMetric("congestion", "PersistentCongestionEvents")
)

// SenderAlgorithm is a congestion control algorithm driven by the loss
// detection layer. Implementations are not safe for concurrent use: a
// SenderAlgorithm is owned by a single connection and the owner must
// serialize the handler calls.
//
// All byte counts and packet numbers are int64. Packet numbers increase
// monotonically within a connection or a network path.
type SenderAlgorithm interface {
	// CongestionWindow returns the current congestion window in bytes.
	// The caller computes the send budget by subtracting the bytes in
	// flight from this value.
	CongestionWindow() int64

	// InSlowStart returns true if the window is below the slow start
	// threshold.
	InSlowStart() bool

	// OnPacketSent is invoked when bytes are newly placed in flight.
	OnPacketSent(loss *LossState, bytesSent int64, now time.Time)

	// OnPacketAcked is invoked when the loss detection confirms the
	// delivery of bytesAcked bytes. largestAcked is the highest packet
	// number newly acknowledged. bytesInFlight must not be smaller
	// than bytesAcked.
	OnPacketAcked(loss *LossState, bytesAcked, largestAcked, bytesInFlight int64, now time.Time, maxDatagramSize int64)

	// OnPacketLost is invoked for every packet the loss detection
	// declares lost. nextPacket is the packet number that will be sent
	// next, and bounds the recovery episode opened by this loss.
	OnPacketLost(loss *LossState, bytesLost, lostPacket, nextPacket int64, now time.Time, maxDatagramSize int64)

	// OnPersistentCongestion is invoked when the loss detection
	// observes no acknowledgment for longer than the persistent
	// congestion duration.
	OnPersistentCongestion(loss *LossState, now time.Time)

	// Stats returns a snapshot of the window diagnostics.
	Stats() WindowStats
}

// LossState is the state of the loss detection layer shared with the
// congestion control algorithm. The algorithm must not modify it.
type LossState struct {
	RTT *RTTStats
}

// NewLossState returns a LossState with fresh RTT statistics.
func NewLossState() *LossState {
	return &LossState{RTT: NewRTTStats()}
}

// windowState is the window bookkeeping shared by every algorithm.
// Algorithm specific state lives on the concrete sender type.
type windowState struct {
	// The current congestion window, in bytes.
	cwnd int64

	// The initial congestion window.
	cwndInitial int64

	// The largest and the smallest window values ever reached. The
	// maximum is recorded when the window grows, the minimum when the
	// window is reduced.
	cwndMaximum int64
	cwndMinimum int64

	// The window value recorded the first time the algorithm left slow
	// start because of loss. Zero if that never happened.
	cwndExitingSlowStart int64

	// The slow start threshold. The algorithm is in slow start while
	// cwnd is below this value.
	ssthresh int64

	// The packet number bounding the current loss recovery episode.
	// A loss with a packet number at or above this value opens a new
	// episode.
	recoveryEnd int64

	// The number of recovery episodes that reduced the window.
	numLossEpisodes int64
}

func newWindowState(initialWindow int64) windowState {
	return windowState{
		cwnd:        initialWindow,
		cwndInitial: initialWindow,
		cwndMaximum: initialWindow,
		cwndMinimum: maxWindow,
		ssthresh:    maxWindow,
	}
}

func (s *windowState) recordMaximum() {
	if s.cwndMaximum < s.cwnd {
		s.cwndMaximum = s.cwnd
	}
}

func (s *windowState) recordMinimum() {
	if s.cwndMinimum > s.cwnd {
		s.cwndMinimum = s.cwnd
	}
}

func (s *windowState) inSlowStart() bool {
	return s.cwnd < s.ssthresh
}

// WindowStats is a snapshot of the congestion window diagnostics,
// exported for telemetry.
type WindowStats struct {
	Algorithm              string `json:"algorithm"`
	CongestionWindow       int64  `json:"cwnd"`
	InitialWindow          int64  `json:"cwnd_initial"`
	MaxWindow              int64  `json:"cwnd_maximum"`
	MinWindow              int64  `json:"cwnd_minimum"`
	WindowExitingSlowStart int64  `json:"cwnd_exiting_slow_start"`
	SlowStartThreshold     int64  `json:"ssthresh"`
	LossEpisodes           int64  `json:"num_loss_episodes"`
	InSlowStart            bool   `json:"in_slow_start"`
}

func (s WindowStats) String() string {
	return fmt.Sprintf("WindowStats{Algorithm=%s, CongestionWindow=%d, MaxWindow=%d, MinWindow=%d, SlowStartThreshold=%d, LossEpisodes=%d, InSlowStart=%v}",
		s.Algorithm, s.CongestionWindow, s.MaxWindow, s.MinWindow, s.SlowStartThreshold, s.LossEpisodes, s.InSlowStart)
}

func (s *windowState) stats(algorithm string) WindowStats {
	return WindowStats{
		Algorithm:              algorithm,
		CongestionWindow:       s.cwnd,
		InitialWindow:          s.cwndInitial,
		MaxWindow:              s.cwndMaximum,
		MinWindow:              s.cwndMinimum,
		WindowExitingSlowStart: s.cwndExitingSlowStart,
		SlowStartThreshold:     s.ssthresh,
		LossEpisodes:           s.numLossEpisodes,
		InSlowStart:            s.inSlowStart(),
	}
}

// CalcInitialCongestionWindow returns the initial congestion window in
// bytes given the path limits. maxPackets is raised to the minimum
// window and maxDatagramSize is capped at the UDP payload ceiling
// before multiplying.
func CalcInitialCongestionWindow(maxPackets, maxDatagramSize int64) int64 {
	maxPackets = mathext.Max(maxPackets, int64(minCongestionWindowPackets))
	maxDatagramSize = mathext.Min(maxDatagramSize, int64(maxUDPPayloadCeiling))
	return maxPackets * maxDatagramSize
}
