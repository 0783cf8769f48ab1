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

package congestion

import (
	"fmt"
	"time"

	"github.com/windward-net/windward/pkg/log"
	"github.com/windward-net/windward/pkg/mathext"
)

const (
	// The window is multiplied by renoBetaNumerator / renoBetaDenominator
	// on a loss episode. Integer arithmetic keeps repeated reductions
	// deterministic across platforms.
	renoBetaNumerator   = 7
	renoBetaDenominator = 10

	// The number of losses a recovery episode tolerates before the
	// window is reduced. Losses below this count are attributed to
	// noise or reordering.
	renoLossThreshold = 2
)

// RenoSender implements the modified Reno congestion control algorithm.
// The window grows by one byte per byte acknowledged in slow start, and
// by one datagram per window acknowledged in congestion avoidance.
// Losses within one recovery episode are treated as a single congestion
// signal and reduce the window at most once.
type RenoSender struct {
	windowState

	// Additional context of this RenoSender. Used in the log.
	loggingContext string

	// Acknowledged bytes not yet converted into window growth during
	// congestion avoidance. The remainder carries over between calls
	// so that many small acknowledgments add up without drift.
	stash int64

	// Losses counted within the current recovery episode.
	numLostInEpisode int64
}

var _ SenderAlgorithm = (*RenoSender)(nil)

// NewRenoSender initializes a RenoSender with the given initial window
// in bytes. now is accepted for contract parity with algorithms that
// seed time based state; Reno does not consume it.
func NewRenoSender(loggingContext string, initialWindow int64, now time.Time) *RenoSender {
	if initialWindow <= 0 {
		panic("initial congestion window must be a positive number")
	}
	return &RenoSender{
		windowState:    newWindowState(initialWindow),
		loggingContext: loggingContext,
	}
}

// CongestionWindow returns the current congestion window in bytes.
func (r *RenoSender) CongestionWindow() int64 {
	return r.cwnd
}

// InSlowStart returns true if the window is below the slow start threshold.
func (r *RenoSender) InSlowStart() bool {
	return r.inSlowStart()
}

// OnPacketSent does nothing. Reno reacts to acknowledgments and losses only.
func (r *RenoSender) OnPacketSent(loss *LossState, bytesSent int64, now time.Time) {
}

// OnPacketAcked grows the congestion window from an acknowledgment.
func (r *RenoSender) OnPacketAcked(loss *LossState, bytesAcked, largestAcked, bytesInFlight int64, now time.Time, maxDatagramSize int64) {
	if bytesInFlight < bytesAcked {
		panic(fmt.Sprintf("bytes in flight %d is smaller than bytes acked %d", bytesInFlight, bytesAcked))
	}
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("[RenoSender %s] OnPacketAcked(bytesAcked=%d, largestAcked=%d, bytesInFlight=%d)", r.loggingContext, bytesAcked, largestAcked, bytesInFlight)
	}

	// An acknowledgment for a packet sent before the current recovery
	// episode must not grow the window while the episode is still
	// tolerated. Note the comparison with the loss threshold: losses
	// beyond the threshold keep suppressing growth even though they
	// never reduce the window a second time.
	if largestAcked < r.recoveryEnd && r.numLostInEpisode >= renoLossThreshold {
		return
	}

	// Slow start.
	if r.inSlowStart() {
		r.cwnd += bytesAcked
		r.recordMaximum()
		return
	}

	// Congestion avoidance. Grow the window by one datagram per full
	// window of acknowledged bytes.
	r.stash += bytesAcked
	if r.stash < r.cwnd {
		return
	}
	count := r.stash / r.cwnd
	r.stash -= count * r.cwnd
	r.cwnd += count * maxDatagramSize
	r.recordMaximum()
}

// OnPacketLost counts a loss and reduces the congestion window when the
// current recovery episode reaches the loss threshold.
func (r *RenoSender) OnPacketLost(loss *LossState, bytesLost, lostPacket, nextPacket int64, now time.Time, maxDatagramSize int64) {
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("[RenoSender %s] OnPacketLost(bytesLost=%d, lostPacket=%d, nextPacket=%d)", r.loggingContext, bytesLost, lostPacket, nextPacket)
	}

	// A loss at or beyond the episode boundary opens a new episode
	// that covers the packet numbers up to nextPacket.
	if lostPacket >= r.recoveryEnd {
		r.recoveryEnd = nextPacket
		r.numLostInEpisode = 0
	}

	r.numLostInEpisode++

	// Tolerate losses below the threshold, and reduce the window only
	// once per episode when the count reaches the threshold exactly.
	if r.numLostInEpisode != renoLossThreshold {
		return
	}

	r.numLossEpisodes++
	metricLossEpisodes.Add(1)
	if r.cwndExitingSlowStart == 0 {
		r.cwndExitingSlowStart = r.cwnd
		metricSlowStartExits.Add(1)
	}

	r.cwnd = r.cwnd * renoBetaNumerator / renoBetaDenominator
	r.cwnd = mathext.Max(r.cwnd, minCongestionWindowPackets*maxDatagramSize)
	r.ssthresh = r.cwnd
	r.recordMinimum()

	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("[RenoSender %s] reduced congestion window to %d after %d loss episodes", r.loggingContext, r.cwnd, r.numLossEpisodes)
	}
}

// OnPersistentCongestion does nothing for Reno. The event is still
// counted so that telemetry reflects the condition.
func (r *RenoSender) OnPersistentCongestion(loss *LossState, now time.Time) {
	metricPersistentCongestionEvent.Add(1)
}

// Stats returns a snapshot of the window diagnostics.
func (r *RenoSender) Stats() WindowStats {
	return r.stats("reno")
}
