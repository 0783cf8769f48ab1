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
	"math"
	"time"

	"github.com/windward-net/windward/pkg/log"
	"github.com/windward-net/windward/pkg/mathext"
)

const (
	// The window is multiplied by cubicBetaNumerator / cubicBetaDenominator
	// on a loss episode, matching the beta of the cubic curve below.
	cubicBetaNumerator   = 7
	cubicBetaDenominator = 10

	cubicBeta float64 = 0.7
	cubicC    float64 = 0.4

	// Cubic reduces the window on the first loss of every episode.
	cubicLossThreshold = 1

	// The largest window cubic can reach, in packets.
	cubicMaxWindowPackets = 4096
)

// CubicSender implements the cubic congestion control algorithm behind
// the same contract as RenoSender. Slow start is identical to Reno.
// In congestion avoidance the window follows the cubic curve
// W(t) = C*(t-K)^3 + Wmax anchored at the last reduction, where Wmax is
// the window before that reduction, measured in packets.
type CubicSender struct {
	windowState

	// Additional context of this CubicSender. Used in the log.
	loggingContext string

	// Losses counted within the current recovery episode.
	numLostInEpisode int64

	// The window value before the last reduction, in bytes. Zero when
	// no cubic epoch is active.
	windowBeforeReduction int64

	// The time of the last reduction, anchoring the cubic curve.
	lastReductionTime time.Time

	// The most recent datagram size reported by the loss detection.
	// Used by handlers that do not receive it as an argument.
	lastDatagramSize int64
}

var _ SenderAlgorithm = (*CubicSender)(nil)

// NewCubicSender initializes a CubicSender with the given initial
// window in bytes. now is accepted for contract parity; the cubic epoch
// is anchored at the first reduction, not at construction.
func NewCubicSender(loggingContext string, initialWindow int64, now time.Time) *CubicSender {
	if initialWindow <= 0 {
		panic("initial congestion window must be a positive number")
	}
	return &CubicSender{
		windowState:      newWindowState(initialWindow),
		loggingContext:   loggingContext,
		lastDatagramSize: maxUDPPayloadCeiling,
	}
}

// CongestionWindow returns the current congestion window in bytes.
func (c *CubicSender) CongestionWindow() int64 {
	return c.cwnd
}

// InSlowStart returns true if the window is below the slow start threshold.
func (c *CubicSender) InSlowStart() bool {
	return c.inSlowStart()
}

// OnPacketSent does nothing. Cubic reacts to acknowledgments and losses only.
func (c *CubicSender) OnPacketSent(loss *LossState, bytesSent int64, now time.Time) {
}

// OnPacketAcked grows the congestion window from an acknowledgment.
func (c *CubicSender) OnPacketAcked(loss *LossState, bytesAcked, largestAcked, bytesInFlight int64, now time.Time, maxDatagramSize int64) {
	if bytesInFlight < bytesAcked {
		panic(fmt.Sprintf("bytes in flight %d is smaller than bytes acked %d", bytesInFlight, bytesAcked))
	}
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("[CubicSender %s] OnPacketAcked(bytesAcked=%d, largestAcked=%d, bytesInFlight=%d)", c.loggingContext, bytesAcked, largestAcked, bytesInFlight)
	}
	c.lastDatagramSize = maxDatagramSize

	// Suppress growth for acknowledgments of packets sent before the
	// current recovery episode.
	if largestAcked < c.recoveryEnd && c.numLostInEpisode >= cubicLossThreshold {
		return
	}

	// Slow start.
	if c.inSlowStart() {
		c.cwnd += bytesAcked
		c.recordMaximum()
		return
	}

	// Congestion avoidance. Follow the cubic curve anchored at the
	// last reduction. A fresh anchor is created if the epoch was
	// cleared, for example after a persistent congestion collapse.
	if c.windowBeforeReduction <= 0 {
		c.windowBeforeReduction = c.cwnd
		c.lastReductionTime = now
	}

	wmax := float64(c.windowBeforeReduction) / float64(maxDatagramSize)
	k := math.Cbrt(wmax * (1 - cubicBeta) / cubicC)
	t := now.Sub(c.lastReductionTime).Seconds()
	d := t - k
	target := int64((cubicC*d*d*d + wmax) * float64(maxDatagramSize))
	target = mathext.Clamp(target, minCongestionWindowPackets*maxDatagramSize, cubicMaxWindowPackets*maxDatagramSize)

	// The window never shrinks between reductions.
	if target > c.cwnd {
		c.cwnd = target
		c.recordMaximum()
	}
}

// OnPacketLost reduces the congestion window on the first loss of every
// recovery episode.
func (c *CubicSender) OnPacketLost(loss *LossState, bytesLost, lostPacket, nextPacket int64, now time.Time, maxDatagramSize int64) {
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("[CubicSender %s] OnPacketLost(bytesLost=%d, lostPacket=%d, nextPacket=%d)", c.loggingContext, bytesLost, lostPacket, nextPacket)
	}
	c.lastDatagramSize = maxDatagramSize

	if lostPacket >= c.recoveryEnd {
		c.recoveryEnd = nextPacket
		c.numLostInEpisode = 0
	}

	c.numLostInEpisode++

	if c.numLostInEpisode != cubicLossThreshold {
		return
	}

	c.numLossEpisodes++
	metricLossEpisodes.Add(1)
	if c.cwndExitingSlowStart == 0 {
		c.cwndExitingSlowStart = c.cwnd
		metricSlowStartExits.Add(1)
	}

	c.windowBeforeReduction = c.cwnd
	c.lastReductionTime = now
	c.cwnd = c.cwnd * cubicBetaNumerator / cubicBetaDenominator
	c.cwnd = mathext.Max(c.cwnd, minCongestionWindowPackets*maxDatagramSize)
	c.ssthresh = c.cwnd
	c.recordMinimum()

	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("[CubicSender %s] reduced congestion window to %d after %d loss episodes", c.loggingContext, c.cwnd, c.numLossEpisodes)
	}
}

// OnPersistentCongestion collapses the window to the minimum and clears
// the cubic epoch. The slow start threshold is left in place, so the
// algorithm re-enters slow start until the previous threshold is
// reached again.
func (c *CubicSender) OnPersistentCongestion(loss *LossState, now time.Time) {
	metricPersistentCongestionEvent.Add(1)

	c.cwnd = minCongestionWindowPackets * c.lastDatagramSize
	c.windowBeforeReduction = 0
	c.lastReductionTime = time.Time{}
	c.recordMinimum()

	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("[CubicSender %s] collapsed congestion window to %d on persistent congestion", c.loggingContext, c.cwnd)
	}
}

// Stats returns a snapshot of the window diagnostics.
func (c *CubicSender) Stats() WindowStats {
	return c.stats("cubic")
}
