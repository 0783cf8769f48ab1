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
	"testing"
	"time"
)

func TestCubicSlowStart(t *testing.T) {
	now := time.Now()
	loss := NewLossState()
	c := NewCubicSender("test", 14600, now)

	if !c.InSlowStart() {
		t.Errorf("InSlowStart() = %v, want %v", false, true)
	}
	c.OnPacketAcked(loss, 1460, 1, 14600, now, 1460)
	if c.CongestionWindow() != 16060 {
		t.Errorf("CongestionWindow() = %d, want %d", c.CongestionWindow(), 16060)
	}
}

func TestCubicReductionPerEpisode(t *testing.T) {
	now := time.Now()
	loss := NewLossState()
	c := NewCubicSender("test", 14600, now)

	// Cubic reduces on the first loss of an episode.
	c.OnPacketLost(loss, 1460, 1, 10, now, 1460)
	if c.CongestionWindow() != 10220 {
		t.Errorf("CongestionWindow() = %d, want %d", c.CongestionWindow(), 10220)
	}
	stats := c.Stats()
	if stats.SlowStartThreshold != 10220 {
		t.Errorf("SlowStartThreshold = %d, want %d", stats.SlowStartThreshold, 10220)
	}
	if stats.LossEpisodes != 1 {
		t.Errorf("LossEpisodes = %d, want %d", stats.LossEpisodes, 1)
	}

	// More losses within the same episode are ignored.
	c.OnPacketLost(loss, 1460, 2, 10, now, 1460)
	c.OnPacketLost(loss, 1460, 3, 10, now, 1460)
	if c.CongestionWindow() != 10220 {
		t.Errorf("CongestionWindow() = %d, want %d", c.CongestionWindow(), 10220)
	}

	// A loss beyond the episode boundary reduces again.
	c.OnPacketLost(loss, 1460, 10, 20, now, 1460)
	if c.CongestionWindow() != 7154 {
		t.Errorf("CongestionWindow() = %d, want %d", c.CongestionWindow(), 7154)
	}
	if c.Stats().LossEpisodes != 2 {
		t.Errorf("LossEpisodes = %d, want %d", c.Stats().LossEpisodes, 2)
	}
}

func TestCubicWindowGrowth(t *testing.T) {
	now := time.Now()
	loss := NewLossState()
	c := NewCubicSender("test", 14600, now)

	c.OnPacketLost(loss, 1460, 1, 10, now, 1460)
	if c.CongestionWindow() != 10220 {
		t.Fatalf("CongestionWindow() = %d, want %d", c.CongestionWindow(), 10220)
	}

	// Immediately after the reduction the cubic curve sits at the
	// reduced window, so the window does not move.
	c.OnPacketAcked(loss, 1460, 10, 10220, now, 1460)
	if c.CongestionWindow() != 10220 {
		t.Errorf("CongestionWindow() = %d, want %d", c.CongestionWindow(), 10220)
	}

	// Well past the inflection point the window is above the value it
	// had before the reduction.
	later := now.Add(10 * time.Second)
	c.OnPacketAcked(loss, 1460, 11, 10220, later, 1460)
	if c.CongestionWindow() <= 14600 {
		t.Errorf("CongestionWindow() = %d, want a value above %d", c.CongestionWindow(), 14600)
	}
	if c.Stats().MaxWindow != c.CongestionWindow() {
		t.Errorf("MaxWindow = %d, want %d", c.Stats().MaxWindow, c.CongestionWindow())
	}

	// The window is capped.
	muchLater := now.Add(time.Hour)
	c.OnPacketAcked(loss, 1460, 12, c.CongestionWindow(), muchLater, 1460)
	if c.CongestionWindow() != cubicMaxWindowPackets*1460 {
		t.Errorf("CongestionWindow() = %d, want %d", c.CongestionWindow(), int64(cubicMaxWindowPackets*1460))
	}
}

func TestCubicPersistentCongestion(t *testing.T) {
	now := time.Now()
	loss := NewLossState()
	c := NewCubicSender("test", 14600, now)

	c.OnPacketLost(loss, 1460, 1, 10, now, 1460)
	c.OnPersistentCongestion(loss, now)
	if c.CongestionWindow() != 2920 {
		t.Errorf("CongestionWindow() = %d, want %d", c.CongestionWindow(), 2920)
	}
	if !c.InSlowStart() {
		t.Errorf("InSlowStart() = %v, want %v", false, true)
	}
	if c.Stats().MinWindow != 2920 {
		t.Errorf("MinWindow = %d, want %d", c.Stats().MinWindow, 2920)
	}

	// The window recovers in slow start.
	c.OnPacketAcked(loss, 1460, 10, 2920, now, 1460)
	if c.CongestionWindow() != 4380 {
		t.Errorf("CongestionWindow() = %d, want %d", c.CongestionWindow(), 4380)
	}
}

func TestNewCubicSenderInvalidWindow(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("NewCubicSender() with zero initial window did not panic")
		}
	}()
	NewCubicSender("test", 0, time.Now())
}
