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

func TestCalcInitialCongestionWindow(t *testing.T) {
	testcases := []struct {
		maxPackets      int64
		maxDatagramSize int64
		want            int64
	}{
		{1, 9000, 2 * 1472},  // both inputs are clamped
		{10, 1200, 12000},    // no clamping needed
		{0, 1472, 2 * 1472},  // packet count raised to the minimum
		{10, 1472, 14720},    // at the payload ceiling
		{10, 1473, 14720},    // just above the payload ceiling
	}
	for _, tc := range testcases {
		got := CalcInitialCongestionWindow(tc.maxPackets, tc.maxDatagramSize)
		if got != tc.want {
			t.Errorf("CalcInitialCongestionWindow(%d, %d) = %d, want %d", tc.maxPackets, tc.maxDatagramSize, got, tc.want)
		}
	}
}

func TestSenderAlgorithmContract(t *testing.T) {
	now := time.Now()
	loss := NewLossState()
	senders := []SenderAlgorithm{
		NewRenoSender("contract", 14600, now),
		NewCubicSender("contract", 14600, now),
	}
	for _, s := range senders {
		stats := s.Stats()
		if stats.CongestionWindow != 14600 {
			t.Errorf("%s: CongestionWindow = %d, want %d", stats.Algorithm, stats.CongestionWindow, 14600)
		}
		if stats.InitialWindow != 14600 {
			t.Errorf("%s: InitialWindow = %d, want %d", stats.Algorithm, stats.InitialWindow, 14600)
		}
		if !stats.InSlowStart {
			t.Errorf("%s: InSlowStart = %v, want %v", stats.Algorithm, stats.InSlowStart, true)
		}

		// Each algorithm accepts the full event set.
		s.OnPacketSent(loss, 1460, now)
		s.OnPacketAcked(loss, 1460, 1, 14600, now, 1460)
		s.OnPacketLost(loss, 1460, 2, 10, now, 1460)
		s.OnPersistentCongestion(loss, now)
		if s.CongestionWindow() <= 0 {
			t.Errorf("%s: CongestionWindow() = %d, want a positive value", stats.Algorithm, s.CongestionWindow())
		}
	}
}
