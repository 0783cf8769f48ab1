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

// ccsim drives a congestion control algorithm through a synthetic
// acknowledgment and loss trace, and reports how the congestion window
// evolves round trip by round trip.
package main

import (
	"flag"
	mrand "math/rand"
	"time"

	"github.com/windward-net/windward/pkg/congestion"
	"github.com/windward-net/windward/pkg/log"
	"github.com/windward-net/windward/pkg/metrics"
)

var (
	algorithm = flag.String("algorithm", "reno", "Congestion control algorithm: reno or cubic.")
	rounds    = flag.Int("rounds", 100, "Number of round trips to simulate.")
	lossRate  = flag.Float64("loss_rate", 0.01, "Probability that a packet is lost.")
	rttMs     = flag.Int("rtt_ms", 100, "Round trip time in milliseconds.")
	mtu       = flag.Int64("mtu", 1460, "Maximum datagram size in bytes.")
	seed      = flag.Int64("seed", 1, "Random seed of the loss trace.")
)

func main() {
	log.SetFormatter(&log.DaemonFormatter{})
	flag.Parse()
	if *rounds <= 0 {
		log.Fatalf("Invalid number of rounds %d", *rounds)
	}
	if *lossRate < 0 || *lossRate >= 1 {
		log.Fatalf("Invalid loss rate %f", *lossRate)
	}
	if *rttMs <= 0 {
		log.Fatalf("Invalid round trip time %d ms", *rttMs)
	}
	if *mtu <= 0 {
		log.Fatalf("Invalid maximum datagram size %d", *mtu)
	}

	now := time.Now()
	initialWindow := congestion.CalcInitialCongestionWindow(10, *mtu)
	var sender congestion.SenderAlgorithm
	switch *algorithm {
	case "reno":
		sender = congestion.NewRenoSender("ccsim", initialWindow, now)
	case "cubic":
		sender = congestion.NewCubicSender("ccsim", initialWindow, now)
	default:
		log.Fatalf("Unknown algorithm %q", *algorithm)
	}
	log.Infof("Simulating %s with initial congestion window %d", *algorithm, initialWindow)

	loss := congestion.NewLossState()
	rtt := time.Duration(*rttMs) * time.Millisecond
	rng := mrand.New(mrand.NewSource(*seed))
	var nextPacket int64

	for round := 0; round < *rounds; round++ {
		// Fill the congestion window at the beginning of the round.
		numPackets := sender.CongestionWindow() / *mtu
		if numPackets < 1 {
			numPackets = 1
		}
		first := nextPacket
		for i := int64(0); i < numPackets; i++ {
			sender.OnPacketSent(loss, *mtu, now)
			nextPacket++
		}

		// Acknowledgments and losses arrive one round trip later.
		now = now.Add(rtt)
		loss.RTT.UpdateRTT(rtt + time.Duration(rng.Int63n(int64(rtt)/10+1)))
		bytesInFlight := numPackets * *mtu
		for pn := first; pn < nextPacket; pn++ {
			if rng.Float64() < *lossRate {
				sender.OnPacketLost(loss, *mtu, pn, nextPacket, now, *mtu)
			} else {
				sender.OnPacketAcked(loss, *mtu, pn, bytesInFlight, now, *mtu)
			}
			bytesInFlight -= *mtu
		}

		stats := sender.Stats()
		log.WithFields(log.Fields{
			"cwnd":         stats.CongestionWindow,
			"ssthresh":     stats.SlowStartThreshold,
			"lossEpisodes": stats.LossEpisodes,
			"inSlowStart":  stats.InSlowStart,
		}).Infof("round %d", round)
	}

	log.Infof("Final state: %v", sender.Stats())
	log.Infof("Smoothed RTT: %v", loss.RTT.SmoothedRTT())
	metrics.LogMetricsNow()
}
