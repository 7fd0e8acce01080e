/*
 * This file is part of livemix (https://github.com/udoprog/livemix).
 * Copyright (C) 2026 the livemix authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program. If not, see <https://www.gnu.org/licenses/>.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/udoprog/livemix/internal/audio"
	"github.com/udoprog/livemix/internal/nats"
	"github.com/udoprog/livemix/internal/node"
)

func main() {
	// Command line flags
	name := flag.String("name", "livemix-source", "Node name")
	ports := flag.Int("ports", 1, "Number of output ports")
	rate := flag.Int("rate", node.DefaultRate, "Sample rate in Hz")
	freq := flag.Float64("freq", 440.0, "Tone frequency in Hz")
	gain := flag.Float64("gain", 0.2, "Tone gain (0..1)")
	natsURL := flag.String("nats", "", "NATS server URL for info events (empty = disabled)")
	play := flag.Bool("play", false, "Play port 0 through the default audio device")
	duration := flag.Duration("duration", 0, "Run time (0 = until interrupted)")
	flag.Parse()

	log.Printf("🚀 Starting livemix source node")
	log.Printf("📋 Node: %s (%d ports @ %d Hz)", *name, *ports, *rate)

	cfg := nodeConfig(*name, *ports, *rate, *freq, *gain)
	n, err := node.New(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to create node: %v", err)
	}
	defer func() {
		_ = n.Close()
	}()

	if *natsURL != "" {
		publisher, err := nats.NewInfoPublisher(*natsURL, *name)
		if err != nil {
			log.Fatalf("❌ Failed to connect info publisher: %v", err)
		}
		defer publisher.Close()

		hook := n.AddObserver(publisher)
		defer n.RemoveObserver(hook)
		log.Printf("📡 Publishing info events to %s", publisher.NodeSubject())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	if *play {
		player := audio.NewPlayer(n, audio.NewPortAudioBackend(), 0, log.Default())
		if err := player.Run(ctx, 0); err != nil && !cleanShutdown(err) {
			log.Fatalf("❌ Playback failed: %v", err)
		}
	} else {
		log.Printf("💤 Idle: waiting for a host to drive the node (Ctrl+C to stop)")
		<-ctx.Done()
	}

	log.Println("👋 livemix stopped")
}

// nodeConfig assembles the node configuration from flag values.
func nodeConfig(name string, ports, rate int, freq, gain float64) node.Config {
	cfg := node.Config{
		Name:  name,
		Ports: ports,
		Freq:  freq,
		Gain:  gain,
	}
	if rate > 0 {
		cfg.SampleRate = uint32(rate)
	}
	return cfg
}

// cleanShutdown reports whether the error is an expected run-loop exit
// rather than a failure.
func cleanShutdown(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
