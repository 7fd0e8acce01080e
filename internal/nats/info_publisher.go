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

package nats

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/udoprog/livemix/internal/node"
)

// Connection interface for dependency injection
type Connection interface {
	Publish(subject string, data []byte) error
	Close()
}

// ConnectionAdapter adapts *nats.Conn to the Connection interface
type ConnectionAdapter struct {
	conn *nats.Conn
}

func NewConnectionAdapter(conn *nats.Conn) *ConnectionAdapter {
	return &ConnectionAdapter{conn: conn}
}

func (a *ConnectionAdapter) Publish(subject string, data []byte) error {
	return a.conn.Publish(subject, data)
}

func (a *ConnectionAdapter) Close() {
	a.conn.Close()
}

// InfoPublisher mirrors a node's info-changed notifications onto NATS
// subjects, one for node-level state and one per port. It registers as
// a node observer, so attaching it to a node immediately publishes a
// full snapshot.
type InfoPublisher struct {
	natsConn Connection
	nodeName string
}

// NewInfoPublisher connects to NATS and returns a publisher for the
// named node.
func NewInfoPublisher(natsURL, nodeName string) (*InfoPublisher, error) {
	// Connect to NATS with retry
	var nc *nats.Conn
	var err error

	for i := 0; i < 5; i++ {
		nc, err = nats.Connect(natsURL)
		if err == nil {
			break
		}
		log.Printf("⚠️  Failed to connect to NATS (attempt %d/5): %v", i+1, err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS after 5 attempts: %w", err)
	}

	log.Printf("✅ Connected to NATS at %s", natsURL)

	return &InfoPublisher{
		natsConn: NewConnectionAdapter(nc),
		nodeName: nodeName,
	}, nil
}

// NewInfoPublisherWithConnection creates a publisher over an existing
// connection (for testing)
func NewInfoPublisherWithConnection(natsConn Connection, nodeName string) *InfoPublisher {
	return &InfoPublisher{
		natsConn: natsConn,
		nodeName: nodeName,
	}
}

// NodeSubject returns the subject node-level events are published to
func (ip *InfoPublisher) NodeSubject() string {
	return fmt.Sprintf("livemix.%s.info", ip.nodeName)
}

// PortSubject returns the subject events for one port are published to
func (ip *InfoPublisher) PortSubject(port int) string {
	return fmt.Sprintf("livemix.%s.port.%d", ip.nodeName, port)
}

// OnNodeInfo publishes a node-level info change
func (ip *InfoPublisher) OnNodeInfo(info node.NodeInfo) {
	data, err := json.Marshal(info)
	if err != nil {
		log.Printf("❌ Failed to marshal node info: %v", err)
		return
	}

	if err := ip.natsConn.Publish(ip.NodeSubject(), data); err != nil {
		log.Printf("❌ Failed to publish node info: %v", err)
	}
}

// OnPortInfo publishes a port-level info change
func (ip *InfoPublisher) OnPortInfo(port int, info node.PortInfo) {
	data, err := json.Marshal(info)
	if err != nil {
		log.Printf("❌ Failed to marshal port %d info: %v", port, err)
		return
	}

	if err := ip.natsConn.Publish(ip.PortSubject(port), data); err != nil {
		log.Printf("❌ Failed to publish port %d info: %v", port, err)
	}
}

// Close closes the NATS connection
func (ip *InfoPublisher) Close() {
	if ip.natsConn != nil {
		ip.natsConn.Close()
		log.Println("🔌 NATS connection closed")
	}
}
