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

// Package node implements a virtual audio source node: a set of output
// ports whose sample format and buffer layout are negotiated with a
// host scheduler through an enumerate/set parameter protocol, and a
// pull dispatcher that fills host-supplied buffers with generated audio
// once per processing quantum.
package node

import (
	"fmt"
	"log"
	"sync"

	"github.com/udoprog/livemix/internal/param"
)

const (
	// MaxPorts bounds the port count fixed at construction.
	MaxPorts = 16

	// DefaultPorts is the port count used when the config leaves it
	// zero.
	DefaultPorts = 2

	// DefaultRate is the advertised default sample rate.
	DefaultRate = 44100

	// BufferSamples sizes the advertised default buffer: one quantum
	// of mono float samples.
	BufferSamples = 128
)

// Config configures a node. Zero fields fall back to defaults.
type Config struct {
	// Name identifies the node towards the host graph.
	Name string

	// Ports is the number of output ports, fixed for the node's
	// lifetime. Ports are never added or removed after construction.
	Ports int

	// SampleRate is the default rate advertised during format
	// enumeration.
	SampleRate uint32

	// Freq and Gain configure the generated tone.
	Freq float64
	Gain float64

	// Logger receives control-path status lines. The node never logs
	// from the dispatch path except on cycle failure.
	Logger *log.Logger
}

// Node is the top-level negotiable unit. All control-path mutation
// (parameter sets, buffer attach, observer changes) and the dispatch
// cycle itself run under one mutex; dispatch holds it only for its
// bounded, allocation-free body, so control-path hold times stay
// bounded by MaxPorts×MaxBuffers work.
type Node struct {
	mu sync.Mutex

	name  string
	log   *log.Logger
	props map[string]string

	changeMask ChangeMask
	params     []param.Descriptor

	ports []*Port
	hooks []*Hook

	rate uint32
	freq float64
	gain float64
}

// New creates a node with a fixed set of output ports.
func New(cfg Config) (*Node, error) {
	if cfg.Name == "" {
		cfg.Name = "livemix"
	}
	if cfg.Ports == 0 {
		cfg.Ports = DefaultPorts
	}
	if cfg.Ports < 0 || cfg.Ports > MaxPorts {
		return nil, fmt.Errorf("%w: port count %d (max %d)", ErrInvalidArgument, cfg.Ports, MaxPorts)
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultRate
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	n := &Node{
		name: cfg.Name,
		log:  cfg.Logger,
		props: map[string]string{
			"media.type":     "Audio",
			"media.category": "Playback",
			"media.role":     "Music",
			"node.name":      cfg.Name,
		},
		changeMask: changeMaskAll,
		params: []param.Descriptor{
			{Category: param.CatPropInfo},
			{Category: param.CatProps, Flags: param.FlagWritable},
			{Category: param.CatEnumFormat, Flags: param.FlagReadable},
			{Category: param.CatFormat, Flags: param.FlagWritable},
		},
		rate: cfg.SampleRate,
		freq: cfg.Freq,
		gain: cfg.Gain,
	}

	for i := 0; i < cfg.Ports; i++ {
		n.ports = append(n.ports, newPort(n, i))
	}

	n.log.Printf("🎛  node %q ready with %d output ports", n.name, len(n.ports))
	return n, nil
}

// Name returns the node name.
func (n *Node) Name() string {
	return n.name
}

// PortCount returns the fixed number of output ports.
func (n *Node) PortCount() int {
	return len(n.ports)
}

// EnumParams enumerates node-level parameters. The node keeps its
// negotiable surface on the ports; node-level enumeration is not
// supported, matching the registry advertised in the info params.
func (n *Node) EnumParams(cat param.Category, start, max uint32, filter *param.Filter) ([]param.Payload, error) {
	return nil, fmt.Errorf("enum params %s: %w", cat, ErrNotSupported)
}

// SetParam stores a node-level parameter. Only the writable Props
// category is accepted; the update is logged, the registry touched and
// a partial info emission follows.
func (n *Node) SetParam(cat param.Category, p param.Payload) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.log.Printf("🎚  set param %s", cat)

	if cat != param.CatProps {
		return fmt.Errorf("set param %s: %w", cat, ErrNotSupported)
	}

	for i := range n.params {
		if n.params[i].Category == cat {
			n.params[i].Touch()
		}
	}
	n.changeMask |= ChangeParams

	n.emitNodeInfo(false)
	n.emitPortInfo(false)
	return nil
}

// SendCommand accepts a host command. The source node has no command
// handling beyond acknowledging it.
func (n *Node) SendCommand(cmd string) error {
	n.log.Printf("📨 command: %s", cmd)
	return nil
}

// Close releases every port's buffer pool, unmapping mapped backings.
func (n *Node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var first error
	for _, p := range n.ports {
		if err := p.pool.Release(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// nodeInfo snapshots node state for observers. Callers hold n.mu.
func (n *Node) nodeInfo() NodeInfo {
	info := NodeInfo{
		Name:           n.name,
		MaxInputPorts:  0,
		MaxOutputPorts: len(n.ports),
		ChangeMask:     n.changeMask,
		Props:          make(map[string]string, len(n.props)),
		Params:         make([]ParamInfo, 0, len(n.params)),
	}
	for k, v := range n.props {
		info.Props[k] = v
	}
	for _, d := range n.params {
		info.Params = append(info.Params, ParamInfo{Category: d.Category, Flags: d.Flags})
	}
	return info
}

// port returns the port at index, or an ErrInvalidArgument error.
func (n *Node) port(i int) (*Port, error) {
	if i < 0 || i >= len(n.ports) {
		return nil, fmt.Errorf("%w: port index %d (have %d ports)", ErrInvalidArgument, i, len(n.ports))
	}
	return n.ports[i], nil
}
