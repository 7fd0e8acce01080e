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

package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"math"

	"github.com/udoprog/livemix/internal/buffer"
	"github.com/udoprog/livemix/internal/control"
	"github.com/udoprog/livemix/internal/host"
	"github.com/udoprog/livemix/internal/node"
	"github.com/udoprog/livemix/internal/param"
)

// Player drives a source node the way a media host would: it
// negotiates a float32 format on one port, allocates and attaches
// buffers, then runs the pull cycle and hands each produced period to
// a playback backend.
type Player struct {
	node    *node.Node
	backend Backend
	log     *log.Logger
	port    int

	io      *host.IOArea
	ctl     *host.ControlArea
	format  param.Format
	scratch []float32
}

// NewPlayer creates a player that plays the given port of the node
// through the backend.
func NewPlayer(n *node.Node, backend Backend, port int, logger *log.Logger) *Player {
	return &Player{
		node:    n,
		backend: backend,
		log:     logger,
		port:    port,
	}
}

// Run negotiates with the node and plays until the context is
// cancelled, or for the given number of cycles if cycles is positive.
func (p *Player) Run(ctx context.Context, cycles int) error {
	if err := p.backend.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize audio backend: %w", err)
	}
	defer func() {
		_ = p.backend.Terminate()
	}()

	frames, err := p.negotiate()
	if err != nil {
		return err
	}

	stream, err := p.backend.OpenOutput(float64(p.format.Rate), int(p.format.Channels), frames)
	if err != nil {
		return fmt.Errorf("failed to open playback stream: %w", err)
	}
	defer func() {
		_ = stream.Close()
	}()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start playback stream: %w", err)
	}
	defer func() {
		_ = stream.Stop()
	}()

	p.log.Printf("🔊 playing %s %dch @ %d Hz, %d frames per cycle",
		p.format.Encoding, p.format.Channels, p.format.Rate, frames)

	for cycle := 0; cycles <= 0 || cycle < cycles; cycle++ {
		select {
		case <-ctx.Done():
			p.log.Printf("🛑 playback stopped")
			return ctx.Err()
		default:
		}

		if err := p.cycle(stream); err != nil {
			return err
		}
	}

	return nil
}

// negotiate picks a float32 interleaved format from the port's
// advertised candidates, sets it, and attaches the buffer layout the
// port asks for. Returns the number of frames per buffer.
func (p *Player) negotiate() (int, error) {
	want := param.EncodingF32
	filter := &param.Filter{Encoding: &want}

	candidates, err := p.node.PortEnumParams(p.port, param.CatEnumFormat, 0, 1, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate formats: %w", err)
	}
	if len(candidates) == 0 {
		return 0, fmt.Errorf("port %d offers no float32 format", p.port)
	}
	space, ok := candidates[0].(param.EnumFormat)
	if !ok {
		return 0, fmt.Errorf("unexpected format candidate %T", candidates[0])
	}

	p.format = param.Format{
		Encoding: want,
		Rate:     space.Rate.Def,
		Channels: space.Channels.Def,
	}
	if err := p.node.PortSetParam(p.port, param.CatFormat, p.format); err != nil {
		return 0, fmt.Errorf("failed to set format: %w", err)
	}

	candidates, err = p.node.PortEnumParams(p.port, param.CatBuffers, 0, 1, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate buffer layouts: %w", err)
	}
	if len(candidates) == 0 {
		return 0, fmt.Errorf("port %d offers no buffer layout", p.port)
	}
	layout, ok := candidates[0].(param.Buffers)
	if !ok {
		return 0, fmt.Errorf("unexpected buffer candidate %T", candidates[0])
	}

	count := int(layout.Buffers.Def)
	size := int(layout.Size.Def)

	descs := make([]buffer.Descriptor, count)
	for i := range descs {
		descs[i] = buffer.Descriptor{Planes: []buffer.PlaneDescriptor{{
			Data:    make([]byte, size),
			MaxSize: uint32(size),
		}}}
	}
	if err := p.node.PortUseBuffers(p.port, descs); err != nil {
		return 0, fmt.Errorf("failed to attach buffers: %w", err)
	}

	p.io = host.NewIOArea()
	if err := p.node.PortBindIO(p.port, p.io); err != nil {
		return 0, err
	}
	p.ctl = host.NewControlArea(control.EnvelopeSize + 1024)
	if err := p.node.PortBindControl(p.port, p.ctl); err != nil {
		return 0, err
	}

	frames := size / int(p.format.FrameBytes())
	p.scratch = make([]float32, size/4)
	return frames, nil
}

// cycle pulls one period from the node and writes it to the stream.
// The consumed buffer id is left in the exchange slot so the node
// reclaims it on the next cycle.
func (p *Player) cycle(stream Stream) error {
	if _, err := p.node.Process(); err != nil {
		return fmt.Errorf("pull cycle failed: %w", err)
	}

	id, status := p.io.Load()
	if status != host.StatusHasData {
		return nil
	}

	buf, err := p.node.PortBuffer(p.port, id)
	if err != nil {
		return err
	}
	plane := &buf.Planes[0]
	data := plane.Bytes()[plane.Chunk.Offset : plane.Chunk.Offset+plane.Chunk.Size]

	samples := p.scratch[:len(data)/4]
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}

	// Scale by the node's published volume envelope.
	if update, err := control.Decode(p.ctl.Bytes()); err == nil {
		for i := range samples {
			samples[i] *= update.Value
		}
	}

	return stream.Write(samples)
}
