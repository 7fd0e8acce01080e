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

package node

import (
	"fmt"
	"time"

	"github.com/udoprog/livemix/internal/control"
	"github.com/udoprog/livemix/internal/host"
)

// Process runs one pull cycle across all ports in ascending index
// order: reclaim the id the host left in the exchange slot, pop the
// next empty buffer, generate audio into it, publish it, and advance
// the control envelope. The body is bounded and does not allocate.
//
// A port with no bound data-exchange slot is skipped. A port with an
// empty queue fails the entire cycle with ErrUnderrun: every port,
// including ones already serviced this cycle, goes unserved, and the
// host decides whether to pause or drop the stream.
//
// Returns host.StatusHasData if any port produced data, otherwise
// host.StatusOK.
func (n *Node) Process() (host.Status, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	status := host.StatusOK

	for _, p := range n.ports {
		if p.io == nil {
			continue
		}

		// Reclaim the buffer the host consumed last cycle.
		if id, _ := p.io.Load(); id < p.pool.Size() {
			p.pool.Reclaim(id)
			p.io.Store(host.InvalidID, host.StatusNeedData)
		}

		id, ok := p.pool.Pop()
		if !ok {
			n.log.Printf("❌ port %d: out of buffers", p.index)
			return host.StatusOK, fmt.Errorf("port %d: %w", p.index, ErrUnderrun)
		}

		// No negotiated format: the port produces nothing this cycle.
		if p.format == nil {
			p.pool.Reclaim(id)
			continue
		}

		b := p.pool.Buffer(id)
		plane := &b.Planes[0]

		if err := p.osc.Fill(plane.Bytes(), p.format.Encoding, p.format.Rate, p.format.Channels); err != nil {
			p.pool.Reclaim(id)
			return host.StatusOK, fmt.Errorf("port %d: %w", p.index, err)
		}

		stride := uint32(0)
		if p.format.Encoding.Planar() {
			stride = p.format.Encoding.SampleBytes()
		}
		plane.Chunk.Offset = 0
		plane.Chunk.Size = plane.Capacity
		plane.Chunk.Stride = stride

		p.io.Store(id, host.StatusHasData)
		status = host.StatusHasData

		p.env.Advance()
		if p.control != nil {
			ts := uint64(time.Now().UnixMicro())
			if _, err := control.Encode(p.control.Bytes(), ts, control.PropVolume, p.env.Value()); err != nil {
				return host.StatusOK, fmt.Errorf("port %d: %w", p.index, err)
			}
		}
	}

	return status, nil
}
