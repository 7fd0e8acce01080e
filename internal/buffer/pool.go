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

package buffer

import "fmt"

// MaxBuffers is the fixed capacity of a port's buffer pool.
const MaxBuffers = 32

// Chunk describes the populated portion of a data plane after a cycle.
type Chunk struct {
	Offset uint32
	Size   uint32
	Stride uint32
}

// Plane is one data plane of a buffer: backing memory, its capacity and
// the mutable chunk descriptor written by the generator.
type Plane struct {
	backing  Backing
	Capacity uint32
	Chunk    Chunk
}

// Bytes returns the plane's full backing memory, capacity bytes long.
func (p *Plane) Bytes() []byte {
	return p.backing.Bytes()[:p.Capacity]
}

// Mapped reports whether the plane memory came from a shared-memory
// mapping.
func (p *Plane) Mapped() bool {
	return p.backing.Mapped()
}

// Buffer is one entry of the pool arena. A buffer is either queued
// (its id is in the empty queue) or issued (named by the host exchange
// slot), never both.
type Buffer struct {
	ID     uint32
	Planes []Plane
	Mapped bool
}

// PlaneDescriptor names the backing memory for one plane of an
// attached buffer. Either Data is a direct reference into host memory,
// or FD is a shared-memory handle to map MaxSize bytes from.
type PlaneDescriptor struct {
	Data      []byte
	FD        int
	MapOffset int64
	MaxSize   uint32
}

// Descriptor is the attach-time shape of one buffer.
type Descriptor struct {
	Planes []PlaneDescriptor
}

// Pool is a fixed-capacity buffer arena plus an index-based FIFO free
// list. Push and pop are O(1) with no per-buffer allocation.
type Pool struct {
	buffers [MaxBuffers]Buffer
	n       uint32

	// free is a ring of queued buffer ids; one slot is left unused so
	// head == tail always means empty.
	free [MaxBuffers + 1]uint32
	head uint32
	tail uint32
}

// Attach resolves backing memory for each descriptor and enqueues all
// buffers in ascending id order. A count above MaxBuffers fails with
// ErrOutOfSpace before anything is resolved. A mapping failure aborts
// the attach and surfaces the OS error; buffers resolved before the
// failure keep their mappings (no rollback — the caller owns recovery,
// typically by releasing the pool).
func (p *Pool) Attach(descs []Descriptor) error {
	if len(descs) > MaxBuffers {
		return fmt.Errorf("attach %d buffers: %w", len(descs), ErrOutOfSpace)
	}

	p.n = 0
	p.head = 0
	p.tail = 0

	for i, desc := range descs {
		b := &p.buffers[i]
		b.ID = uint32(i)
		b.Mapped = false
		b.Planes = make([]Plane, len(desc.Planes))

		for j, pd := range desc.Planes {
			var backing Backing
			switch {
			case pd.Data != nil:
				backing = Direct(pd.Data)
			case pd.FD > 0:
				var err error
				backing, err = Map(pd.FD, pd.MapOffset, pd.MaxSize)
				if err != nil {
					return fmt.Errorf("buffer %d plane %d: %w", i, j, err)
				}
				b.Mapped = true
			default:
				return fmt.Errorf("buffer %d plane %d: %w", i, j, ErrNoBacking)
			}

			b.Planes[j] = Plane{backing: backing, Capacity: pd.MaxSize}
		}

		p.n++
		p.push(uint32(i))
	}

	return nil
}

// Size returns the number of attached buffers.
func (p *Pool) Size() uint32 {
	return p.n
}

// Queued returns the number of ids currently in the empty queue.
func (p *Pool) Queued() int {
	return int((p.tail + MaxBuffers + 1 - p.head) % (MaxBuffers + 1))
}

// Pop removes and returns the id at the head of the empty queue.
func (p *Pool) Pop() (uint32, bool) {
	if p.head == p.tail {
		return 0, false
	}
	id := p.free[p.head]
	p.head = (p.head + 1) % (MaxBuffers + 1)
	return id, true
}

// Reclaim appends id to the tail of the empty queue. The caller must
// only reclaim an id that is currently issued; reclaiming a queued id
// corrupts the queue and is not checked here.
func (p *Pool) Reclaim(id uint32) {
	p.push(id)
}

func (p *Pool) push(id uint32) {
	p.free[p.tail] = id
	p.tail = (p.tail + 1) % (MaxBuffers + 1)
}

// Buffer returns the arena entry for id, or nil when out of range.
func (p *Pool) Buffer(id uint32) *Buffer {
	if id >= p.n {
		return nil
	}
	return &p.buffers[id]
}

// Release unmaps every mapped plane and empties the pool. The first
// unmap error is returned after all planes have been visited.
func (p *Pool) Release() error {
	var first error
	for i := uint32(0); i < p.n; i++ {
		for j := range p.buffers[i].Planes {
			if err := p.buffers[i].Planes[j].backing.Release(); err != nil && first == nil {
				first = err
			}
		}
		p.buffers[i].Planes = nil
	}
	p.n = 0
	p.head = 0
	p.tail = 0
	return first
}
