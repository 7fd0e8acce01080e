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

	"github.com/udoprog/livemix/internal/buffer"
	"github.com/udoprog/livemix/internal/control"
	"github.com/udoprog/livemix/internal/gen"
	"github.com/udoprog/livemix/internal/host"
	"github.com/udoprog/livemix/internal/param"
)

// Port is a single output endpoint: a negotiated format, a buffer
// pool, bindings to host-owned exchange areas and the oscillator state
// feeding it. Port indexes are assigned at creation and never reused.
type Port struct {
	index int
	props map[string]string

	changeMask ChangeMask
	params     []param.Descriptor

	format  *param.Format
	latency []byte
	tag     []byte

	pool    buffer.Pool
	io      *host.IOArea
	control *host.ControlArea

	osc gen.Oscillator
	env control.Envelope
}

func newPort(n *Node, index int) *Port {
	return &Port{
		index: index,
		props: map[string]string{
			"port.name":  fmt.Sprintf("out_%d", index),
			"format.dsp": "32 bit float mono audio",
		},
		changeMask: changeMaskAll,
		params: []param.Descriptor{
			{Category: param.CatEnumFormat, Flags: param.FlagReadable},
			{Category: param.CatMeta, Flags: param.FlagReadable},
			{Category: param.CatIO, Flags: param.FlagReadable},
			{Category: param.CatFormat, Flags: param.FlagWritable},
			{Category: param.CatBuffers},
			{Category: param.CatLatency, Flags: param.FlagWritable},
			{Category: param.CatTag, Flags: param.FlagWritable},
		},
		osc: gen.New(n.freq, n.gain),
	}
}

// descriptor returns the registry entry for cat, or nil.
func (p *Port) descriptor(cat param.Category) *param.Descriptor {
	for i := range p.params {
		if p.params[i].Category == cat {
			return &p.params[i]
		}
	}
	return nil
}

// info snapshots port state for observers. Callers hold the node mutex.
func (p *Port) info() PortInfo {
	info := PortInfo{
		Index:      p.index,
		ChangeMask: p.changeMask,
		Props:      make(map[string]string, len(p.props)),
		Params:     make([]ParamInfo, 0, len(p.params)),
	}
	for k, v := range p.props {
		info.Props[k] = v
	}
	for _, d := range p.params {
		info.Params = append(info.Params, ParamInfo{Category: d.Category, Flags: d.Flags})
	}
	return info
}

// PortEnumParams enumerates parameter candidates on a port. start is an
// opaque cursor the caller increments across calls; the result holds at
// most max accepted candidates. Candidates that fail the filter
// intersection are skipped, not reported; a missing candidate at an
// index terminates the sequence with fewer results, which is success.
func (n *Node) PortEnumParams(port int, cat param.Category, start, max uint32, filter *param.Filter) ([]param.Payload, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, err := n.port(port)
	if err != nil {
		return nil, err
	}

	n.log.Printf("🔍 port %d: enum %s start:%d max:%d", port, cat, start, max)

	var out []param.Payload
	index := start
	for uint32(len(out)) < max {
		candidate, ok, err := n.candidateAt(p, cat, index)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		index++

		if !filter.Matches(candidate) {
			continue
		}
		out = append(out, candidate)
	}

	return out, nil
}

// candidateAt produces the enumeration candidate at the given index
// for a category, before filtering. ok is false once the category's
// candidates are exhausted. Candidate counts per category: EnumFormat
// 1, Format 0 or 1 depending on negotiation, Buffers 1, Meta 1, IO 2,
// Latency/Tag 0 or 1 depending on a stored blob.
func (n *Node) candidateAt(p *Port, cat param.Category, index uint32) (param.Payload, bool, error) {
	switch cat {
	case param.CatEnumFormat:
		if index > 0 {
			return nil, false, nil
		}
		return param.EnumFormat{
			Media: param.MediaAudio,
			Encodings: []param.Encoding{
				param.EncodingS16,
				param.EncodingS16P,
				param.EncodingF32P,
				param.EncodingF32,
			},
			Channels: param.Range{Def: 2, Min: 1, Max: param.Unbounded},
			Rate:     param.Range{Def: n.rate, Min: 1, Max: param.Unbounded},
		}, true, nil

	case param.CatFormat:
		if index > 0 || p.format == nil {
			return nil, false, nil
		}
		return *p.format, true, nil

	case param.CatBuffers:
		if index > 0 {
			return nil, false, nil
		}
		return param.Buffers{
			Buffers: param.Range{Def: 1, Min: 1, Max: buffer.MaxBuffers},
			Blocks:  1,
			Size:    param.Range{Def: BufferSamples * 4, Min: 32, Max: param.Unbounded},
			Stride:  4,
		}, true, nil

	case param.CatMeta:
		if index > 0 {
			return nil, false, nil
		}
		return param.Meta{Kind: param.MetaHeader, Size: param.HeaderMetaSize}, true, nil

	case param.CatIO:
		switch index {
		case 0:
			return param.IO{Slot: param.SlotDataExchange, Size: host.IOAreaSize}, true, nil
		case 1:
			return param.IO{Slot: param.SlotControlNotify, Size: control.EnvelopeSize + 1024}, true, nil
		default:
			return nil, false, nil
		}

	case param.CatLatency:
		if index > 0 || p.latency == nil {
			return nil, false, nil
		}
		return param.Opaque{Cat: param.CatLatency, Blob: p.latency}, true, nil

	case param.CatTag:
		if index > 0 || p.tag == nil {
			return nil, false, nil
		}
		return param.Opaque{Cat: param.CatTag, Blob: p.tag}, true, nil

	default:
		return nil, false, fmt.Errorf("enum %s: %w", cat, ErrNotSupported)
	}
}

// PortSetParam stores or clears a port parameter. Storing a format
// makes the Format entry read-write and grants read access to Buffers;
// clearing it reverts both. Every stored change bumps the touched
// counter and triggers a partial info emission.
func (n *Node) PortSetParam(port int, cat param.Category, payload param.Payload) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, err := n.port(port)
	if err != nil {
		return err
	}

	n.log.Printf("🎚  port %d: set %s", port, cat)

	switch cat {
	case param.CatFormat:
		if payload != nil {
			format, ok := payload.(param.Format)
			if !ok {
				return fmt.Errorf("%w: set %s: payload is %T", ErrInvalidArgument, cat, payload)
			}
			if err := format.Validate(); err != nil {
				return fmt.Errorf("%w: set %s: %v", ErrInvalidArgument, cat, err)
			}
			p.format = &format
			p.descriptor(param.CatFormat).Flags = param.FlagReadWrite
			p.descriptor(param.CatBuffers).Flags = param.FlagReadable
		} else {
			p.format = nil
			p.descriptor(param.CatFormat).Flags = param.FlagWritable
			p.descriptor(param.CatBuffers).Flags = 0
		}
		p.descriptor(param.CatFormat).Touch()
		p.descriptor(param.CatBuffers).Touch()

	case param.CatLatency, param.CatTag:
		var blob []byte
		if payload != nil {
			opaque, ok := payload.(param.Opaque)
			if !ok || opaque.Cat != cat {
				return fmt.Errorf("%w: set %s: payload is %T", ErrInvalidArgument, cat, payload)
			}
			blob = opaque.Blob
		}
		if cat == param.CatLatency {
			p.latency = blob
		} else {
			p.tag = blob
		}
		p.descriptor(cat).Touch()

	default:
		return fmt.Errorf("set %s: %w", cat, ErrNotSupported)
	}

	p.changeMask |= ChangeParams

	n.emitNodeInfo(false)
	n.emitPortInfo(false)
	return nil
}

// PortUseBuffers attaches host-described buffers to a port's pool. All
// resolved buffers end up queued in ascending id order. A mapping
// failure aborts the attach, leaving earlier mappings in place; see
// buffer.Pool.Attach for the partial-state contract.
func (n *Node) PortUseBuffers(port int, descs []buffer.Descriptor) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, err := n.port(port)
	if err != nil {
		return err
	}

	if err := p.pool.Attach(descs); err != nil {
		return fmt.Errorf("port %d: %w", port, err)
	}

	n.log.Printf("📦 port %d: attached %d buffers", port, len(descs))
	return nil
}

// PortReuseBuffer returns an issued buffer id to the tail of the empty
// queue. The caller must only reclaim ids currently issued; handing
// back a queued id is a caller error the pool does not detect.
func (n *Node) PortReuseBuffer(port int, id uint32) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, err := n.port(port)
	if err != nil {
		return err
	}
	if id >= p.pool.Size() {
		return fmt.Errorf("%w: buffer id %d (have %d buffers)", ErrInvalidArgument, id, p.pool.Size())
	}

	p.pool.Reclaim(id)
	return nil
}

// PortBuffer returns the attached buffer with the given id. The host
// uses this to reach the data planes of a buffer published in the
// data-exchange slot.
func (n *Node) PortBuffer(port int, id uint32) (*buffer.Buffer, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, err := n.port(port)
	if err != nil {
		return nil, err
	}
	b := p.pool.Buffer(id)
	if b == nil {
		return nil, fmt.Errorf("%w: buffer id %d (have %d buffers)", ErrInvalidArgument, id, p.pool.Size())
	}
	return b, nil
}

// PortBindIO binds (or, with nil, unbinds) the host data-exchange slot
// the dispatch cycle publishes into.
func (n *Node) PortBindIO(port int, area *host.IOArea) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, err := n.port(port)
	if err != nil {
		return err
	}
	p.io = area
	n.log.Printf("🔌 port %d: data-exchange slot %s", port, boundState(area != nil))
	return nil
}

// PortBindControl binds (or, with nil, unbinds) the control scratch
// region volume envelopes are encoded into.
func (n *Node) PortBindControl(port int, area *host.ControlArea) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, err := n.port(port)
	if err != nil {
		return err
	}
	p.control = area
	n.log.Printf("🔌 port %d: control slot %s", port, boundState(area != nil))
	return nil
}

func boundState(bound bool) string {
	if bound {
		return "bound"
	}
	return "unbound"
}
