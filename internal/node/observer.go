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

// Observer receives info-changed notifications from a node.
// Notifications are delivered synchronously on the control path; slow
// observers should hand work off to their own goroutine.
type Observer interface {
	// OnNodeInfo is called when node-level state changed.
	OnNodeInfo(info NodeInfo)

	// OnPortInfo is called when port-level state changed.
	OnPortInfo(port int, info PortInfo)
}

// Hook is the stable handle returned when an observer is registered.
type Hook struct {
	obs Observer
}

// AddObserver registers an observer and delivers it a synthetic full
// snapshot of node and port state. The snapshot goes only to the new
// observer: the live set is put aside, the full emission runs against
// the new entry alone, and the entry is then merged into the live set.
// Already-registered observers see no duplicate events.
func (n *Node) AddObserver(o Observer) *Hook {
	n.mu.Lock()
	defer n.mu.Unlock()

	h := &Hook{obs: o}

	save := n.hooks
	n.hooks = []*Hook{h}
	n.emitNodeInfo(true)
	n.emitPortInfo(true)
	n.hooks = append(save, h)

	return h
}

// RemoveObserver drops a previously registered observer. Unknown hooks
// are ignored.
func (n *Node) RemoveObserver(h *Hook) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, c := range n.hooks {
		if c == h {
			n.hooks = append(n.hooks[:i], n.hooks[i+1:]...)
			return
		}
	}
}

// emitNodeInfo fans the node info out to every observer. A full
// emission recomputes the change mask as the union of all trackable
// bits and restores the accumulated mask afterwards; a partial emission
// uses only the bits dirtied since the last emission and clears them.
// Callers hold n.mu.
func (n *Node) emitNodeInfo(full bool) {
	var old ChangeMask
	if full {
		old = n.changeMask
		n.changeMask = changeMaskAll
	}

	if n.changeMask != 0 {
		if n.changeMask&ChangeParams != 0 {
			for i := range n.params {
				n.params[i].ConsumeSerial()
			}
		}

		info := n.nodeInfo()
		for _, h := range n.hooks {
			h.obs.OnNodeInfo(info)
		}
	}

	n.changeMask = old
}

// emitPortInfo fans every port's info out to every observer, with the
// same full/partial mask semantics as emitNodeInfo. Callers hold n.mu.
func (n *Node) emitPortInfo(full bool) {
	for _, p := range n.ports {
		var old ChangeMask
		if full {
			old = p.changeMask
			p.changeMask = changeMaskAll
		}

		if p.changeMask != 0 {
			if p.changeMask&ChangeParams != 0 {
				for i := range p.params {
					p.params[i].ConsumeSerial()
				}
			}

			info := p.info()
			for _, h := range n.hooks {
				h.obs.OnPortInfo(p.index, info)
			}
		}

		p.changeMask = old
	}
}
