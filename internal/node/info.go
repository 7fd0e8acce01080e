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

import "github.com/udoprog/livemix/internal/param"

// ChangeMask tracks which aspects of a node or port changed since the
// previous emission.
type ChangeMask uint64

const (
	// ChangeFlags marks a change to capability flags.
	ChangeFlags ChangeMask = 1 << iota
	// ChangeProps marks a change to the property dictionary.
	ChangeProps
	// ChangeParams marks a change to the parameter registry.
	ChangeParams
)

// changeMaskAll is the union of all trackable bits, used by full
// emissions and late-join snapshots.
const changeMaskAll = ChangeFlags | ChangeProps | ChangeParams

// ParamInfo is the observer-visible snapshot of one registry entry.
type ParamInfo struct {
	Category param.Category `json:"category"`
	Flags    param.Flags    `json:"flags"`
}

// NodeInfo is the snapshot delivered to observers when node-level state
// changes. ChangeMask says which fields are fresh; a full snapshot has
// every bit set.
type NodeInfo struct {
	Name           string            `json:"name"`
	MaxInputPorts  int               `json:"max_input_ports"`
	MaxOutputPorts int               `json:"max_output_ports"`
	ChangeMask     ChangeMask        `json:"change_mask"`
	Props          map[string]string `json:"props,omitempty"`
	Params         []ParamInfo       `json:"params,omitempty"`
}

// PortInfo is the snapshot delivered to observers when a port changes.
type PortInfo struct {
	Index      int               `json:"index"`
	ChangeMask ChangeMask        `json:"change_mask"`
	Props      map[string]string `json:"props,omitempty"`
	Params     []ParamInfo       `json:"params,omitempty"`
}
