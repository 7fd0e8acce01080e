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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udoprog/livemix/internal/param"
)

// recordingObserver collects every delivered snapshot.
type recordingObserver struct {
	nodeInfos []NodeInfo
	portInfos []PortInfo
}

func (r *recordingObserver) OnNodeInfo(info NodeInfo) {
	r.nodeInfos = append(r.nodeInfos, info)
}

func (r *recordingObserver) OnPortInfo(port int, info PortInfo) {
	r.portInfos = append(r.portInfos, info)
}

func paramFlags(info PortInfo, cat param.Category) param.Flags {
	for _, pi := range info.Params {
		if pi.Category == cat {
			return pi.Flags
		}
	}
	return 0
}

func TestAddObserver(t *testing.T) {
	t.Run("late_joiner_gets_full_snapshot", func(t *testing.T) {
		n := newTestNode(t, 2)

		obs := &recordingObserver{}
		n.AddObserver(obs)

		require.Len(t, obs.nodeInfos, 1, "exactly one synthetic node snapshot")
		assert.Equal(t, changeMaskAll, obs.nodeInfos[0].ChangeMask, "snapshot must be full")
		assert.Equal(t, 2, obs.nodeInfos[0].MaxOutputPorts)

		require.Len(t, obs.portInfos, 2, "one snapshot per port")
		assert.Equal(t, 0, obs.portInfos[0].Index)
		assert.Equal(t, 1, obs.portInfos[1].Index)
		assert.Equal(t, "out_1", obs.portInfos[1].Props["port.name"])
	})

	t.Run("existing_observers_see_no_duplicates", func(t *testing.T) {
		n := newTestNode(t, 1)

		first := &recordingObserver{}
		n.AddObserver(first)
		nodeEvents := len(first.nodeInfos)
		portEvents := len(first.portInfos)

		second := &recordingObserver{}
		n.AddObserver(second)

		assert.Equal(t, nodeEvents, len(first.nodeInfos),
			"registering a second observer must not re-deliver to the first")
		assert.Equal(t, portEvents, len(first.portInfos))
		assert.Len(t, second.nodeInfos, 1)

		// Both observers see subsequent changes exactly once.
		require.NoError(t, n.PortSetParam(0, param.CatFormat, f32Mono()))
		assert.Len(t, first.portInfos, portEvents+1)
		assert.Len(t, second.portInfos, 2)
	})

	t.Run("removed_observer_stops_receiving", func(t *testing.T) {
		n := newTestNode(t, 1)

		obs := &recordingObserver{}
		h := n.AddObserver(obs)
		n.RemoveObserver(h)
		events := len(obs.portInfos)

		require.NoError(t, n.PortSetParam(0, param.CatFormat, f32Mono()))
		assert.Equal(t, events, len(obs.portInfos))

		// Removing twice is harmless.
		n.RemoveObserver(h)
	})
}

func TestPartialEmission(t *testing.T) {
	n := newTestNode(t, 1)

	obs := &recordingObserver{}
	n.AddObserver(obs)
	require.Len(t, obs.portInfos, 1)

	// The first partial emission still flushes the mask accumulated
	// since startup; only after that do partials carry just the bits
	// dirtied by the triggering change.
	require.NoError(t, n.PortSetParam(0, param.CatFormat, f32Mono()))
	require.Len(t, obs.portInfos, 2, "a set should trigger exactly one port emission")
	assert.Equal(t, changeMaskAll, obs.portInfos[1].ChangeMask)

	require.NoError(t, n.PortSetParam(0, param.CatFormat, f32Mono()))
	require.Len(t, obs.portInfos, 3)

	partial := obs.portInfos[2]
	assert.Equal(t, ChangeParams, partial.ChangeMask, "partial emission carries only dirtied bits")
	assert.Equal(t, param.FlagReadWrite, paramFlags(partial, param.CatFormat)&param.FlagReadWrite)
	assert.Equal(t, param.FlagReadable, paramFlags(partial, param.CatBuffers)&param.FlagReadWrite)
}

func TestSerialFlagToggle(t *testing.T) {
	n := newTestNode(t, 1)

	obs := &recordingObserver{}
	n.AddObserver(obs)

	require.NoError(t, n.PortSetParam(0, param.CatFormat, f32Mono()))
	first := paramFlags(obs.portInfos[len(obs.portInfos)-1], param.CatFormat)

	require.NoError(t, n.PortSetParam(0, param.CatFormat, f32Mono()))
	second := paramFlags(obs.portInfos[len(obs.portInfos)-1], param.CatFormat)

	assert.NotEqual(t, first&param.FlagSerial, second&param.FlagSerial,
		"each observed value change toggles the serial flag")
	assert.Equal(t, first&param.FlagReadWrite, second&param.FlagReadWrite)
}
