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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udoprog/livemix/internal/node"
)

func TestNodeConfig(t *testing.T) {
	t.Run("maps_flag_values", func(t *testing.T) {
		cfg := nodeConfig("studio", 4, 48000, 220.0, 0.5)
		assert.Equal(t, "studio", cfg.Name)
		assert.Equal(t, 4, cfg.Ports)
		assert.Equal(t, uint32(48000), cfg.SampleRate)
		assert.Equal(t, 220.0, cfg.Freq)
		assert.Equal(t, 0.5, cfg.Gain)
	})

	t.Run("non_positive_rate_uses_default", func(t *testing.T) {
		cfg := nodeConfig("studio", 1, 0, 440.0, 0.2)
		assert.Equal(t, uint32(0), cfg.SampleRate, "zero rate defers to the node default")

		cfg = nodeConfig("studio", 1, -1, 440.0, 0.2)
		assert.Equal(t, uint32(0), cfg.SampleRate)
	})

	t.Run("config_is_accepted_by_node", func(t *testing.T) {
		n, err := node.New(nodeConfig("studio", 2, 44100, 440.0, 0.2))
		assert.NoError(t, err)
		assert.Equal(t, "studio", n.Name())
		assert.Equal(t, 2, n.PortCount())
	})

	t.Run("too_many_ports_rejected", func(t *testing.T) {
		_, err := node.New(nodeConfig("studio", node.MaxPorts+1, 44100, 440.0, 0.2))
		assert.ErrorIs(t, err, node.ErrInvalidArgument)
	})
}

func TestCleanShutdown(t *testing.T) {
	assert.True(t, cleanShutdown(context.Canceled))
	assert.True(t, cleanShutdown(context.DeadlineExceeded))
	assert.True(t, cleanShutdown(fmt.Errorf("run loop: %w", context.Canceled)))
	assert.False(t, cleanShutdown(errors.New("device busy")))
	assert.False(t, cleanShutdown(nil))
}
