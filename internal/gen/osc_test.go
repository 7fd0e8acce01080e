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

package gen

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udoprog/livemix/internal/param"
)

func TestOscillatorDeterminism(t *testing.T) {
	// Two oscillators with identical configuration must produce
	// bit-identical output and phase sequences across repeated fills.
	a := New(440.0, 0.2)
	b := New(440.0, 0.2)

	bufA := make([]byte, 512)
	bufB := make([]byte, 512)

	for i := 0; i < 16; i++ {
		require.NoError(t, a.Fill(bufA, param.EncodingF32, 44100, 1))
		require.NoError(t, b.Fill(bufB, param.EncodingF32, 44100, 1))
		require.Equal(t, bufA, bufB, "fill %d diverged", i)
		require.Equal(t, a.Phase(), b.Phase(), "phase diverged after fill %d", i)
	}
}

func TestOscillatorPhaseBounds(t *testing.T) {
	o := New(440.0, 0.2)
	buf := make([]byte, 4)

	// Enough single-sample fills to wrap the phase many times over.
	for i := 0; i < 200000; i++ {
		require.NoError(t, o.Fill(buf, param.EncodingF32, 44100, 1))
		p := o.Phase()
		if p < 0 || p >= 2*math.Pi {
			t.Fatalf("phase %v escaped [0, 2π) after %d samples", p, i+1)
		}
	}
}

func TestOscillatorDefaults(t *testing.T) {
	o := New(0, 0)
	assert.Equal(t, float64(DefaultFreq), o.Freq)
	assert.Equal(t, float64(DefaultGain), o.Gain)
}

func TestFillEncodings(t *testing.T) {
	t.Run("s16_interleaved_replicates_channels", func(t *testing.T) {
		o := New(440.0, 0.2)
		buf := make([]byte, 2*2*8) // 8 stereo frames
		require.NoError(t, o.Fill(buf, param.EncodingS16, 44100, 2))

		for i := 0; i < 8; i++ {
			left := int16(binary.LittleEndian.Uint16(buf[i*4:]))
			right := int16(binary.LittleEndian.Uint16(buf[i*4+2:]))
			assert.Equal(t, left, right, "frame %d: channels should carry the same scalar", i)
		}

		// The first sample is sin of one phase step, scaled.
		want := int16(math.Sin(2*math.Pi*440.0/44100.0) * 0.2 * 32767.0)
		got := int16(binary.LittleEndian.Uint16(buf[0:]))
		assert.Equal(t, want, got)
	})

	t.Run("f32_amplitude_bounded_by_gain", func(t *testing.T) {
		o := New(440.0, 0.2)
		buf := make([]byte, 4*1024)
		require.NoError(t, o.Fill(buf, param.EncodingF32, 44100, 1))

		for i := 0; i < 1024; i++ {
			v := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
			assert.LessOrEqual(t, float64(math.Abs(float64(v))), 0.2000001, "sample %d above gain", i)
		}
	})

	t.Run("f32_planar_fills_whole_plane", func(t *testing.T) {
		o := New(440.0, 0.2)
		buf := make([]byte, 512)
		require.NoError(t, o.Fill(buf, param.EncodingF32P, 44100, 1))

		var nonZero int
		for i := 0; i < len(buf)/4; i++ {
			if math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])) != 0 {
				nonZero++
			}
		}
		assert.Greater(t, nonZero, 100, "plane should be filled with samples")
	})

	t.Run("unsupported_encoding", func(t *testing.T) {
		o := New(440.0, 0.2)
		err := o.Fill(make([]byte, 64), param.EncodingS16P, 44100, 1)
		assert.Error(t, err)
	})

	t.Run("zero_rate_rejected", func(t *testing.T) {
		o := New(440.0, 0.2)
		err := o.Fill(make([]byte, 64), param.EncodingF32, 0, 1)
		assert.Error(t, err)
	})
}
