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

package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorSerial(t *testing.T) {
	t.Run("untouched_descriptor_does_not_flip", func(t *testing.T) {
		d := Descriptor{Category: CatFormat, Flags: FlagWritable}
		assert.False(t, d.ConsumeSerial(), "untouched descriptor should not flip")
		assert.Equal(t, FlagWritable, d.Flags)
	})

	t.Run("touched_descriptor_flips_and_resets", func(t *testing.T) {
		d := Descriptor{Category: CatFormat, Flags: FlagReadWrite}
		d.Touch()
		d.Touch()

		require.True(t, d.ConsumeSerial(), "touched descriptor should flip")
		assert.Equal(t, FlagReadWrite|FlagSerial, d.Flags, "serial flag should be set")
		assert.Equal(t, uint32(0), d.Touched, "counter should reset")

		// A second change flips the serial flag back, which is itself
		// an observable transition.
		d.Touch()
		require.True(t, d.ConsumeSerial())
		assert.Equal(t, FlagReadWrite, d.Flags, "serial flag should toggle off again")
	})
}

func TestFormatValidate(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		wantErr bool
	}{
		{name: "valid f32 mono", format: Format{Encoding: EncodingF32, Rate: 44100, Channels: 1}},
		{name: "valid s16 stereo", format: Format{Encoding: EncodingS16, Rate: 48000, Channels: 2}},
		{name: "unknown encoding", format: Format{Rate: 44100, Channels: 1}, wantErr: true},
		{name: "zero rate", format: Format{Encoding: EncodingF32, Channels: 1}, wantErr: true},
		{name: "zero channels", format: Format{Encoding: EncodingF32, Rate: 44100}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEncoding(t *testing.T) {
	assert.Equal(t, uint32(2), EncodingS16.SampleBytes())
	assert.Equal(t, uint32(4), EncodingF32.SampleBytes())
	assert.Equal(t, uint32(0), EncodingUnknown.SampleBytes())

	assert.False(t, EncodingS16.Planar())
	assert.True(t, EncodingS16P.Planar())
	assert.False(t, EncodingF32.Planar())
	assert.True(t, EncodingF32P.Planar())
}

func TestRange(t *testing.T) {
	r := Range{Def: 44100, Min: 8000, Max: 96000}

	assert.True(t, r.Contains(8000))
	assert.True(t, r.Contains(96000))
	assert.False(t, r.Contains(7999))
	assert.False(t, r.Contains(96001))

	assert.True(t, r.Overlaps(Range{Min: 96000, Max: 192000}), "touching ranges overlap")
	assert.False(t, r.Overlaps(Range{Min: 96001, Max: 192000}))
	assert.True(t, r.Overlaps(Range{Min: 1, Max: 8000}))
}
