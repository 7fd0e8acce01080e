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

// Backend provides an abstraction layer for audio playback.
// This enables dependency injection and makes testing hardware-independent.
type Backend interface {
	// Initialize the audio subsystem
	Initialize() error

	// Terminate the audio subsystem
	Terminate() error

	// OpenOutput opens an output stream for playback. frames is the
	// number of frames written per call to Stream.Write.
	OpenOutput(sampleRate float64, channels, frames int) (Stream, error)
}

// Stream abstracts an open playback stream.
type Stream interface {
	// Start the audio stream
	Start() error

	// Stop the audio stream
	Stop() error

	// Close the audio stream and release resources
	Close() error

	// Write one period of interleaved samples to the stream
	Write(data []float32) error

	// Active returns true if the stream is currently running
	Active() bool
}
