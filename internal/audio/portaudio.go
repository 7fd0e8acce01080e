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

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortAudioBackend implements Backend using the real PortAudio library
type PortAudioBackend struct {
	initialized bool
}

// NewPortAudioBackend creates a new PortAudio backend
func NewPortAudioBackend() *PortAudioBackend {
	return &PortAudioBackend{}
}

// Initialize initializes the PortAudio subsystem
func (p *PortAudioBackend) Initialize() error {
	if p.initialized {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	p.initialized = true
	return nil
}

// Terminate terminates the PortAudio subsystem
func (p *PortAudioBackend) Terminate() error {
	if !p.initialized {
		return nil
	}

	err := portaudio.Terminate()
	p.initialized = false
	return err
}

// OpenOutput opens a playback stream on the default output device
func (p *PortAudioBackend) OpenOutput(sampleRate float64, channels, frames int) (Stream, error) {
	if !p.initialized {
		return nil, fmt.Errorf("PortAudio not initialized")
	}

	outputBuffer := make([]float32, frames*channels)

	stream, err := portaudio.OpenDefaultStream(
		0,        // input channels (none for playback)
		channels, // output channels
		sampleRate,
		frames,
		outputBuffer,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open output stream: %w", err)
	}

	return &portAudioStream{
		stream:       stream,
		outputBuffer: outputBuffer,
	}, nil
}

// portAudioStream implements Stream using a PortAudio blocking stream
type portAudioStream struct {
	stream       *portaudio.Stream
	outputBuffer []float32
	active       bool
}

// Start starts the audio stream
func (s *portAudioStream) Start() error {
	if s.stream == nil {
		return fmt.Errorf("stream is nil")
	}
	if err := s.stream.Start(); err != nil {
		return err
	}
	s.active = true
	return nil
}

// Stop stops the audio stream
func (s *portAudioStream) Stop() error {
	if s.stream == nil {
		return fmt.Errorf("stream is nil")
	}
	s.active = false
	return s.stream.Stop()
}

// Close closes the audio stream
func (s *portAudioStream) Close() error {
	if s.stream == nil {
		return fmt.Errorf("stream is nil")
	}
	s.active = false
	return s.stream.Close()
}

// Write writes one period of samples to the output device
func (s *portAudioStream) Write(data []float32) error {
	if s.stream == nil {
		return fmt.Errorf("stream is nil")
	}

	copy(s.outputBuffer, data)
	return s.stream.Write()
}

// Active returns true if the stream has been started and not stopped
func (s *portAudioStream) Active() bool {
	return s.active
}
