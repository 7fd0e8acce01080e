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
	"sync"
	"time"
)

// MockBackend implements Backend for testing without hardware dependencies
type MockBackend struct {
	mu              sync.Mutex
	initialized     bool
	streams         []*MockStream
	initError       error
	openError       error
	simulateTiming  bool
	playbackPeriods [][]float32
}

// NewMockBackend creates a new mock audio backend
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// SetInitError configures the backend to return an error on Initialize()
func (m *MockBackend) SetInitError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initError = err
}

// SetOpenError configures the backend to return an error on OpenOutput()
func (m *MockBackend) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openError = err
}

// SetSimulateTiming controls whether Write sleeps for the period duration
func (m *MockBackend) SetSimulateTiming(simulate bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.simulateTiming = simulate
}

// PlaybackPeriods returns every period of samples that was "played back"
func (m *MockBackend) PlaybackPeriods() [][]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([][]float32, len(m.playbackPeriods))
	copy(result, m.playbackPeriods)
	return result
}

// Initialize initializes the mock audio subsystem
func (m *MockBackend) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initError != nil {
		return m.initError
	}

	m.initialized = true
	return nil
}

// Terminate terminates the mock audio subsystem and closes open streams
func (m *MockBackend) Terminate() error {
	m.mu.Lock()
	streams := make([]*MockStream, len(m.streams))
	copy(streams, m.streams)
	m.mu.Unlock()

	for _, stream := range streams {
		_ = stream.Stop()
		_ = stream.Close()
	}

	m.mu.Lock()
	m.initialized = false
	m.mu.Unlock()
	return nil
}

// OpenOutput creates a mock playback stream
func (m *MockBackend) OpenOutput(sampleRate float64, channels, frames int) (Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, fmt.Errorf("mock audio backend not initialized")
	}

	if m.openError != nil {
		return nil, m.openError
	}

	stream := &MockStream{
		backend:        m,
		sampleRate:     sampleRate,
		channels:       channels,
		frames:         frames,
		simulateTiming: m.simulateTiming,
		isOpen:         true,
	}

	m.streams = append(m.streams, stream)
	return stream, nil
}

// MockStream implements Stream for testing
type MockStream struct {
	mu             sync.Mutex
	backend        *MockBackend
	sampleRate     float64
	channels       int
	frames         int
	isOpen         bool
	isActive       bool
	simulateTiming bool
	startError     error
	writeError     error
}

// SetStartError configures the stream to return an error on Start()
func (s *MockStream) SetStartError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startError = err
}

// SetWriteError configures the stream to return an error on Write()
func (s *MockStream) SetWriteError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeError = err
}

// Start starts the mock stream
func (s *MockStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.startError != nil {
		return s.startError
	}

	if s.isActive {
		return fmt.Errorf("stream already active")
	}

	s.isActive = true
	return nil
}

// Stop stops the mock stream
func (s *MockStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isActive = false
	return nil
}

// Close closes the mock stream
func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isOpen = false
	s.isActive = false
	return nil
}

// Write records the period so tests can inspect what was played
func (s *MockStream) Write(data []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeError != nil {
		return s.writeError
	}

	if !s.isOpen {
		return fmt.Errorf("stream not open")
	}

	dataCopy := make([]float32, len(data))
	copy(dataCopy, data)

	s.backend.mu.Lock()
	s.backend.playbackPeriods = append(s.backend.playbackPeriods, dataCopy)
	s.backend.mu.Unlock()

	if s.simulateTiming {
		duration := time.Duration(float64(len(data)) / float64(s.channels) / s.sampleRate * float64(time.Second))
		time.Sleep(duration)
	}

	return nil
}

// Active returns true if the mock stream is active
func (s *MockStream) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isActive
}
