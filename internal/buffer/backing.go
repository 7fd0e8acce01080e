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

// Package buffer provides the per-port buffer pool: a bounded arena of
// reusable buffers plus a FIFO queue of the ids currently available for
// generation. Backing memory is either a direct reference into
// host-owned memory or a region mapped from a shared-memory handle.
package buffer

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Backing is a tagged variant over the two kinds of buffer memory:
// Direct (a slice of host-owned memory) or Mapped (a region mmapped
// from a shared-memory file descriptor that must be unmapped on
// release).
type Backing struct {
	data   []byte
	mapped bool
}

// Direct wraps host-owned memory. Release is a no-op for it.
func Direct(data []byte) Backing {
	return Backing{data: data}
}

// Map maps size bytes of the shared-memory handle fd for read-write
// access. The returned backing owns the mapping until Release.
func Map(fd int, offset int64, size uint32) (Backing, error) {
	data, err := unix.Mmap(fd, offset, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return Backing{}, fmt.Errorf("mmap %d bytes from fd %d: %w", size, fd, err)
	}
	return Backing{data: data, mapped: true}, nil
}

// Bytes returns the backing memory.
func (b Backing) Bytes() []byte {
	return b.data
}

// Mapped reports whether the backing owns a shared-memory mapping.
func (b Backing) Mapped() bool {
	return b.mapped
}

// Release unmaps mapped backings and is a no-op for direct ones. The
// backing must not be used afterwards.
func (b *Backing) Release() error {
	if !b.mapped || b.data == nil {
		b.data = nil
		return nil
	}
	data := b.data
	b.data = nil
	b.mapped = false
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}
