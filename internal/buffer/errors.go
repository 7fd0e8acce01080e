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

package buffer

import "errors"

var (
	// ErrOutOfSpace is returned when an attach asks for more buffers
	// than the pool can hold.
	ErrOutOfSpace = errors.New("buffer count exceeds pool capacity")

	// ErrNoBacking is returned when a plane descriptor names neither a
	// direct memory reference nor a shared-memory handle.
	ErrNoBacking = errors.New("no usable backing memory")
)
