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

import "errors"

var (
	// ErrNotSupported is returned for parameter categories the node or
	// port does not handle.
	ErrNotSupported = errors.New("not supported")

	// ErrInvalidArgument is returned for out-of-range port indexes and
	// malformed payloads.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnderrun fails a whole dispatch cycle when a port's empty
	// queue has run dry.
	ErrUnderrun = errors.New("out of buffers")
)
