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

// Filter narrows the candidates reported during enumeration. A nil
// field leaves that dimension unconstrained. A candidate that fails the
// intersection is skipped, never reported as an error.
type Filter struct {
	Encoding *Encoding
	Rate     *Range
	Channels *Range
}

// Matches intersects the filter against a candidate payload. Categories
// that carry no format information always match.
func (f *Filter) Matches(p Payload) bool {
	if f == nil {
		return true
	}

	switch v := p.(type) {
	case EnumFormat:
		if f.Encoding != nil && !containsEncoding(v.Encodings, *f.Encoding) {
			return false
		}
		if f.Rate != nil && !f.Rate.Overlaps(v.Rate) {
			return false
		}
		if f.Channels != nil && !f.Channels.Overlaps(v.Channels) {
			return false
		}
	case Format:
		if f.Encoding != nil && v.Encoding != *f.Encoding {
			return false
		}
		if f.Rate != nil && !f.Rate.Contains(v.Rate) {
			return false
		}
		if f.Channels != nil && !f.Channels.Contains(v.Channels) {
			return false
		}
	}

	return true
}

func containsEncoding(set []Encoding, e Encoding) bool {
	for _, c := range set {
		if c == e {
			return true
		}
	}
	return false
}
