/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package channel

import (
	"sync"

	"github.com/google/uuid"
)

// registry is the process-wide id->Channel table backing ID/Lookup. A
// transport that needs to reach back into the channel that owns it (for
// diagnostics, or a future out-of-band control path) holds this opaque id
// rather than a *Channel pointer, so the transport and the channel never
// hold direct references to each other — the channel owns the transport,
// never the reverse, per the retain-cycle inversion this module follows.
var registry sync.Map // uuid.UUID -> *Channel

// ID returns this channel's process-wide, opaque identity, assigned once
// at Open and stable for the channel's lifetime.
func (c *Channel) ID() uuid.UUID { return c.id }

// Lookup returns the channel registered under id, if it is still open.
func Lookup(id uuid.UUID) (*Channel, bool) {
	v, ok := registry.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Channel), true
}

func register(c *Channel) uuid.UUID {
	id := uuid.New()
	registry.Store(id, c)
	return id
}

func deregister(id uuid.UUID) {
	registry.Delete(id)
}
