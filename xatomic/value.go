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

// Package xatomic provides small generic, lock-free value cells for state
// that is read and written from more than one goroutine without a dispatch
// queue serializing access. Its user in this module is transport.TCP's
// idempotent-close flag; the channel engine's own state is queue-serialized
// and kept in plain fields.
//
// It is a narrowed, generic-typed reshaping of the load/store/swap cell
// found in larger form in the teacher library's own atomic package: only
// Load, Store, Swap and CompareAndSwap are kept.
package xatomic

import "sync/atomic"

// Value is a typed wrapper around atomic.Value that avoids the empty
// interface at call sites and tolerates a zero Value (no Store yet) by
// returning the type's zero value from Load.
type Value[T any] struct {
	v atomic.Value
}

type box[T any] struct {
	val T
}

// NewValue returns a Value holding the zero value of T until the first Store.
func NewValue[T any]() *Value[T] {
	return &Value[T]{}
}

// NewValueWith returns a Value pre-populated with init.
func NewValueWith[T any](init T) *Value[T] {
	v := &Value[T]{}
	v.Store(init)
	return v
}

// Load returns the current value, or the zero value of T if Store was never called.
func (v *Value[T]) Load() T {
	if b, ok := v.v.Load().(box[T]); ok {
		return b.val
	}
	var zero T
	return zero
}

// Store sets the current value.
func (v *Value[T]) Store(val T) {
	v.v.Store(box[T]{val: val})
}

// Swap atomically replaces the value and returns the previous one.
func (v *Value[T]) Swap(new T) (old T) {
	if b, ok := v.v.Swap(box[T]{val: new}).(box[T]); ok {
		return b.val
	}
	var zero T
	return zero
}

// CompareAndSwap atomically sets new if the current value equals old, using
// the supplied equality function (atomic.Value.CompareAndSwap requires
// comparable underlying types, which box[T] is not in general).
func (v *Value[T]) CompareAndSwap(old, new T, eq func(a, b T) bool) bool {
	for {
		cur := v.v.Load()
		b, ok := cur.(box[T])
		var curVal T
		if ok {
			curVal = b.val
		}
		if !eq(curVal, old) {
			return false
		}
		if ok {
			if v.v.CompareAndSwap(cur, box[T]{val: new}) {
				return true
			}
			continue
		}
		// no prior store: only succeeds if old is the zero value
		var zero T
		if !eq(old, zero) {
			return false
		}
		if v.v.CompareAndSwap(nil, box[T]{val: new}) {
			return true
		}
		continue
	}
}
