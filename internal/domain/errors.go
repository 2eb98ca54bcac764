/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidReference = errors.New("invalid scripture reference")
	ErrInvalidCanvas    = errors.New("invalid canvas size")
	// ErrNoRequest is returned by cache queries before any generation request was set.
	ErrNoRequest = errors.New("no generation request set")
	// ErrSuperseded marks a render whose generation was replaced while it ran.
	ErrSuperseded = errors.New("generation superseded")
)

// InvalidThemeError reports a malformed theme field. Themes carrying it never reach rendering.
type InvalidThemeError struct {
	Field  string
	Reason string
}

func (e *InvalidThemeError) Error() string {
	return fmt.Sprintf("invalid theme: %s: %s", e.Field, e.Reason)
}

// IndexOutOfRangeError reports a slide index outside [0, Count).
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("slide index %d out of range [0, %d)", e.Index, e.Count)
}

// FontFallbackWarning is non-fatal: the requested family could not be resolved
// and the text was set in Used instead.
type FontFallbackWarning struct {
	Requested string
	Used      string
}

func (w *FontFallbackWarning) Error() string {
	return fmt.Sprintf("font %q not available, using %q", w.Requested, w.Used)
}

// EmptyReferenceResult signals that a reference resolved to no text. It is informational:
// pagination still yields a single empty chunk.
type EmptyReferenceResult struct {
	Reference ScriptureReference
}

func (e *EmptyReferenceResult) Error() string {
	r := e.Reference
	return fmt.Sprintf("no text for book %d chapter %d verses %s", r.Book, r.Chapter, r.VerseCaption())
}
