// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package pattern

import "fmt"

// Error is returned by every operation in this package. It carries the
// byte offset within the original expression string at which the problem
// was detected, so callers with access to a source Span can compute a
// precise diagnostic location; this package itself never constructs a
// diag.Diagnostic, since it has no notion of files.
type Error struct {
	Expr   string
	Offset int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%q: %s (at offset %d)", e.Expr, e.Reason, e.Offset)
}

func errf(expr string, offset int, format string, args ...any) *Error {
	return &Error{Expr: expr, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
