// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for the picker engine. The event loop
// paces frames against a Clock instead of calling the time package
// directly, so engine tests can drive frame deadlines deterministically
// with a FakeClock while production code injects Real().
package clock
