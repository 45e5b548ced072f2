// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package queue implements the ticket sequencer: one process-wide pair of
// counters, issued and called, guarded by a single mutex.
//
// Customers take numbers with IssueNext; operators move through them with
// CallNext, RecallCurrent and CallPrevious. Each of those that lands on a
// number hands it to the Announcer. State lives in memory only and starts
// again from zero when the process restarts or Reset is called.
package queue
