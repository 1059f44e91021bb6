// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

/*
Package cache provides a generic in-memory TTL map.

Entries are stamped on Put and expire lazily: Get treats an entry older than
the TTL as absent and removes it. There is no size limit and no cleanup
goroutine, so memory is bounded by the distinct keys seen within one TTL
window. All methods are safe for concurrent use.

The geoip package uses TTL[string, geoip.Record] to remember lookups per
client address.
*/
package cache
