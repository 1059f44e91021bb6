// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

// Package useragent buckets User-Agent headers into device class, OS family
// and major version, and browser family and major version for visit
// counting. Parsing is done by github.com/mssola/useragent.
package useragent
