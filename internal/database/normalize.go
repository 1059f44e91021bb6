// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package database

import (
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// normalizeRow converts driver-specific values in place so rows encode to
// plain JSON: numerics become float64, UUIDs strings, byte slices strings
// and timestamps RFC 3339 in UTC.
func normalizeRow(row Row) {
	for k, v := range row {
		row[k] = normalizeValue(v)
	}
}

// float64er matches decimal types that can report a float64 directly
// (duckdb.Decimal).
type float64er interface {
	Float64() float64
}

func normalizeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, bool, string, int, int32, int64, float32, float64:
		return x
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return x
	case []byte:
		return string(x)
	case [16]byte:
		return uuid.UUID(x).String()
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case *big.Int:
		if x == nil {
			return nil
		}
		if x.IsInt64() {
			return x.Int64()
		}
		return x.String()
	case float64er:
		return x.Float64()
	case map[string]interface{}:
		for k, inner := range x {
			x[k] = normalizeValue(inner)
		}
		return x
	case []interface{}:
		for i, inner := range x {
			x[i] = normalizeValue(inner)
		}
		return x
	default:
		return x
	}
}
