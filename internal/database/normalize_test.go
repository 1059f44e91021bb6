// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package database

import (
	"math"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type fakeDecimal struct{ v float64 }

func (d fakeDecimal) Float64() float64 { return d.v }

func TestNormalizeRow(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("6f1c1f2e-8a0b-4a59-9a9e-0c1d2e3f4a5b")
	var num pgtype.Numeric
	if err := num.Scan("12.25"); err != nil {
		t.Fatal(err)
	}

	row := Row{
		"bytes":   []byte("hello"),
		"uuid":    [16]byte(id),
		"numeric": num,
		"null":    pgtype.Numeric{},
		"decimal": fakeDecimal{v: 3.5},
		"small":   int16(7),
		"big":     big.NewInt(42),
		"time":    time.Date(2026, 8, 15, 14, 0, 0, 0, time.FixedZone("BST", 3600)),
		"nested":  map[string]interface{}{"b": []byte("x")},
		"list":    []interface{}{[]byte("y"), int8(1)},
		"string":  "plain",
	}
	normalizeRow(row)

	if f, ok := row["numeric"].(float64); !ok || math.Abs(f-12.25) > 1e-9 {
		t.Errorf("numeric = %#v, want 12.25", row["numeric"])
	}
	if row["null"] != nil {
		t.Errorf("null = %#v, want nil", row["null"])
	}

	want := map[string]interface{}{
		"bytes":   "hello",
		"uuid":    id.String(),
		"decimal": 3.5,
		"small":   int64(7),
		"big":     int64(42),
		"time":    "2026-08-15T13:00:00Z",
		"nested":  map[string]interface{}{"b": "x"},
		"list":    []interface{}{"y", int64(1)},
		"string":  "plain",
	}
	for k, w := range want {
		if got := row[k]; !reflect.DeepEqual(got, w) {
			t.Errorf("%s = %#v, want %#v", k, got, w)
		}
	}
}
