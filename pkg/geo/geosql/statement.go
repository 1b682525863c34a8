// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geosql

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgerror"
	"github.com/lib/pq"
)

// ColumnType selects the cast applied to the placeholder of a column.
type ColumnType int

const (
	// ColumnPlain columns are bound without a cast.
	ColumnPlain ColumnType = iota
	// ColumnGeometry columns are bound as "$n::geometry".
	ColumnGeometry
	// ColumnRaster columns are bound as "$n::raster".
	ColumnRaster
)

func (t ColumnType) cast() string {
	switch t {
	case ColumnGeometry:
		return "::geometry"
	case ColumnRaster:
		return "::raster"
	default:
		return ""
	}
}

// Column is a column of an INSERT statement.
type Column struct {
	Name string
	Type ColumnType
}

// GeometryColumn is a convenience constructor for a geometry column.
func GeometryColumn(name string) Column { return Column{Name: name, Type: ColumnGeometry} }

// RasterColumn is a convenience constructor for a raster column.
func RasterColumn(name string) Column { return Column{Name: name, Type: ColumnRaster} }

// PlainColumn is a convenience constructor for a column bound as-is.
func PlainColumn(name string) Column { return Column{Name: name, Type: ColumnPlain} }

// InsertStatement returns a parameterized INSERT of one row into table,
// binding the columns in order. The table may be schema qualified; every
// identifier is quoted. The values are meant to be GeometryValue and
// RasterValue arguments.
//
// For example, InsertStatement("public.tiles", PlainColumn("id"),
// RasterColumn("rast")) returns:
//
//	INSERT INTO "public"."tiles" ("id", "rast") VALUES ($1, $2::raster)
func InsertStatement(table string, columns ...Column) (string, error) {
	if table == "" {
		return "", pgerror.New(pgcode.InvalidParameterValue, "table name must not be empty")
	}
	if len(columns) == 0 {
		return "", pgerror.New(pgcode.InvalidParameterValue, "at least one column is required")
	}

	var buf strings.Builder
	buf.WriteString("INSERT INTO ")
	for i, part := range strings.Split(table, ".") {
		if i > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(pq.QuoteIdentifier(part))
	}
	buf.WriteString(" (")
	for i, c := range columns {
		if c.Name == "" {
			return "", pgerror.Newf(pgcode.InvalidParameterValue, "column %d has no name", i+1)
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(pq.QuoteIdentifier(c.Name))
	}
	buf.WriteString(") VALUES (")
	for i, c := range columns {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteByte('$')
		buf.WriteString(strconv.Itoa(i + 1))
		buf.WriteString(c.Type.cast())
	}
	buf.WriteByte(')')
	return buf.String(), nil
}
