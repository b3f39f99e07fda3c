package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "two statements",
			raw:  "CREATE TABLE a (id INT);\nCREATE TABLE b (id INT);",
			want: []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"},
		},
		{
			name: "no trailing semicolon",
			raw:  "CREATE TABLE a (id INT)",
			want: []string{"CREATE TABLE a (id INT)"},
		},
		{
			name: "line comment with semicolon is stripped",
			raw:  "-- setup; do not remove\nCREATE TABLE a (id INT);",
			want: []string{"CREATE TABLE a (id INT)"},
		},
		{
			name: "comment between tokens keeps them separated",
			raw:  "ALTER TABLE messages-- tighten\nALTER COLUMN author_id SET NOT NULL;",
			want: []string{"ALTER TABLE messages\nALTER COLUMN author_id SET NOT NULL"},
		},
		{
			name: "semicolon inside quoted literal",
			raw:  "INSERT INTO t (v) VALUES ('a;b');",
			want: []string{"INSERT INTO t (v) VALUES ('a;b')"},
		},
		{
			name: "escaped quote inside literal",
			raw:  "INSERT INTO t (v) VALUES ('it''s; fine');",
			want: []string{"INSERT INTO t (v) VALUES ('it''s; fine')"},
		},
		{
			name: "dollar quoted function body",
			raw: "CREATE FUNCTION f() RETURNS void AS $$ BEGIN NULL; END $$ LANGUAGE plpgsql;\n" +
				"SELECT 1;",
			want: []string{
				"CREATE FUNCTION f() RETURNS void AS $$ BEGIN NULL; END $$ LANGUAGE plpgsql",
				"SELECT 1",
			},
		},
		{
			name: "tagged dollar quote",
			raw:  "CREATE FUNCTION g() RETURNS void AS $fn$ SELECT ';'; $fn$ LANGUAGE sql;",
			want: []string{"CREATE FUNCTION g() RETURNS void AS $fn$ SELECT ';'; $fn$ LANGUAGE sql"},
		},
		{
			name: "only comments and whitespace",
			raw:  "-- nothing here\n\n  -- still nothing\n",
			want: nil,
		},
		{
			name: "empty statements dropped",
			raw:  ";;\nSELECT 1;;",
			want: []string{"SELECT 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.raw))
		})
	}
}
