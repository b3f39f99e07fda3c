package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Skyrin/go-migrate/migration"
	"github.com/Skyrin/go-migrate/sql"
)

var migrationsDir string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "migrate applies versioned SQL migrations to a Postgres database.",
	Long: `migrate applies versioned SQL migrations to a Postgres database.

Migration files live in a directory, one unit per <identifier>.sql file
with an optional <identifier>.down.sql reverse script. The identifier
must start with a sortable numeric prefix (e.g. a timestamp) followed by
an underscore and a label. Connection parameters are read from the
DBHOST, DBPORT, DBUSER, DBPASS, DBNAME, SSLMODE and DBSEARCHPATH
environment variables, optionally via a .env file.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "db/migrations",
		"directory containing the migration files")
}

// Execute runs the root command, exiting non-zero on any failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRunner opens a database connection from the environment and
// initializes a runner over the configured migrations directory
func newRunner() (r *migration.Runner, err error) {
	// A .env file is optional, the variables may be set directly
	_ = godotenv.Load()

	db, err := sql.NewPostgresConn(nil)
	if err != nil {
		return nil, err
	}

	return migration.NewRunner(db, migration.NewDirSource(migrationsDir)), nil
}
