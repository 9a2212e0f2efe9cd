package cli

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/fastclicker/TableBundle/pkg/db"
	"github.com/fastclicker/TableBundle/pkg/server"
	"github.com/fastclicker/TableBundle/pkg/sqlsource"
	"github.com/fastclicker/TableBundle/pkg/table"
	"github.com/fastclicker/TableBundle/pkg/tabledef"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type Config struct {
	Driver         string
	DSN            string
	Definitions    string
	InitSQL        []string
	HTTPListenPort int
}

// Tables is everything loaded from a Config: the database, the registered tables and
// the catalog of their data sources.
type Tables struct {
	DB       *sqlx.DB
	Registry *table.Registry
	Catalog  *sqlsource.Catalog
}

func (t *Tables) Close() error {
	return t.DB.Close()
}

// LoadTables opens the database, runs the init statements and registers the table definitions.
func (c *Config) LoadTables() (*Tables, error) {
	conn, err := db.Open(c.Driver, c.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.Exec(conn, c.InitSQL...); err != nil {
		conn.Close()
		return nil, err
	}

	definitions, err := tabledef.Load(c.Definitions)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "unable to load table definitions")
	}

	tables := &Tables{
		DB:       conn,
		Registry: table.NewRegistry(),
		Catalog:  sqlsource.NewCatalog(conn),
	}
	if err := tabledef.Register(tables.Registry, tables.Catalog, definitions); err != nil {
		conn.Close()
		return nil, err
	}
	logrus.Infof("registered tables %v", tables.Registry.Names())
	return tables, nil
}

func (c *Config) ToServer(tables *Tables) *server.Server {
	return &server.Server{
		Registry: tables.Registry,
		Sources:  tables.Catalog,
	}
}

func DefaultDefinitions() string {
	return filepath.Join(xdg.ConfigHome, "tablebundle", "tables")
}

func Flags(config *Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "driver",
			EnvVars:     []string{"TABLEBUNDLE_DRIVER"},
			Value:       db.SQLite,
			Usage:       "Database driver, sqlite or pgx",
			Destination: &config.Driver,
		},
		&cli.StringFlag{
			Name:        "dsn",
			EnvVars:     []string{"TABLEBUNDLE_DSN"},
			Value:       "file:tablebundle.db",
			Usage:       "Database connection string",
			Destination: &config.DSN,
		},
		&cli.StringFlag{
			Name:        "definitions",
			EnvVars:     []string{"TABLEBUNDLE_DEFINITIONS"},
			Value:       DefaultDefinitions(),
			Usage:       "Table definition file, or directory of *.yaml files",
			Destination: &config.Definitions,
		},
		&cli.StringSliceFlag{
			Name:  "init-sql",
			Usage: "SQL statement to run after connecting, repeatable",
			Action: func(_ *cli.Context, statements []string) error {
				config.InitSQL = statements
				return nil
			},
		},
		&cli.IntFlag{
			Name:        "http-listen-port",
			EnvVars:     []string{"TABLEBUNDLE_HTTP_LISTEN_PORT"},
			Value:       8080,
			Destination: &config.HTTPListenPort,
		},
	}
}
