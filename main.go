package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/fastclicker/TableBundle/pkg/debug"
	"github.com/fastclicker/TableBundle/pkg/render/html"
	"github.com/fastclicker/TableBundle/pkg/render/text"
	"github.com/fastclicker/TableBundle/pkg/render/urlgen"
	tablecli "github.com/fastclicker/TableBundle/pkg/server/cli"
	"github.com/fastclicker/TableBundle/pkg/table"
	"github.com/rancher/wrangler/v3/pkg/signals"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	config      tablecli.Config
	debugconfig debug.Config
)

func main() {
	app := cli.NewApp()
	app.Name = "tablebundle"
	app.Usage = "Paginated, sortable and filterable tables over SQL databases"
	app.Flags = append(
		tablecli.Flags(&config),
		debug.Flags(&debugconfig)...)
	app.Before = func(*cli.Context) error {
		return debugconfig.SetupDebug()
	}
	app.Commands = []*cli.Command{
		{
			Name:   "serve",
			Usage:  "Serve the tables over HTTP",
			Action: serve,
		},
		{
			Name:      "render",
			Usage:     "Render one table to stdout",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "table", Aliases: []string{"t"}, Required: true, Usage: "Table name"},
				&cli.StringSliceFlag{Name: "param", Aliases: []string{"p"}, Usage: "Request parameter as name=value, repeatable"},
				&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Output format, text or html"},
			},
			Action: render,
		},
	}
	app.DefaultCommand = "serve"

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func serve(_ *cli.Context) error {
	ctx := signals.SetupSignalContext()
	tables, err := config.LoadTables()
	if err != nil {
		return err
	}
	defer tables.Close()

	return config.ToServer(tables).ListenAndServe(ctx, config.HTTPListenPort)
}

func render(c *cli.Context) error {
	var renderer table.Renderer
	switch format := c.String("format"); format {
	case "text":
		renderer = text.New()
	case "html":
		renderer = html.New()
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	query, err := parseParams(c.StringSlice("param"))
	if err != nil {
		return err
	}

	tables, err := config.LoadTables()
	if err != nil {
		return err
	}
	defer tables.Close()

	name := c.String("table")
	def, ok := tables.Registry.Lookup(name)
	if !ok {
		return fmt.Errorf("table %s does not exist, known tables are %v", name, tables.Registry.Names())
	}

	view, err := table.NewAssembler(tables.Catalog, renderer).Build(c.Context, def, table.Values(query))
	if err != nil {
		return err
	}
	return renderer.Render(os.Stdout, view, urlgen.New("/tables/"+url.PathEscape(name), query))
}

func parseParams(params []string) (url.Values, error) {
	query := url.Values{}
	for _, param := range params {
		name, value, ok := strings.Cut(param, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected name=value", param)
		}
		query.Add(name, value)
	}
	return query, nil
}
