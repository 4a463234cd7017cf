package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/apifold/tsgen/internal/console"
	"github.com/apifold/tsgen/internal/gen"
	"github.com/apifold/tsgen/internal/loader"
	"github.com/apifold/tsgen/internal/orchestrator"
)

const (
	inputFlag      = "input"
	outputFlag     = "output"
	namedEnumsFlag = "namedEnums"
	namespaceFlag  = "namespace"
	quietFlag      = "quiet"
	debugFlag      = "debug"
)

var generateFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    inputFlag,
		Aliases: []string{"i"},
		Value:   "openapi.yaml",
		Usage:   "Entry interface description document, JSON or YAML",
	},
	&cli.StringFlag{
		Name:    outputFlag,
		Aliases: []string{"o"},
		Value:   "./generated",
		Usage:   "Output directory for all the generated files (models.ts, client.ts)",
	},
	&cli.BoolFlag{
		Name:    namedEnumsFlag,
		Aliases: []string{"e"},
		Usage:   "Render enumerations as named enum declarations instead of literal unions",
	},
	&cli.StringFlag{
		Name:    namespaceFlag,
		Aliases: []string{"n"},
		Value:   "",
		Usage:   "Import the declarations under a namespace prefix in the client",
	},
	&cli.BoolFlag{
		Name:    quietFlag,
		Aliases: []string{"q"},
		Usage:   "Make the logger quiet.",
	},
	&cli.BoolFlag{
		Name:  debugFlag,
		Usage: "Enable debug mode, disabled by default",
	},
}

func generateAction(ctx *cli.Context) error {
	console.Logger.SetQuiet(ctx.Bool(quietFlag))
	console.Logger.SetDebug(ctx.Bool(debugFlag))

	input := ctx.String(inputFlag)
	baseDir := filepath.Dir(input)
	entry := filepath.Base(input)

	loaderSvc := loader.NewService(loader.WithBaseDir(baseDir))
	pipeline := orchestrator.New(loaderSvc)

	result, err := pipeline.Run(entry)
	if err != nil {
		return err
	}

	return gen.New().Build(&gen.Config{
		OutputDir:       ctx.String(outputFlag),
		EmitNamedEnums:  ctx.Bool(namedEnumsFlag),
		NamespacePrefix: ctx.String(namespaceFlag),
	}, result)
}

func main() {
	app := cli.NewApp()
	app.Name = "tsgen"
	app.Version = gen.Version
	app.Usage = "Generate typed TypeScript models and a typed API client from an interface description document."
	app.Commands = []*cli.Command{
		{
			Name:    "generate",
			Aliases: []string{"g"},
			Usage:   "Generate TypeScript artifacts",
			Action:  generateAction,
			Flags:   generateFlags,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
