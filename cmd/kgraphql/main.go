// Command kgraphql compiles and runs pattern-language queries against
// registered edge files.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/HardiRathod/kgraph"
	"github.com/HardiRathod/kgraph/patternlang"
	"github.com/HardiRathod/kgraph/store/sqlite"
)

func main() {
	cmd := &cli.Command{
		Name:  "kgraphql",
		Usage: "compile and run pattern-language queries against wide-row edge tables",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a .kgraph.yaml config file"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Commands: []*cli.Command{
			queryCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(level)

	return cfg.Build()
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "compile and execute a pattern-language query",
		ArgsUsage: "<query text>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "param", Aliases: []string{"p"}, Usage: "name=value parameter, repeatable"},
		},
		Action: runQuery,
	}
}

// parseParams turns repeated "name=value" flag values into the parameter map
// a Compiler resolves $name references against. Values are kept as strings;
// the pattern language's CLI surface has no typed parameter syntax to coerce
// against.
func parseParams(raw []string) (map[string]any, error) {
	params := make(map[string]any, len(raw))

	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("kgraphql: malformed --param %q, want name=value", kv)
		}

		params[name] = value
	}

	return params, nil
}

func runQuery(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	text := cmd.Args().First()
	if text == "" {
		return fmt.Errorf("kgraphql: no query text given")
	}

	configPath := cmd.String("config")
	if configPath == "" {
		configPath, err = kgraph.FindConfig(".")
		if err != nil {
			return fmt.Errorf("kgraphql: %w (pass --config explicitly)", err)
		}
	}

	cfg, err := kgraph.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("kgraphql: load config: %w", err)
	}

	store, err := sqlite.Open(cfg.Store.DSN, log)
	if err != nil {
		return fmt.Errorf("kgraphql: open store: %w", err)
	}
	defer store.Close()

	query, err := patternlang.Parse(text)
	if err != nil {
		return fmt.Errorf("kgraphql: parse query: %w", err)
	}

	params, err := parseParams(cmd.StringSlice("param"))
	if err != nil {
		return err
	}

	compiler := kgraph.NewCompiler(store, cfg.Paths(), params)

	sqlText, args, err := compiler.Compile(ctx, query)
	if err != nil {
		return fmt.Errorf("kgraphql: compile: %w", err)
	}

	log.Debug("compiled query", zap.String("sql", sqlText), zap.Any("params", args))

	result, err := store.Execute(ctx, sqlText, args)
	if err != nil {
		return fmt.Errorf("kgraphql: execute: %w", err)
	}
	defer result.Close()

	return printResult(result)
}

func printResult(result kgraph.Result) error {
	cols := result.Columns()

	fmt.Println(cols)

	for result.Next() {
		row := make([]any, len(cols))
		ptrs := make([]any, len(cols))

		for i := range row {
			ptrs[i] = &row[i]
		}

		if err := result.Scan(ptrs...); err != nil {
			return err
		}

		fmt.Println(row)
	}

	return result.Err()
}
