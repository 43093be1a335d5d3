/*
Parsegen builds, inspects, and serves LL(1)/LR parser tables.

Usage:

	parsegen [flags] SUBCOMMAND [args]

The subcommands are:

	build PARSER_TYPE
		Build the bundled sample grammar's parse table for PARSER_TYPE (one of
		ll1, lr0, slr1, clr1, lalr1), cache it, and print a summary.

	dump PARSER_TYPE
		Build PARSER_TYPE's table for the bundled sample grammar and print it
		in human-readable form. The cache is not read.

	parse PARSER_TYPE INPUT
		Tokenize INPUT with the bundled sample lexer, run it through
		PARSER_TYPE, and print the resulting value.

	serve
		Start the HTTP admin/parse service described by the config file named
		with --config.

	repl PARSER_TYPE
		Start an interactive read-eval-print loop over PARSER_TYPE.

The flags are:

	-v, --version
		Give the current version of parsegen and then exit.

	-c, --config FILE
		Load serve configuration from FILE. If not given, built-in defaults
		are used.

	-l, --listen LISTEN_ADDRESS
		Override the configured listen address for the serve subcommand.

	-s, --secret TOKEN_SECRET
		Override the configured JWT signing secret for the serve subcommand.
		If not given, one will be generated and seeded from the OS's random
		source; tokens issued under a generated secret become invalid at
		shutdown.

	--cache DIR
		Override the configured cache directory for the serve subcommand.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dekarrin/parsegen/cache"
	"github.com/dekarrin/parsegen/grammar"
	"github.com/dekarrin/parsegen/internal/input"
	"github.com/dekarrin/parsegen/internal/version"
	"github.com/dekarrin/parsegen/parse"
	"github.com/dekarrin/parsegen/service"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitRunError
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of parsegen and then exit.")
	flagConfig  = pflag.StringP("config", "c", "", "Load serve configuration from the given TOML file.")
	flagListen  = pflag.StringP("listen", "l", "", "Override the configured listen address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Override the configured JWT signing secret.")
	flagCache   = pflag.String("cache", "", "Override the configured cache directory.")
)

var returnCode = ExitSuccess

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			fmt.Fprintf(os.Stderr, "FATAL: unrecoverable panic: %v\n", panicErr)
			os.Exit(ExitRunError)
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("parsegen v%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "no subcommand given\nDo -h for help.\n")
		returnCode = ExitUsageError
		return
	}

	sub, rest := args[0], args[1:]

	var err error
	switch sub {
	case "build":
		err = cmdBuild(rest)
	case "dump":
		err = cmdDump(rest)
	case "parse":
		err = cmdParse(rest)
	case "serve":
		err = cmdServe(rest)
	case "repl":
		err = cmdRepl(rest)
	default:
		err = fmt.Errorf("unknown subcommand %q", sub)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRunError
	}
}

func buildParser(parserType string) (*parse.LL1Parser, *parse.LRParser, grammar.Grammar, error) {
	g := exampleGrammar()
	h := exampleHandlers()

	switch strings.ToLower(parserType) {
	case "ll1", "":
		p, err := parse.NewLL1Parser(g, parse.WithHandlers(h))
		return p, nil, g, err
	case "lr0":
		p, _, err := parse.NewLR0Parser(g, parse.WithHandlers(h))
		return nil, p, g, err
	case "slr1":
		p, _, err := parse.NewSLRParser(g, parse.WithHandlers(h))
		return nil, p, g, err
	case "clr1":
		p, _, err := parse.NewCLR1Parser(g, parse.WithHandlers(h))
		return nil, p, g, err
	case "lalr1":
		p, _, err := parse.NewLALR1Parser(g, parse.WithHandlers(h))
		return nil, p, g, err
	default:
		return nil, nil, grammar.Grammar{}, fmt.Errorf("unknown parser type %q", parserType)
	}
}

// buildEmbeddableParser wraps buildParser's driver in a parse.Parser, the
// public surface spec clients embed rather than the raw LL1Parser/LRParser.
func buildEmbeddableParser(parserType string) (*parse.Parser, error) {
	ll1, lr, _, err := buildParser(parserType)
	if err != nil {
		return nil, err
	}
	if ll1 != nil {
		return parse.NewParser(ll1, "LL1", exampleLexer()), nil
	}
	return parse.NewParser(lr, strings.ToUpper(parserType), exampleLexer()), nil
}

func openCache() (*cache.Store, error) {
	dir := *flagCache
	if dir == "" {
		dir = "."
	}
	return cache.Open(dir)
}

func cmdBuild(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: parsegen build PARSER_TYPE")
	}
	parserType := args[0]

	ll1, lr, g, err := buildParser(parserType)
	if err != nil {
		return err
	}

	store, err := openCache()
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	hash := cache.HashGrammar(g)
	h := exampleHandlers()

	if ll1 != nil {
		tbl, err := g.LLParseTable()
		if err != nil {
			return fmt.Errorf("build LL(1) table: %w", err)
		}
		if err := store.PutLL1Table(ctx, "example", hash, g, tbl, h); err != nil {
			return fmt.Errorf("cache LL(1) table: %w", err)
		}
	} else {
		if err := store.PutLRTable(ctx, "example", hash, g, lr.Table(), h); err != nil {
			return fmt.Errorf("cache LR table: %w", err)
		}
	}

	fmt.Printf("built and cached %q table for \"example\" (hash %s)\n", parserType, hash)
	return nil
}

func cmdDump(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: parsegen dump PARSER_TYPE")
	}
	parserType := args[0]

	_, lr, g, err := buildParser(parserType)
	if err != nil {
		return err
	}
	if lr == nil {
		tbl, err := g.LLParseTable()
		if err != nil {
			return fmt.Errorf("build LL(1) table: %w", err)
		}
		fmt.Println(tbl.String())
		return nil
	}

	fmt.Println(lr.Table().String())
	return nil
}

func cmdParse(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: parsegen parse PARSER_TYPE INPUT")
	}
	parserType, src := args[0], strings.Join(args[1:], " ")

	p, err := buildEmbeddableParser(parserType)
	if err != nil {
		return err
	}
	p.OnParseBegin(func(in string, _ parse.Tokenizer, opts parse.Options) {
		fmt.Printf("parsing %q in %s mode\n", in, opts.Mode)
	})

	res, err := p.Parse(src, nil)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	fmt.Printf("accepted: %v => %v\n", src, res.Value)
	return nil
}

func cmdServe(args []string) error {
	cfg, err := loadConfig(*flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if pflag.Lookup("listen").Changed {
		cfg.Listen = *flagListen
	}
	if pflag.Lookup("cache").Changed {
		cfg.CachePath = *flagCache
	}
	if pflag.Lookup("secret").Changed {
		cfg.JWTSecret = *flagSecret
	}

	var secret []byte
	if cfg.JWTSecret != "" {
		secret = []byte(cfg.JWTSecret)
	} else {
		secret = make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate signing secret: %w", err)
		}
		fmt.Fprintln(os.Stderr, "WARN  using generated JWT secret; tokens become invalid at shutdown")
	}

	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	svc := service.New(store, secret)
	svc.SetLogger(func(msg string) { fmt.Fprintln(os.Stderr, msg) })

	fmt.Printf("parsegen serving on %s\n", cfg.Listen)
	return http.ListenAndServe(cfg.Listen, svc.Router())
}

func cmdRepl(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: parsegen repl PARSER_TYPE")
	}
	parserType := args[0]

	p, err := buildEmbeddableParser(parserType)
	if err != nil {
		return err
	}
	p.OnParseEnd(func(value any) { fmt.Printf("=> %v\n", value) })

	reader, err := input.NewInteractiveReader(fmt.Sprintf("%s> ", parserType))
	if err != nil {
		return fmt.Errorf("start reader: %w", err)
	}
	defer reader.Close()

	for {
		line, err := reader.ReadLine()
		if err != nil {
			break
		}
		if line == "quit" || line == "exit" {
			break
		}

		if _, parseErr := p.Parse(line, nil); parseErr != nil {
			fmt.Printf("rejected: %s\n", parseErr.Error())
		}
	}

	return nil
}
