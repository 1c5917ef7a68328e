package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexanderramin/meridian/internal/cli"
	"github.com/alexanderramin/meridian/internal/config"
	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/kv"
	"github.com/alexanderramin/meridian/internal/logging"
	"github.com/alexanderramin/meridian/internal/prefs"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/alexanderramin/meridian/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// --verbose is also registered on the root command; it is read here
	// because logging must be set up before the services are wired.
	early := pflag.NewFlagSet("meridian", pflag.ContinueOnError)
	early.ParseErrorsWhitelist.UnknownFlags = true
	early.SetOutput(io.Discard)
	early.Usage = func() {}
	verbose := early.BoolP("verbose", "v", false, "")
	_ = early.Parse(args)

	home, err := config.DefaultHome()
	if err != nil {
		return err
	}
	cfg, err := config.Load(config.Path(home), home)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file unless --verbose.
	logFile, level := cfg.LogFile, cfg.LogLevel
	if logFile == "" {
		logFile = filepath.Join(home, "meridian.log")
	}
	if *verbose {
		logFile, level = "", "debug"
	}
	logger, closeLog, err := logging.Setup(level, logFile, os.Stderr)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closeLog()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	projectRepo := repository.NewSQLiteProjectRepo(database)
	itemRepo := repository.NewSQLiteItemRepo(database)
	uow := db.NewSQLiteUnitOfWork(database, db.WithTxLogger(logging.Component("db")))

	var prefsKV kv.KV = repository.NewSQLiteKVStore(database)
	if cfg.Prefs.Backend == config.PrefsBackendDisk {
		prefsKV = kv.NewDiskStore(cfg.Prefs.Dir)
	}

	interactive := (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		isatty.IsTerminal(os.Stdout.Fd())

	observer := service.NewLogUseCaseObserver(logging.Component("service"))
	app := &cli.App{
		Projects:    service.NewProjectService(projectRepo),
		Items:       service.NewItemService(itemRepo, uow, observer),
		Timeline:    service.NewTimelineService(projectRepo, itemRepo, logging.Component("timeline")),
		Prefs:       prefs.NewStore(prefsKV, cfg.Granularity()),
		Config:      cfg,
		Log:         logger,
		Interactive: interactive,
	}

	logger.Debug().Str("db", cfg.DBPath).Str("prefs", cfg.Prefs.Backend).Msg("starting")

	root := cli.NewRootCmd(app)
	root.SetArgs(args)
	return root.Execute()
}
