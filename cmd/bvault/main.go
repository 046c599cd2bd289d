// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/MKhiriev/bvault/internal/config"
	"github.com/MKhiriev/bvault/internal/crypto"
	"github.com/MKhiriev/bvault/internal/logger"
	"github.com/MKhiriev/bvault/internal/service"
	"github.com/MKhiriev/bvault/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const defaultSQLiteDSN = "bvault.db"

func main() {
	printBuildInfo()

	log := logger.NewFileLogger("bvault")

	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	applyLogLevel(cfg.App.LogLevel)

	ctx := log.WithContext(context.Background())

	db, err := connectDB(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect metadata database")
	}
	defer db.Close()

	repo := store.NewMetadataRepository(db, log)

	raw, err := newRawStorage(cfg.Storage.Vault)
	if err != nil {
		log.Fatal().Err(err).Msg("open vault storage")
	}

	svc := service.NewSecureStorage(crypto.NewDefaultService(), repo, raw, log)

	if err = run(ctx, svc, repo, flag.Args()); err != nil {
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, svc service.SecureStorageService, repo store.MetadataRepository, args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("no command given")
	}

	switch args[0] {
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: bvault set <key> <value>")
		}
		if err := initialize(ctx, svc); err != nil {
			return err
		}
		return svc.SetItem(ctx, args[1], args[2])

	case "get":
		getFlags := flag.NewFlagSet("get", flag.ExitOnError)
		copyToClipboard := getFlags.Bool("copy", false, "copy the value to the clipboard instead of printing it")
		if err := getFlags.Parse(args[1:]); err != nil {
			return err
		}
		if getFlags.NArg() != 1 {
			return fmt.Errorf("usage: bvault get [-copy] <key>")
		}
		key := getFlags.Arg(0)

		if err := initialize(ctx, svc); err != nil {
			return err
		}
		value, ok, err := svc.GetItem(ctx, key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no entry for %q", key)
		}
		if *copyToClipboard {
			if err = clipboard.WriteAll(value); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Println("copied to clipboard")
			return nil
		}
		fmt.Println(value)
		return nil

	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: bvault rm <key>")
		}
		return svc.RemoveItem(ctx, args[1])

	case "clear":
		return svc.Clear(ctx)

	case "list":
		if err := repo.Init(ctx); err != nil {
			return err
		}
		records, err := repo.GetAll(ctx)
		if err != nil {
			return err
		}
		for _, record := range records {
			fmt.Println(record.Key)
		}
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// initialize establishes the session with the vault password taken from
// BVAULT_PASSWORD or prompted on the terminal.
func initialize(ctx context.Context, svc service.SecureStorageService) error {
	password, err := readPassword()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	return svc.Initialize(ctx, password)
}

func readPassword() (string, error) {
	if password := os.Getenv("BVAULT_PASSWORD"); password != "" {
		return password, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func connectDB(ctx context.Context, cfg config.DB, log *logger.Logger) (*store.DB, error) {
	switch cfg.Driver {
	case "pgx":
		return store.NewConnectPostgres(ctx, cfg, log)
	default:
		if cfg.DSN == "" {
			cfg.DSN = defaultSQLiteDSN
		}
		return store.NewConnectSQLite(ctx, cfg, log)
	}
}

func newRawStorage(cfg config.Vault) (store.RawStorage, error) {
	if cfg.FilePath == "" {
		return store.NewMemoryStorage(), nil
	}
	return store.NewFileStorage(cfg.FilePath)
}

func applyLogLevel(level string) {
	if level == "" {
		return
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return
	}
	zerolog.SetGlobalLevel(parsed)
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: bvault [flags] <command>

Commands:
  set <key> <value>    encrypt value and store it under key
  get [-copy] <key>    decrypt and print (or copy) the value for key
  rm <key>             remove the entry for key
  clear                remove every entry
  list                 print every stored key

Flags are described by "bvault -h". The vault password is read from the
BVAULT_PASSWORD environment variable or prompted on the terminal.`)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
