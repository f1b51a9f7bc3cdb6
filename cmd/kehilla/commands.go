// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/kehilla"
	"github.com/poiesic/kehilla/directory"
	"github.com/poiesic/kehilla/ingestion"
	"github.com/poiesic/kehilla/server"
	"github.com/poiesic/kehilla/storage/badger"
	"github.com/urfave/cli/v2"
)

var errDatabaseRequired = errors.New("database path is required (--db)")

func openDirectory(ctx context.Context, c *cli.Context) (*kehilla.Directory, error) {
	cfg := loadedConfig(c)

	aiConfig, err := cfg.AIConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []kehilla.Option{
		kehilla.WithAIConfig(aiConfig),
		kehilla.WithSearchPoolSize(cfg.Search.PoolSize),
		kehilla.WithProximity(cfg.Search.ProximityChunkSize, cfg.Search.ProximityWorkers),
		kehilla.WithModelProximity(cfg.Search.ModelProximity),
		kehilla.WithTextualFallback(cfg.Search.TextualFallback),
	}
	switch {
	case cfg.Data.DB != "":
		opts = append(opts, kehilla.WithDatabase(cfg.Data.DB))
	case cfg.Data.Document != "":
		opts = append(opts, kehilla.WithDocument(cfg.Data.Document))
	}
	return kehilla.Open(ctx, opts...)
}

func importCommand(c *cli.Context) error {
	cfg := loadedConfig(c)
	if cfg.Data.DB == "" {
		return errDatabaseRequired
	}

	var source io.Reader
	if cfg.Data.Document != "" {
		f, err := os.Open(cfg.Data.Document)
		if err != nil {
			return fmt.Errorf("failed to open document: %w", err)
		}
		defer f.Close()
		source = f
	} else {
		source = bytes.NewReader(directory.SampleDocument())
	}

	backend, err := badger.OpenBackend(cfg.Data.DB, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewInstitutionRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	importer, err := ingestion.NewImporter(repo)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := importer.Import(c.Context, source)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Database: %s\n", cfg.Data.DB)
	fmt.Fprintf(w, "Postal codes: %d\n", report.PostalCodes)
	fmt.Fprintf(w, "Stored: %d of %d institutions in %v\n", report.Stored, report.Read, time.Since(start).Round(time.Millisecond))
	for _, skipped := range report.Skipped {
		fmt.Fprintf(w, "Skipped: %v\n", skipped)
	}
	return nil
}

func exportCommand(c *cli.Context) error {
	cfg := loadedConfig(c)
	if cfg.Data.DB == "" {
		return errDatabaseRequired
	}

	backend, err := badger.OpenBackend(cfg.Data.DB, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewInstitutionRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	importer, err := ingestion.NewImporter(repo)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if out := c.String("out"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return importer.Export(c.Context, w)
}

func searchCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := openDirectory(ctx, c)
	if err != nil {
		return err
	}
	defer d.Close()

	q := strings.Join(c.Args().Slice(), " ")
	if c.Bool("offline") {
		return printInstitutions(c, d.Searcher().Degraded(q))
	}

	res, err := d.Search(ctx, q)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, searchJSON(res))
	}
	printResult(c.App.Writer, res)
	return nil
}

func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	return queries, scanner.Err()
}

func batchCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	queries, err := readQueries(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read queries: %w", err)
	}

	d, err := openDirectory(ctx, c)
	if err != nil {
		return err
	}
	defer d.Close()

	results, err := d.Searcher().Batch(ctx, queries, c.Int("workers"), c.App.ErrWriter)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, batchJSON(results))
	}
	printBatch(c.App.Writer, results)
	return nil
}

func withStore(c *cli.Context, fn func(d *kehilla.Directory) error) error {
	d, err := openDirectory(c.Context, c)
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(d)
}

func zipCommand(c *cli.Context) error {
	zip := c.Args().First()
	if zip == "" {
		return cli.Exit("a postal code is required", 2)
	}
	return withStore(c, func(d *kehilla.Directory) error {
		printZipMatches(c.App.Writer, d.NearbyZip(zip))
		return nil
	})
}

func categoryCommand(c *cli.Context) error {
	return withStore(c, func(d *kehilla.Directory) error {
		list, err := d.ByCategory(c.Args().First())
		if err != nil {
			return err
		}
		return printInstitutions(c, list)
	})
}

func affiliationCommand(c *cli.Context) error {
	affiliation := strings.Join(c.Args().Slice(), " ")
	return withStore(c, func(d *kehilla.Directory) error {
		return printInstitutions(c, d.ByAffiliation(affiliation))
	})
}

func recommendCommand(c *cli.Context) error {
	return withStore(c, func(d *kehilla.Directory) error {
		return printInstitutions(c, d.Recommend(c.StringSlice("pref")))
	})
}

func serveCommand(c *cli.Context) error {
	cfg := loadedConfig(c)
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := openDirectory(ctx, c)
	if err != nil {
		return err
	}
	defer d.Close()

	addr := cfg.Server.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}
	srv, err := server.New(d, server.WithAddr(addr), server.WithMode(cfg.Server.Mode))
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func categoryNames() string {
	return strings.Join(directory.Categories, ", ")
}
