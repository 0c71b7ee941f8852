package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stonezone/lendshark/internal/config"
	"github.com/stonezone/lendshark/internal/database"
	"github.com/stonezone/lendshark/internal/database/repository"
	"github.com/stonezone/lendshark/internal/export"
	"github.com/stonezone/lendshark/internal/logger"
	"github.com/stonezone/lendshark/internal/service"
	"github.com/stonezone/lendshark/internal/tui"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer db.Close()

	if err := database.RunMigrationsWithDB(db, cfg.Database.Migrations); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	records := repository.NewRecordRepo(db)
	book := &service.BookService{
		Records: records,
		Parser:  service.DefaultRateParser(cfg.Ledger.DefaultRate),
		Log:     log,
	}

	// non-TUI export surfaces write CSV to stdout
	if len(os.Args) > 1 {
		if err := runCommand(ctx, os.Args[1], records, book); err != nil {
			log.Fatal().Err(err).Msg(os.Args[1])
		}
		return
	}

	p := tea.NewProgram(tui.New(ctx, book, cfg.UI.CurrencySymbol), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, cmd string, records *repository.RecordRepo, book *service.BookService) error {
	switch cmd {
	case "export":
		recs, err := records.List(ctx, repository.RecordFilters{})
		if err != nil {
			return err
		}
		return export.WriteRecords(os.Stdout, recs)
	case "balances":
		sums, asOf, err := book.Summaries(ctx)
		if err != nil {
			return err
		}
		return export.WriteSummaries(os.Stdout, sums, asOf)
	default:
		return fmt.Errorf("unknown command %q (want export or balances)", cmd)
	}
}
