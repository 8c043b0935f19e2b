// maya is the household finance client: it syncs the transaction ledger, the
// pantry inventory and the monthly report through the remote-demo-default
// fallback chain, keeps a local snapshot, and can scan a receipt image.
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aybis/maya-family/internal/config"
	"github.com/Aybis/maya-family/internal/infrastructure/ai"
	"github.com/Aybis/maya-family/internal/infrastructure/gateway"
	"github.com/Aybis/maya-family/internal/logger"
	"github.com/Aybis/maya-family/internal/model"
	"github.com/Aybis/maya-family/internal/repository"
	"github.com/Aybis/maya-family/internal/service"
	"github.com/Aybis/maya-family/internal/store"
)

func main() {
	month := flag.String("month", "", "report month as YYYY-MM, empty for current")
	scan := flag.String("scan", "", "path of a receipt image to scan")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	var snapshots repository.Snapshots = repository.Nop{}
	if cfg.Storage.Path != "" {
		sqlite, err := repository.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Storage.Path).Msg("snapshot store unavailable, running without persistence")
		} else {
			snapshots = sqlite
		}
	}

	gw := gateway.NewClient(cfg.API.BaseURL, log)

	transactions := store.NewTransactionStore(gw, snapshots, cfg.API.UserID, log)
	warehouse := store.NewWarehouseStore(gw, snapshots, cfg.API.UserID, log)
	reports := store.NewReportStore(gw, snapshots, cfg.API.UserID, log)

	settings := model.AISettings{
		Provider:            cfg.AI.Provider,
		APIKey:              cfg.AI.APIKey,
		AutoProcess:         cfg.AI.AutoProcess,
		ConfidenceThreshold: cfg.AI.ConfidenceThreshold,
	}
	aiStore := store.NewAIStore(snapshots, log)
	if !aiStore.UpdateSettings(store.AISettingsPatch{
		Provider:            &settings.Provider,
		APIKey:              &settings.APIKey,
		AutoProcess:         &settings.AutoProcess,
		ConfidenceThreshold: &settings.ConfidenceThreshold,
	}) {
		log.Warn().Str("reason", aiStore.Error()).Msg("ai settings rejected, keeping defaults")
	}

	provider := ai.ProviderFor(aiStore.Settings(), cfg.AI.BaseURL, cfg.AI.Model, gw)
	scanner := ai.NewScanner(provider, gw, log)
	ledger := service.NewLedgerService(transactions, warehouse, aiStore, scanner, log)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	transactions.FetchTransactions(ctx)
	warehouse.FetchItems(ctx)
	reports.FetchMonthlyReport(ctx, *month)

	if *scan != "" {
		runScan(ctx, ledger, *scan, log)
	}

	printSummary(ledger, transactions, warehouse, reports)
}

func runScan(ctx context.Context, ledger *service.LedgerService, path string, log zerolog.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("cannot read receipt image")
		return
	}
	imageData := "data:" + mimeTypeFor(path) + ";base64," + base64.StdEncoding.EncodeToString(raw)

	result, booked := ledger.ScanReceipt(ctx, imageData)
	if result == nil {
		log.Error().Msg("receipt scan failed")
		return
	}
	fmt.Printf("Scanned receipt: %s — %s %.0f (confidence %.2f)\n",
		result.Description, result.Category, result.Amount, result.Confidence)
	if booked != nil {
		fmt.Printf("Booked as transaction %s\n", booked.ID)
	} else {
		fmt.Println("Suggestion only; confidence below threshold or auto-process disabled")
	}
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func printSummary(
	ledger *service.LedgerService,
	transactions *store.TransactionStore,
	warehouse *store.WarehouseStore,
	reports *store.ReportStore,
) {
	summary := ledger.Summarize(time.Now())

	fmt.Printf("\nMaya — %s\n", summary.Month)
	if note := transactions.Error(); note != "" {
		fmt.Printf("  ledger: %s\n", note)
	}
	fmt.Printf("  income   %14.0f\n", summary.Income)
	fmt.Printf("  expenses %14.0f\n", summary.Expenses)
	fmt.Printf("  net      %14.0f\n", summary.Net)
	fmt.Printf("  transactions: %d\n", summary.Transactions)

	if note := warehouse.Error(); note != "" {
		fmt.Printf("  pantry: %s\n", note)
	}
	if len(summary.LowStock) > 0 {
		fmt.Println("  low stock:")
		for _, item := range summary.LowStock {
			fmt.Printf("    %-14s %.1f %s (min %.1f)\n", item.Name, item.CurrentStock, item.Unit, item.MinStock)
		}
	}

	if report := reports.Report(); report != nil {
		if note := reports.Error(); note != "" {
			fmt.Printf("  report: %s\n", note)
		}
		fmt.Printf("  savings rate %.1f%%, top categories: %s\n",
			reports.SavingsRate(), strings.Join(report.TopCategories, ", "))
	}
}
