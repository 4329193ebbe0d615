package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"linguaspeak/internal/config"
	"linguaspeak/internal/database"
	"linguaspeak/internal/logger"
	"linguaspeak/internal/service"
	"linguaspeak/migrations"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Clear existing data before import (WARNING: destructive)")
	importYes := importCmd.Bool("yes", false, "Skip the confirmation prompt for -clear")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, migrations.Source(cfg.MigrationsPath), log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	backupService := service.NewBackupService(db, log)

	switch os.Args[1] {
	case "export":
		_ = exportCmd.Parse(os.Args[2:])
		err = handleExport(ctx, backupService, *exportOutput, log)

	case "import":
		_ = importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Fprintln(os.Stderr, "import: -input is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		err = handleImport(ctx, backupService, *importInput, *importClear, *importYes, log)

	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatal("backup command failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}

func handleExport(ctx context.Context, backupService *service.BackupService, outputPath string, log *zap.Logger) error {
	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if _, err := backupService.Export(ctx, file); err != nil {
		return err
	}

	if info, err := file.Stat(); err == nil {
		log.Info("export complete", zap.String("path", outputPath), zap.Int64("bytes", info.Size()))
	}
	return nil
}

func handleImport(ctx context.Context, backupService *service.BackupService, inputPath string, clearData, skipConfirm bool, log *zap.Logger) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	if clearData && !skipConfirm && !confirm("WARNING: This will delete all existing data. Type 'yes' to confirm: ") {
		log.Info("import cancelled")
		return nil
	}

	result, err := backupService.Import(ctx, file, service.ImportOptions{Clear: clearData})
	if err != nil {
		return err
	}
	log.Info("import complete",
		zap.Int("users", result.Users),
		zap.Int("sessions", result.Sessions),
		zap.Int("vocabulary", result.Vocabulary),
	)
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimSpace(line) == "yes"
}

const usage = `LinguaSpeak backup tool

Usage:
  backup export [-output file]           write users, sessions and vocabulary to JSON
  backup import -input file [-clear]     restore a JSON backup

The database is selected like the server: DB_TYPE (sqlite, postgres, pgx, mysql),
DB_PATH for sqlite and DATABASE_URL otherwise.
`

func printUsage() {
	fmt.Fprint(os.Stderr, usage)
}
