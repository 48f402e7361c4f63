package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"dentaltrack/internal/config"
	"dentaltrack/internal/database"
	"dentaltrack/internal/service"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Clear existing data before import (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := db.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare schema")
	}

	backupService := service.NewBackupService(db, log)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(backupService, log, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(backupService, db, log, *importInput, *importClear)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(backupService *service.BackupService, log zerolog.Logger, outputPath string) {
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("backup_%s.json", timestamp)
	}

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Msg("failed to create output directory")
		}
	}

	if err := backupService.Export(outputPath); err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}

	fileInfo, _ := os.Stat(outputPath)
	log.Info().Str("path", outputPath).Int64("bytes", fileInfo.Size()).Msg("export complete")
}

func handleImport(backupService *service.BackupService, db *database.DB, log zerolog.Logger, inputPath string, clearData bool) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatal().Str("path", inputPath).Msg("input file does not exist")
	}

	if clearData {
		fmt.Print("WARNING: This will delete all existing data. Type 'yes' to confirm: ")
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Info().Msg("import cancelled")
			return
		}

		if err := clearDatabase(db, log); err != nil {
			log.Fatal().Err(err).Msg("failed to clear database")
		}
	}

	if err := backupService.Import(inputPath); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	log.Info().Msg("import complete")
}

func clearDatabase(db *database.DB, log zerolog.Logger) error {
	// Delete in reverse order of dependencies
	tables := []string{
		"survey_responses",
		"health_records",
		"students",
		"schools",
		"video_progress",
		"game_scores",
		"achievements",
		"reminders",
		"brushing_records",
		"children",
		"users",
	}

	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
		log.Info().Str("table", table).Msg("cleared table")
	}

	return nil
}

func printUsage() {
	fmt.Println("DentalTrack Database Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export database to JSON file")
	fmt.Println("  backup import [options]    Import database from JSON file")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Clear existing data before import (WARNING: destructive)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./dental_health.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
