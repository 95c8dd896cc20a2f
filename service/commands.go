package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"blogapi/app/config"
	"blogapi/app/repositories"
)

var osExit = os.Exit

// HandleCommand runs a blogapi subcommand and returns its exit code.
// A leading "--config <file>" selects the configuration file.
func HandleCommand(args []string) int {
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" && i+1 < len(args) {
			configPath = args[i+1]
			args = append(args[:i:i], args[i+2:]...)
			break
		}
	}

	if len(args) < 1 {
		printHelp()
		osExit(1)
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "help":
		printHelp()
		return 0
	case "version":
		fmt.Printf("blogapi version %s\n", Version)
		return 0
	case "serve", "init", "clean", "backup", "restore", "seed":
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		printHelp()
		osExit(1)
		return 1
	}

	if cmd == "restore" && len(args) < 2 {
		fmt.Println("Error: backup file path required for restore")
		osExit(1)
		return 1
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		osExit(1)
		return 1
	}

	switch cmd {
	case "serve":
		return RunAppServer(cfg)
	case "init":
		return initDb(cfg.Database)
	case "clean":
		return clean(cfg.Database)
	case "backup":
		return backup(cfg.Database)
	case "restore":
		return restore(cfg.Database, args[1])
	default:
		return seed(cfg, args[1:])
	}
}

func printHelp() {
	helpText := `Usage: blogapi [--config <file>] <command> [options]

Commands:
  serve                           Run the blog API server
  init                            Initialize a new empty database
  clean                           Remove the database
  backup                          Create a backup of the database
  restore <file>                  Restore the database from a backup
  seed [-posts N] [-users N]      Fill the database with generated content
  version                         Show version information
  help                            Display this help message

Configuration is read from blogapi.yaml (in . or ./data) and BLOGAPI_*
environment variables, e.g. BLOGAPI_DATABASE_PATH or BLOGAPI_AUTH_SECRET.
`
	fmt.Println(helpText)
}

// clean removes the database.
func clean(db config.DatabaseConfig) int {
	if _, err := os.Stat(db.Path); os.IsNotExist(err) {
		fmt.Println("Database is already clean (does not exist)")
		return 0
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return 1
	}

	if err := os.RemoveAll(db.Path); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Println("Database cleaned successfully")
	return 0
}

// initDb initializes a new empty database.
func initDb(db config.DatabaseConfig) int {
	if _, err := os.Stat(db.Path); err == nil {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return 1
	}

	store, err := repositories.NewStore(db.Path)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return 1
	}
	defer store.Close()

	if err := store.Ping(); err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return 1
	}
	fmt.Println("Database initialized successfully")
	return 0
}

// backup writes a full backup of the database into the backup directory.
func backup(db config.DatabaseConfig) int {
	if _, err := os.Stat(db.Path); os.IsNotExist(err) {
		fmt.Println("No database exists to backup")
		return 1
	}

	if err := os.MkdirAll(db.BackupDir, 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	store, err := repositories.NewStore(db.Path)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	backupFile := filepath.Join(db.BackupDir, fmt.Sprintf("backup_%s.db", time.Now().UTC().Format("20060102T150405.000000000")))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if _, err := store.DB().Backup(f, 0); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return 1
	}

	fmt.Printf("Database backed up successfully to %s\n", backupFile)
	return 0
}

// restore replaces the database with the contents of backupFile.
func restore(db config.DatabaseConfig, backupFile string) int {
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	if _, err := os.Stat(db.Path); err == nil {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(db.Path); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	store, err := repositories.NewStore(db.Path)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return store.DB().Load(f, 256)
	}()
	if err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Println("Database restored successfully")
	return 0
}
