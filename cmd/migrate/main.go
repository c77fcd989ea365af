package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/competa-arena/contest-service/internal/config"
)

// Applies the contest schema migrations from the migrations/ directory
// against DATABASE_URL. `up` and `down` accept an optional step count.
func main() {
	var dir string
	flag.StringVar(&dir, "dir", "migrations", "Directory holding contest schema migrations")
	flag.Parse()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	m, err := migrate.New("file://"+dir, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open migrations in %s: %v", dir, err)
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "up":
		run(steppable(m.Up, m.Steps, args, 1))
		fmt.Println("Contest schema is up to date")
	case "down":
		run(steppable(m.Down, m.Steps, args, -1))
		fmt.Println("Rolled back")
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("No version recorded: %v", err)
		}
		fmt.Printf("Version %d (dirty: %t)\n", version, dirty)
	case "force":
		v := intArg(args, "force")
		if err := m.Force(v); err != nil {
			log.Fatalf("Force to %d failed: %v", v, err)
		}
		fmt.Printf("Forced version to %d\n", v)
	case "drop":
		if len(args) < 2 || args[1] != "--yes" {
			log.Fatal("drop removes the contests table and all data; rerun as: drop --yes")
		}
		if err := m.Drop(); err != nil {
			log.Fatalf("Drop failed: %v", err)
		}
		fmt.Println("Dropped all objects")
	default:
		usage()
		os.Exit(2)
	}
}

// steppable runs all pending migrations, or just n of them when a step
// count argument is present. sign is +1 for up, -1 for down.
func steppable(all func() error, steps func(int) error, args []string, sign int) error {
	if len(args) < 2 {
		return all()
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return fmt.Errorf("step count must be a positive integer, got %q", args[1])
	}
	return steps(sign * n)
}

func run(err error) {
	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration failed: %v", err)
	}
}

func intArg(args []string, command string) int {
	if len(args) < 2 {
		log.Fatalf("%s requires a version argument", command)
	}
	v, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatalf("Invalid version %q: %v", args[1], err)
	}
	return v
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [-dir migrations] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  up [n]          apply all (or n) pending migrations")
	fmt.Fprintln(os.Stderr, "  down [n]        roll back all (or n) migrations")
	fmt.Fprintln(os.Stderr, "  version         print the current schema version")
	fmt.Fprintln(os.Stderr, "  force <v>       set the version without running migrations")
	fmt.Fprintln(os.Stderr, "  drop --yes      drop every object, contests included")
}
