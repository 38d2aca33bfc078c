// kycctl is a terminal client for the extraction server: stage image files,
// submit them in bulk, review extracted fields, and browse past submissions.
//
// Usage:
//
//	kycctl [-server URL] [-hint passport] file1.jpg file2.png ...
//
// Credentials come from flags or KYCCTL_EMAIL / KYCCTL_PASSWORD (a .env file
// is honored).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/thehamzam/kyc-idp/internal/staging"
	"github.com/thehamzam/kyc-idp/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	serverURL := flag.String("server", envOr("KYCCTL_SERVER", "http://localhost:8080"), "extraction server base URL")
	email := flag.String("email", os.Getenv("KYCCTL_EMAIL"), "account email")
	password := flag.String("password", os.Getenv("KYCCTL_PASSWORD"), "account password")
	hint := flag.String("hint", "", "declared document category (passport, license, ...)")
	flag.Parse()

	if *email == "" || *password == "" {
		return fmt.Errorf("credentials required: set -email/-password or KYCCTL_EMAIL/KYCCTL_PASSWORD")
	}

	client := tui.NewAPIClient(*serverURL)
	if err := client.Login(*email, *password); err != nil {
		return err
	}

	staged := staging.NewModel(0)
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		staged.Add(staging.StagedFile{
			Name: filepath.Base(path),
			Size: int64(len(data)),
			Data: data,
		})
	}

	p := tea.NewProgram(tui.NewModel(client, staged, *hint))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
