package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/passvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   document store backend: firestore, postgres or memory
//	-k string   Firebase web API key
//	-p string   GCP project id for the firestore backend
//	-d string   PostgreSQL DSN for the postgres backend
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-k", "-p", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "document store backend (firestore, postgres, memory)")
	fs.StringVar(&cfg.FirebaseAPIKey, "k", cfg.FirebaseAPIKey, "Firebase web API key")
	fs.StringVar(&cfg.FirestoreProject, "p", cfg.FirestoreProject, "GCP project id")
	fs.StringVar(&cfg.PostgresDSN, "d", cfg.PostgresDSN, "PostgreSQL DSN")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
