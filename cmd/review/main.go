// Command review marks an open draft as rejected by moderation. It talks
// to the configured database directly.
//
//	review -d postgres://... -draft 2f1c...
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/flagx"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	var draftID string
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	fs.StringVar(&draftID, "draft", "", "id of the draft to reject")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-draft"}))

	if draftID == "" {
		log.Fatal("-draft is required")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("a database DSN is required (-d)")
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	if err := app.DraftService().Reject(ctx, draftID); err != nil {
		app.Close()
		log.Fatalf("reject %s: %v", draftID, err)
	}
	log.Printf("draft %s rejected", draftID)

}
