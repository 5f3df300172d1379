package config

import (
	"flag"
	"os"
	"time"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the draft service
//	-t string   partner access token
//	-n string   id of the listing to edit
//	-q int      quiet period before saving (in milliseconds)
//	-w int      request timeout (in seconds)
//	-j string   path of the local journal database
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-n", "-q", "-w", "-j"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "partner access token")
	fs.StringVar(&cfg.EntityID, "n", cfg.EntityID, "listing id")
	quiet := fs.Int("q", int(cfg.QuietPeriod.Milliseconds()), "quiet period before saving (in milliseconds)")
	timeout := fs.Int("w", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.JournalPath, "j", cfg.JournalPath, "journal database path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.QuietPeriod = time.Duration(*quiet) * time.Millisecond
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
