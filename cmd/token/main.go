// Command token mints a partner access token signed with the server's
// secret key. Server configuration (env, JSON, flags) applies as usual.
//
//	token -partner partner-42
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/flagx"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/auth"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()

	var partnerID string
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	fs.StringVar(&partnerID, "partner", "", "partner id to issue the token for")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-partner"}))

	if partnerID == "" {
		log.Fatal("-partner is required")
	}

	token, err := auth.GenerateToken(partnerID, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println(token)

}
