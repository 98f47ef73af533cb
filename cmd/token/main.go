// Command token mints an access token for a user id, signed with the server
// secret. It is a development helper: the server has no login flow.
//
//	token -s secretKey -t 1440 -user alice
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/moodkeeper/internal/flagx"
	"github.com/dmitrijs2005/moodkeeper/internal/server/auth"
	"github.com/dmitrijs2005/moodkeeper/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()

	fs := flag.NewFlagSet("token", flag.ExitOnError)
	userID := fs.String("user", "", "user id to issue the token for")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-user"}))

	if *userID == "" {
		log.Fatal("-user is required")
	}

	token, err := auth.GenerateToken(*userID, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println(token)

}
