// Command admin creates an administrator account, or promotes an existing
// one with -promote. It reads the same configuration as the server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/trophy/internal/admin"
	"github.com/dmitrijs2005/trophy/internal/logging"
	"github.com/dmitrijs2005/trophy/internal/server"
	"github.com/dmitrijs2005/trophy/internal/server/config"
	"github.com/dmitrijs2005/trophy/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	opts, err := admin.ParseOptions(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, m, err := server.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	auth := services.NewAuthService(db, m, cfg, logging.NewJSONLogger(os.Stderr, cfg.LogLevel))
	defer auth.Close()

	u, err := admin.Run(ctx, auth, opts, bufio.NewReader(os.Stdin), os.Stdout)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	fmt.Printf("%s (id=%d) is now an admin\n", u.Email, u.ID)
}
