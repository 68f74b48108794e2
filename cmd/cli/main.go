package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/trophy/internal/client"
	"github.com/dmitrijs2005/trophy/internal/client/cli"
	"golang.org/x/term"
)

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	return string(pw), err
}

func main() {

	addr := flag.String("a", "localhost:50051", "server address")
	token := flag.String("token", os.Getenv("TROPHY_TOKEN"), "access token (defaults to $TROPHY_TOKEN)")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	c, err := client.New(*addr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer c.Close()
	c.SetToken(*token)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := cli.NewApp(c, os.Stdout, readPassword).Exec(ctx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}

}
