package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog/log"

	"yatra-backend/internal/client"
	"yatra-backend/internal/logging"
	"yatra-backend/internal/models"
	"yatra-backend/internal/services"
	"yatra-backend/internal/session"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: yatra [-server URL] <command> [flags]

commands:
  budget    -dest NAME -days N -travelers N -style budget|moderate|luxury
  chat      interactive India travel assistant
  language  interactive Indian-language phrase guide
`)
}

func main() {
	server := flag.String("server", envOr("YATRA_SERVER", "http://localhost:8080"), "API base URL")
	flag.Usage = usage
	flag.Parse()
	logging.Setup(envOr("LOG_LEVEL", "warn"), true)

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(*server)
	if ok, err := c.CheckAPIKey(ctx); err != nil {
		log.Fatal().Err(err).Msg("server unreachable")
	} else if !ok {
		fmt.Fprintln(os.Stderr, "warning: the server has no Google API key configured")
	}

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "budget":
		err = runBudget(ctx, c, flag.Args()[1:])
	case "chat":
		err = runChat(ctx, c, client.EndpointChat, services.PersonaTravel)
	case "language":
		err = runChat(ctx, c, client.EndpointLanguage, services.PersonaLanguage)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runBudget(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("budget", flag.ExitOnError)
	dest := fs.String("dest", "", "destination in India")
	days := fs.Int("days", 7, "trip duration in days (1-30)")
	travelers := fs.Int("travelers", 2, "number of travelers (1-10)")
	style := fs.String("style", string(models.StyleModerate), "budget, moderate or luxury")
	fs.Parse(args)

	result, err := c.Budget(ctx, models.BudgetRequest{
		Destination: *dest,
		Duration:    *days,
		Travelers:   *travelers,
		TravelStyle: models.TravelStyle(*style),
	})
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}

func runChat(ctx context.Context, c *client.Client, endpoint string, persona services.Persona) error {
	conv := session.NewConversation(persona.Welcome)
	fmt.Printf("assistant> %s\n\n", persona.Welcome)

	printed := 0
	c.Progress = func(text string) {
		if len(text) > printed {
			fmt.Print(text[printed:])
			printed = len(text)
		}
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !in.Scan() {
			fmt.Println()
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return nil
		}

		printed = 0
		fmt.Print("assistant> ")
		err := c.Send(ctx, endpoint, conv, line)
		fmt.Print("\n\n")
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintln(os.Stderr, "error:", err)
			conv.Dismiss()
		}
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
