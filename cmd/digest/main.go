// cmd/digest/main.go
//
// Cron entrypoint: triggers the daily coverage digest by calling the running
// service's /digest/stock endpoint with the shared secret.
package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/yiqitools/stock-alerts/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "digest",
		Usage: "trigger the daily stock coverage digest",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "base-url",
				Usage:    "Base URL of the stock-alerts service",
				Required: true,
				EnvVars:  []string{"BASE_URL"},
			},
			&cli.StringFlag{
				Name:     "key",
				Usage:    "Digest shared secret",
				Required: true,
				EnvVars:  []string{"DIGEST_SECRET"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "HTTP timeout for the trigger call",
				Value:   60 * time.Second,
				EnvVars: []string{"DIGEST_TIMEOUT"},
			},
		},
		Action: runDigest,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("digest trigger failed")
	}
}

func runDigest(c *cli.Context) error {
	base := strings.TrimRight(c.String("base-url"), "/")
	endpoint := fmt.Sprintf("%s/digest/stock?%s", base,
		url.Values{"key": {c.String("key")}}.Encode())

	client := &http.Client{Timeout: c.Duration("timeout")}
	resp, err := client.Post(endpoint, "application/json", nil)
	if err != nil {
		return fmt.Errorf("digest call failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("digest returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	logger.Log.Info().Int("status", resp.StatusCode).Str("response", strings.TrimSpace(string(body))).Msg("digest triggered")
	return nil
}
