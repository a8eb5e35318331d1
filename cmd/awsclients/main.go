// cmd/awsclients/main.go
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"go-aws-clients/internal/awsconf"
	"go-aws-clients/internal/config"
	"go-aws-clients/internal/logger"
	"go-aws-clients/internal/queue"
)

// runtime carries what the Before hook resolved to every command.
type runtime struct {
	cfg config.Config
	log zerolog.Logger
	out io.Writer
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	rt := &runtime{out: out}

	commands := []*cli.Command{demoCommand(rt), consumeCommand(rt)}
	commands = append(commands, storageCommands(rt)...)
	commands = append(commands, notifyCommands(rt)...)
	commands = append(commands, queueCommands(rt)...)

	return &cli.App{
		Name:  "awsclients",
		Usage: "Work with S3 buckets, SNS topics and SQS queues",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Optional config file with the same keys as the environment",
			},
			&cli.StringFlag{
				Name:    "region",
				Usage:   "AWS region",
				EnvVars: []string{"AWS_REGION"},
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "Base endpoint override, e.g. http://localhost:4566",
				EnvVars: []string{"AWS_ENDPOINT_URL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			return rt.init(c)
		},
		Commands: commands,
	}
}

func (rt *runtime) init(c *cli.Context) error {
	env, err := config.NewViperEnv(c.String("config"))
	if err != nil {
		return err
	}
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if v := c.String("region"); v != "" {
		cfg.AWSRegion = v
	}
	if v := c.String("endpoint"); v != "" {
		cfg.AWSEndpoint = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}

	rt.cfg = cfg
	rt.log = logger.New(cfg.LogLevel, os.Stderr)
	return nil
}

func describeError(err error) string {
	switch {
	case errors.Is(err, queue.ErrInvalidMaxCount):
		return fmt.Sprintf("invalid argument: %v", err)
	case awsconf.IsNotFound(err):
		return fmt.Sprintf("not found (%s): %v", awsconf.ErrorCode(err), err)
	case awsconf.ErrorCode(err) != "":
		return fmt.Sprintf("service error (%s): %v", awsconf.ErrorCode(err), err)
	default:
		return fmt.Sprintf("error: %v", err)
	}
}
