package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func queueCommands(rt *runtime) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "queues",
			Usage: "List queue URLs",
			Action: func(c *cli.Context) error {
				q, err := rt.queue(c.Context)
				if err != nil {
					return err
				}
				urls, err := q.ListQueues(c.Context)
				if err != nil {
					return err
				}
				return printJSON(rt.out, urls)
			},
		},
		{
			Name:      "send",
			Usage:     "Send a message to a queue",
			ArgsUsage: "BODY",
			Flags:     []cli.Flag{queueURLFlag()},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return fmt.Errorf("send: expected exactly one BODY argument")
				}
				q, err := rt.queue(c.Context)
				if err != nil {
					return err
				}
				return q.SendMessage(c.Context, c.String("queue-url"), c.Args().First())
			},
		},
		{
			Name:  "receive",
			Usage: "Receive up to --max messages from a queue",
			Flags: []cli.Flag{
				queueURLFlag(),
				&cli.IntFlag{Name: "max", Value: 1, Usage: "Messages to request (1-10)"},
			},
			Action: func(c *cli.Context) error {
				q, err := rt.queue(c.Context)
				if err != nil {
					return err
				}
				msgs, err := q.ReceiveMessages(c.Context, c.String("queue-url"), c.Int("max"))
				if err != nil {
					return err
				}
				return printJSON(rt.out, msgs)
			},
		},
	}
}

func queueURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "queue-url",
		Usage:    "Queue URL",
		Required: true,
		EnvVars:  []string{"SQS_QUEUE_URL"},
	}
}
