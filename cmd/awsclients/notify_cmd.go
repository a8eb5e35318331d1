package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"go-aws-clients/internal/notify"
)

func notifyCommands(rt *runtime) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "topics",
			Usage: "List topics",
			Action: func(c *cli.Context) error {
				n, err := rt.notify(c.Context)
				if err != nil {
					return err
				}
				topics, err := n.ListTopics(c.Context)
				if err != nil {
					return err
				}
				return printJSON(rt.out, topics)
			},
		},
		{
			Name:      "publish",
			Usage:     "Publish a message to a topic",
			ArgsUsage: "MESSAGE",
			Flags: []cli.Flag{
				topicFlag(),
				&cli.StringFlag{Name: "subject", Value: notify.DefaultSubject, Usage: "Message subject"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return fmt.Errorf("publish: expected exactly one MESSAGE argument")
				}
				n, err := rt.notify(c.Context)
				if err != nil {
					return err
				}
				return n.Publish(c.Context, c.Args().First(), c.String("topic"), c.String("subject"))
			},
		},
		{
			Name:  "subscriptions",
			Usage: "List subscriptions of a topic",
			Flags: []cli.Flag{topicFlag()},
			Action: func(c *cli.Context) error {
				n, err := rt.notify(c.Context)
				if err != nil {
					return err
				}
				subs, err := n.ListSubscriptions(c.Context, c.String("topic"))
				if err != nil {
					return err
				}
				return printJSON(rt.out, subs)
			},
		},
	}
}

func topicFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "topic",
		Usage:    "Topic ARN",
		Required: true,
	}
}
