package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func storageCommands(rt *runtime) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "buckets",
			Usage: "List bucket names",
			Action: func(c *cli.Context) error {
				s, err := rt.storage(c.Context)
				if err != nil {
					return err
				}
				names, err := s.ListBuckets(c.Context)
				if err != nil {
					return err
				}
				return printJSON(rt.out, names)
			},
		},
		{
			Name:  "objects",
			Usage: "List object keys in a bucket",
			Flags: []cli.Flag{bucketFlag()},
			Action: func(c *cli.Context) error {
				s, err := rt.storage(c.Context)
				if err != nil {
					return err
				}
				keys, err := s.ListObjects(c.Context, c.String("bucket"))
				if err != nil {
					return err
				}
				return printJSON(rt.out, keys)
			},
		},
		{
			Name:      "upload",
			Usage:     "Upload a local file into a bucket",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				bucketFlag(),
				&cli.StringFlag{Name: "folder", Usage: "Key prefix folder"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return fmt.Errorf("upload: expected exactly one FILE argument")
				}
				s, err := rt.storage(c.Context)
				if err != nil {
					return err
				}
				return s.UploadFile(c.Context, c.Args().First(), c.String("bucket"), c.String("folder"))
			},
		},
	}
}

func bucketFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "bucket",
		Usage:    "Bucket name",
		Required: true,
	}
}
