package main

import (
	"github.com/urfave/cli/v2"
)

// demoCommand runs the fixed walkthrough: buckets, create bucket, topics,
// queues, then an optional upload.
func demoCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Run the illustrative walkthrough across all three services",
		Flags: []cli.Flag{
			bucketFlag(),
			&cli.StringFlag{Name: "file", Usage: "Local file to upload into the bucket"},
		},
		Action: func(c *cli.Context) error {
			ctx := c.Context
			s, err := rt.storage(ctx)
			if err != nil {
				return err
			}
			n, err := rt.notify(ctx)
			if err != nil {
				return err
			}
			q, err := rt.queue(ctx)
			if err != nil {
				return err
			}

			bucket := c.String("bucket")
			if _, err := s.ListBuckets(ctx); err != nil {
				return err
			}
			if err := s.CreateBucket(ctx, bucket); err != nil {
				return err
			}
			topics, err := n.ListTopics(ctx)
			if err != nil {
				return err
			}
			if err := printJSON(rt.out, topics); err != nil {
				return err
			}
			if _, err := q.ListQueues(ctx); err != nil {
				return err
			}
			if file := c.String("file"); file != "" {
				return s.UploadFile(ctx, file, bucket, "")
			}
			return nil
		},
	}
}
