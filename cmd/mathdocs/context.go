package main

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/m3360202/mathTest/pkg/client"
)

// commandContext carries the persistent flags shared by client commands.
type commandContext struct {
	server     string
	apiKey     string
	timeout    time.Duration
	jsonOutput bool
}

func (c *commandContext) client() (*client.Client, error) {
	cl, err := client.New(strings.TrimSpace(c.server),
		client.WithAPIKey(c.apiKey),
		client.WithTimeout(c.timeout),
		client.WithUserAgent("mathdocs-cli"),
	)
	if err != nil {
		return nil, err
	}
	return cl, nil
}

// withClient runs fn against a fresh client and rewrites connection errors
// into actionable messages.
func (c *commandContext) withClient(fn func(*client.Client) error) error {
	cl, err := c.client()
	if err != nil {
		return err
	}
	return wrapDialError(fn(cl), c.server)
}

func wrapDialError(err error, server string) error {
	var opErr *net.OpError
	if err != nil && errors.As(err, &opErr) && opErr.Op == "dial" {
		return fmt.Errorf("connect to %s: %w; start the server with `mathdocs serve`", server, err)
	}
	return err
}

// output renders either JSON or the human view.
func (c *commandContext) output(cmd *cobra.Command, v any, human func() error) error {
	if c.jsonOutput {
		return writeJSON(cmd, v)
	}
	return human()
}
