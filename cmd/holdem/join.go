package main

import (
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/VoltRadar/poker-simulation/internal/client"
	"github.com/VoltRadar/poker-simulation/internal/server"
	"github.com/charmbracelet/log"
)

// JoinCmd plays at a remote table from the terminal.
type JoinCmd struct {
	Code string `xor:"target" help:"Join code printed by the host"`
	Host string `xor:"target" help:"Server host, host:port or URL"`
	Port int    `default:"54321" help:"Server port"`
	Name string `short:"n" help:"Player name, asked for when empty"`
}

func (c *JoinCmd) address() (string, error) {
	if c.Code != "" {
		ip, err := server.DecodeJoinCode(c.Code)
		if err != nil {
			return "", err
		}
		return net.JoinHostPort(ip.String(), strconv.Itoa(c.Port)), nil
	}
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	if strings.Contains(host, "://") {
		return host, nil
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host, nil
	}
	return net.JoinHostPort(host, strconv.Itoa(c.Port)), nil
}

func (c *JoinCmd) Run(cli *CLI) error {
	level := log.WarnLevel
	if cli.Debug {
		level = log.DebugLevel
	}
	logger := setupLogger(os.Stderr, level, cli.NoColor)

	addr, err := c.address()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	ws, err := client.Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer ws.Close()

	cl := client.New(ws, os.Stdin, os.Stdout,
		client.WithStyles(client.NewStyles(os.Stdout, cli.NoColor)),
		client.WithLogger(logger),
	)
	if err := cl.Register(c.Name); err != nil {
		return err
	}
	return cl.Play(ctx)
}
