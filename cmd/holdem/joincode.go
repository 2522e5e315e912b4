package main

import (
	"fmt"
	"net"

	"github.com/VoltRadar/poker-simulation/internal/server"
)

// JoinCodeCmd converts between IPv4 addresses and join codes.
type JoinCodeCmd struct {
	Decode string `xor:"op" help:"Join code to turn back into an address"`
	IP     string `xor:"op" name:"ip" help:"IPv4 address to encode, defaults to this host"`
}

func (c *JoinCodeCmd) Run() error {
	if c.Decode != "" {
		ip, err := server.DecodeJoinCode(c.Decode)
		if err != nil {
			return err
		}
		fmt.Println(ip)
		return nil
	}

	var ip net.IP
	if c.IP != "" {
		if ip = net.ParseIP(c.IP); ip == nil {
			return fmt.Errorf("invalid IP address %q", c.IP)
		}
	} else {
		local, err := server.LocalIPv4()
		if err != nil {
			return err
		}
		ip = local
	}
	code, err := server.EncodeJoinCode(ip)
	if err != nil {
		return err
	}
	fmt.Println(code)
	return nil
}
