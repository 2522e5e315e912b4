package server

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ErrInvalidJoinCode is returned for codes that do not describe an IPv4 address.
var ErrInvalidJoinCode = errors.New("invalid join code")

// EncodeJoinCode turns an IPv4 address into the short code players type to
// find the table: the address as a big-endian integer written in base 36.
func EncodeJoinCode(ip net.IP) (string, error) {
	v4 := ip.To4()
	if v4 == nil {
		return "", fmt.Errorf("%w: %s is not an IPv4 address", ErrInvalidJoinCode, ip)
	}
	return strconv.FormatUint(uint64(binary.BigEndian.Uint32(v4)), 36), nil
}

// DecodeJoinCode reverses EncodeJoinCode. Codes are case-insensitive.
func DecodeJoinCode(code string) (net.IP, error) {
	code = strings.TrimSpace(code)
	n, err := strconv.ParseUint(code, 36, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidJoinCode, code)
	}
	if n >= 1<<32 {
		return nil, fmt.Errorf("%w: %q is out of range", ErrInvalidJoinCode, code)
	}
	ip := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(ip, uint32(n))
	return ip, nil
}

// LocalIPv4 returns the first non-loopback IPv4 address of this host.
func LocalIPv4() (net.IP, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if v4 := ipNet.IP.To4(); v4 != nil {
			return v4, nil
		}
	}
	return nil, errors.New("no IPv4 address found")
}
