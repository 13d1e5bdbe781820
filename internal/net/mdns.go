package net

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_localpaint._tcp"

// Entry is a canvas server found on the LAN.
type Entry struct {
	Instance  string
	Addr      string
	SessionID string
}

// Advertise announces the canvas server on the local network.
func Advertise(instance string, port int, sessionID string) (*mdns.Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	info := []string{"LocalPaint", "session=" + sessionID}
	service, err := mdns.NewMDNSService(
		instance,
		serviceType,
		"",
		"",
		port,
		[]net.IP{firstIPv4()},
		info,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse queries the LAN for canvas servers until timeout or ctx ends.
func Browse(ctx context.Context, timeout time.Duration, found func(Entry)) error {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(Entry{
				Instance:  strings.TrimSuffix(e.Name, "."+serviceType+".local."),
				Addr:      fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port),
				SessionID: sessionFromInfo(e.InfoFields),
			})
		}
	}()

	err := mdns.Query(&mdns.QueryParam{
		Service:     serviceType,
		Domain:      "local",
		Timeout:     timeout,
		Entries:     entries,
		DisableIPv6: true,
	})
	close(entries)
	<-done
	return err
}

func sessionFromInfo(fields []string) string {
	for _, f := range fields {
		if id, ok := strings.CutPrefix(f, "session="); ok {
			return id
		}
	}
	return ""
}

func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}
