package net

import (
	"fmt"
	"net"
	"strconv"
)

// LocalIP is the address browsers elsewhere on the LAN should use. The UDP dial sends
// nothing; it only asks the kernel which interface routes outwards.
func LocalIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return firstIPv4()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP
}

// ShareURL is the link printed when the server starts.
func ShareURL(ip net.IP, port int) string {
	return fmt.Sprintf("http://%s/", net.JoinHostPort(ip.String(), strconv.Itoa(port)))
}
