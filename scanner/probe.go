package scanner

import (
	"net"
	"strconv"
	"time"
)

// Status classifies the outcome of a single port probe.
type Status string

const (
	// StatusOpen means the TCP handshake completed within the timeout.
	StatusOpen Status = "OPEN"
	// StatusClosed covers everything else: refused, timed out, unreachable.
	StatusClosed Status = "CLOSED"
)

// DefaultTimeout is the per-probe connect timeout. Short on purpose: the
// engine covers large ranges through parallelism, not per-probe patience.
const DefaultTimeout = 500 * time.Millisecond

// ProbeResult is the outcome of one port probe. Never mutated after creation.
type ProbeResult struct {
	Port    int    `json:"port"`
	Status  Status `json:"status"`
	Service string `json:"service"`
}

// CheckPort attempts a single TCP connection to host:port bounded by timeout
// and classifies the port. The connection is released before returning on
// every path. No distinction is made between a refused connection and a
// silent timeout; both read as closed.
func CheckPort(host string, port int, timeout time.Duration, catalog *ServiceCatalog) ProbeResult {
	address := host + ":" + strconv.Itoa(port)

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return ProbeResult{Port: port, Status: StatusClosed, Service: catalog.Lookup(port)}
	}
	_ = conn.Close()

	return ProbeResult{Port: port, Status: StatusOpen, Service: catalog.Lookup(port)}
}
