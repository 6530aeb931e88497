package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// ServiceUnknown is returned by Lookup for ports without a usable catalog entry.
const ServiceUnknown = "Unknown"

// ServiceCatalog maps port numbers to human-readable service descriptions.
// It is immutable after load and safe for concurrent reads.
type ServiceCatalog struct {
	services map[int]string
}

// NewServiceCatalog builds a catalog from an in-memory mapping. Mainly useful
// in tests and for callers that source descriptions elsewhere.
func NewServiceCatalog(services map[int]string) *ServiceCatalog {
	copied := make(map[int]string, len(services))
	for port, description := range services {
		copied[port] = description
	}
	return &ServiceCatalog{services: copied}
}

// EmptyCatalog returns a catalog with no entries. Every lookup yields
// ServiceUnknown. Used when the catalog file cannot be loaded, since finding
// open ports does not depend on having labels for them.
func EmptyCatalog() *ServiceCatalog {
	return &ServiceCatalog{services: map[int]string{}}
}

// catalogDocument is the on-disk shape: a top-level "ports" object keyed by
// port number as text. Values are decoded lazily because each one may be a
// single entry or a list of entries.
type catalogDocument struct {
	Ports map[string]json.RawMessage `json:"ports"`
}

type serviceEntry struct {
	Description string `json:"description"`
}

// LoadCatalog reads and parses the service catalog file.
// Malformed individual entries are skipped; a missing or unparsable file is
// an error the caller is expected to downgrade to an empty catalog.
func LoadCatalog(path string) (*ServiceCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog file %s: %w", path, err)
	}

	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse catalog file %s: %w", path, err)
	}

	services := make(map[int]string, len(doc.Ports))
	for key, raw := range doc.Ports {
		port, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if description, ok := decodeEntry(raw); ok {
			services[port] = description
		}
	}

	return &ServiceCatalog{services: services}, nil
}

// decodeEntry accepts either a single service entry or a list of entries, in
// which case the first one wins. Entries without a description are unusable.
func decodeEntry(raw json.RawMessage) (string, bool) {
	var entry serviceEntry
	if err := json.Unmarshal(raw, &entry); err == nil && entry.Description != "" {
		return entry.Description, true
	}

	var entries []serviceEntry
	if err := json.Unmarshal(raw, &entries); err == nil && len(entries) > 0 && entries[0].Description != "" {
		return entries[0].Description, true
	}

	return "", false
}

// Lookup returns the service description for a port, or ServiceUnknown when
// the catalog has no usable entry for it. Any integer is accepted.
func (c *ServiceCatalog) Lookup(port int) string {
	if description, ok := c.services[port]; ok {
		return description
	}
	return ServiceUnknown
}

// Len reports the number of usable catalog entries.
func (c *ServiceCatalog) Len() int {
	return len(c.services)
}
