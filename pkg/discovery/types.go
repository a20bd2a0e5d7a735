package discovery

import "errors"

const (
	// ServiceTypeHub is the DNS-SD service type hubs advertise.
	ServiceTypeHub = "_taxonomy._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultPort is used when a hub does not configure one.
	DefaultPort = 5650

	// MaxInstanceNameLen is the DNS-SD limit on instance names.
	MaxInstanceNameLen = 63
)

// TXT record keys.
const (
	TXTKeyVersion     = "v"
	TXTKeyHubID       = "id"
	TXTKeyNodes       = "nodes"
	TXTKeyGetters     = "getters"
	TXTKeySetters     = "setters"
	TXTKeyDescription = "desc"
)

var (
	// ErrMissingRequired indicates a required TXT record is absent.
	ErrMissingRequired = errors.New("missing required field")

	// ErrInvalidTXTRecord indicates a TXT record that fails to parse.
	ErrInvalidTXTRecord = errors.New("invalid TXT record")

	// ErrInstanceNameTooLong indicates an instance name over the
	// DNS-SD limit.
	ErrInstanceNameTooLong = errors.New("instance name too long")

	// ErrNotFound indicates no matching service was discovered.
	ErrNotFound = errors.New("not found")
)

// HubInfo is what a hub advertises about itself.
type HubInfo struct {
	// Name is the mDNS instance name.
	Name string

	// HubID uniquely identifies the hub across renames.
	HubID string

	// Version is the protocol version.
	Version string

	// Port is the service port. Zero means DefaultPort.
	Port uint16

	// Entity counts at the time of the last advertisement update.
	NodeCount   int
	GetterCount int
	SetterCount int

	// Description is optional free-form text.
	Description string
}

// HubService is a hub found on the network.
type HubService struct {
	InstanceName string
	Host         string
	Port         uint16
	Addresses    []string

	HubID       string
	Version     string
	NodeCount   int
	GetterCount int
	SetterCount int
	Description string
}
