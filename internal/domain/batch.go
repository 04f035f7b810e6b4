package domain

import "time"

type PackageType string

const (
	PackageTypeRegular PackageType = "regular"
	PackageTypeUmrah   PackageType = "umrah"
)

// TicketBatch is a purchased lot of tickets for one flight. Quantity is fixed
// at issuance; individual tickets are the mutable unit.
type TicketBatch struct {
	ID               int64
	CountryCode      string
	AirlineID        int64
	FlightDate       time.Time
	FlightTime       string
	BuyingPriceCents int64
	Quantity         int
	PackageType      PackageType
	GroupSize        int
	AgentName        string
	AgentPhone       string
	CreatedBy        int64
	CreatedAt        time.Time
}
