package server

// Server combines the entity-specific HTTP servers behind one route table.
type Server struct {
	AgencyServer
	ReviewServer
	OfferServer
}

func NewServer(
	agencyServer AgencyServer,
	reviewServer ReviewServer,
	offerServer OfferServer,
) Server {
	return Server{
		AgencyServer: agencyServer,
		ReviewServer: reviewServer,
		OfferServer:  offerServer,
	}
}
