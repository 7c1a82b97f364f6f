package services

import "time"

// Default commercial terms for a new proposal.
const (
	DefaultClientName     = "Cliente"
	DefaultPaymentTerms   = "À vista"
	DefaultDeliveryTerms  = "15 dias"
	DefaultValidityPeriod = "30 dias"
)

// ProposalMetadata holds the client data and commercial terms of a proposal.
type ProposalMetadata struct {
	ClientName     string
	ProjectName    string
	ProposalDate   time.Time
	PaymentTerms   string
	DeliveryTerms  string
	ValidityPeriod string
}

// DefaultProposalMetadata returns the metadata a new session starts with.
func DefaultProposalMetadata(today time.Time) ProposalMetadata {
	y, m, d := today.Date()
	return ProposalMetadata{
		ClientName:     DefaultClientName,
		ProposalDate:   time.Date(y, m, d, 0, 0, 0, 0, today.Location()),
		PaymentTerms:   DefaultPaymentTerms,
		DeliveryTerms:  DefaultDeliveryTerms,
		ValidityPeriod: DefaultValidityPeriod,
	}
}

// ProposalDocument is everything needed to render a proposal. It is rebuilt on
// every render request and never stored.
type ProposalDocument struct {
	Metadata   ProposalMetadata
	Issuer     Issuer
	Items      []SnapshotItem
	GrandTotal float64
}

// BuildProposal aggregates metadata, issuer data and a store snapshot. Items
// keep the snapshot's order.
func BuildProposal(meta ProposalMetadata, issuer Issuer, snapshot []SnapshotItem) ProposalDocument {
	items := make([]SnapshotItem, len(snapshot))
	copy(items, snapshot)

	return ProposalDocument{
		Metadata:   meta,
		Issuer:     issuer,
		Items:      items,
		GrandTotal: CalcGrandTotal(items),
	}
}
