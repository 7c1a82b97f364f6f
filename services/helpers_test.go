package services

import (
	"bytes"
	"time"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

var sampleDate = time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)

// sampleProposal returns a document with two items totalling 1.750,00.
func sampleProposal() ProposalDocument {
	meta := DefaultProposalMetadata(sampleDate)
	meta.ClientName = "Construtora Horizonte"
	meta.ProjectName = "Reforma Sede"

	store := NewLineItemStore()
	store.ReplaceAll([]LineItem{
		{Description: "Instalação elétrica", Quantity: 3, UnitPrice: 550, Notes: "Inclui material"},
		{Description: "Visita técnica", Quantity: 1, UnitPrice: 100},
	})
	return BuildProposal(meta, DefaultIssuer(), store.Snapshot())
}

// emptyProposal returns a document without items.
func emptyProposal() ProposalDocument {
	return BuildProposal(DefaultProposalMetadata(sampleDate), DefaultIssuer(), nil)
}
