// Package templates renders the HTML views of the proposal builder as templ
// components.
package templates

import "fmt"

// Nav identifies the active navigation tab.
type Nav string

const (
	NavProposal Nav = "proposal"
	NavSettings Nav = "settings"
)

// MetadataForm holds the client and terms fields as shown in the form.
type MetadataForm struct {
	ClientName     string
	ProjectName    string
	ProposalDate   string // yyyy-mm-dd
	PaymentTerms   string
	DeliveryTerms  string
	ValidityPeriod string
}

// SummaryData is the on-screen summary that the exported document mirrors.
type SummaryData struct {
	ClientName     string
	ProjectName    string
	ProposalDate   string // dd/mm/yyyy
	ItemCount      int
	GrandTotal     string
	PaymentTerms   string
	DeliveryTerms  string
	ValidityPeriod string
}

// ItemRow is one editable line item.
type ItemRow struct {
	ID          string
	Description string
	Notes       string
	Quantity    string
	UnitPrice   string
	LineTotal   string
}

// ItemsData drives the item editor.
type ItemsData struct {
	Rows       []ItemRow
	GrandTotal string
	CanRemove  bool
	LastImport string
	// OOB also refreshes the summary total out of band.
	OOB bool
}

// ProposalData is everything the proposal view shows.
type ProposalData struct {
	Form        MetadataForm
	Summary     SummaryData
	Items       ItemsData
	AccentColor string
}

// AssetView describes an uploaded logo or signature.
type AssetView struct {
	Kind     string // "logo" or "signature"
	Label    string
	FileName string
	Width    int
	Height   int
}

// Present reports whether an image was uploaded.
func (a AssetView) Present() bool {
	return a.FileName != ""
}

// Dimensions formats the stored image size as "WxH".
func (a AssetView) Dimensions() string {
	return fmt.Sprintf("%dx%d", a.Width, a.Height)
}

// SettingsData drives the settings view.
type SettingsData struct {
	AccentColor string
	Logo        AssetView
	Signature   AssetView
}
