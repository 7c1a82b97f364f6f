package services

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
)

// View identifies which page of the app a session is on.
type View string

const (
	ViewProposal View = "proposal"
	ViewSettings View = "settings"
)

// DefaultAccentColor is the brand colour used until the user picks another.
const DefaultAccentColor = "#004AAD"

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Customization holds the per-session rendering options.
type Customization struct {
	Logo        *ImageAsset
	Signature   *ImageAsset
	AccentColor string
}

// AccentRGB returns the accent colour as RGB, falling back to the default
// colour when the stored value is not a #RRGGBB string.
func (c Customization) AccentRGB() RGB {
	if rgb, ok := ParseHexColor(c.AccentColor); ok {
		return rgb
	}
	rgb, _ := ParseHexColor(DefaultAccentColor)
	return rgb
}

// AccentHex returns the accent colour as an upper-case "#RRGGBB" string, with
// the same fallback as AccentRGB.
func (c Customization) AccentHex() string {
	rgb := c.AccentRGB()
	return fmt.Sprintf("#%02X%02X%02X", rgb.Red, rgb.Green, rgb.Blue)
}

// RGB is a colour with 0-255 channels.
type RGB struct {
	Red, Green, Blue int
}

// ParseHexColor parses "#RRGGBB".
func ParseHexColor(s string) (RGB, bool) {
	s = strings.TrimSpace(s)
	if !hexColorPattern.MatchString(s) {
		return RGB{}, false
	}
	var rgb RGB
	for i, dst := range []*int{&rgb.Red, &rgb.Green, &rgb.Blue} {
		*dst = hexByte(s[1+2*i])<<4 | hexByte(s[2+2*i])
	}
	return rgb, true
}

func hexByte(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// ImportOutcome reports what Session.ImportItems did.
type ImportOutcome struct {
	// Skipped is true when the upload name matched the last processed upload.
	Skipped  bool
	Imported int
	Snapshot []SnapshotItem
}

// Session is the state of one user's interactive use of the builder. It lives
// in memory only and is discarded when it expires.
type Session struct {
	ID    string
	Items *LineItemStore

	mu                   sync.Mutex
	view                 View
	metadata             ProposalMetadata
	customization        Customization
	lastImportedFileName string
	lastSeen             time.Time
}

// NewSession creates a session started at now.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:            id,
		Items:         NewLineItemStore(),
		view:          ViewProposal,
		metadata:      DefaultProposalMetadata(now),
		customization: Customization{AccentColor: DefaultAccentColor},
		lastSeen:      now,
	}
}

// View returns the page the session is on.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetView records the page the session is on.
func (s *Session) SetView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

// Metadata returns a copy of the proposal details.
func (s *Session) Metadata() ProposalMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadata
}

// SetMetadata replaces the proposal details.
func (s *Session) SetMetadata(m ProposalMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata = m
}

// Customization returns a copy of the rendering options.
func (s *Session) Customization() Customization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customization
}

// UpdateCustomization applies fn to the session's customization under lock.
func (s *Session) UpdateCustomization(fn func(c *Customization)) Customization {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.customization)
	return s.customization
}

// LastImportedFileName returns the name of the last upload that was imported.
func (s *Session) LastImportedFileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastImportedFileName
}

// Touch records activity at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// LastSeen returns the time of the last recorded activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Proposal builds the document for the session's current state.
func (s *Session) Proposal(issuer Issuer) ProposalDocument {
	return BuildProposal(s.Metadata(), issuer, s.Items.Snapshot())
}

// AddItem appends a blank item.
func (s *Session) AddItem() []SnapshotItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastImportedFileName = ""
	return s.Items.Add()
}

// RemoveLastItem drops the last item unless it is the only one.
func (s *Session) RemoveLastItem() []SnapshotItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastImportedFileName = ""
	return s.Items.RemoveLast()
}

// ClearItems resets the list to a single blank item.
func (s *Session) ClearItems() []SnapshotItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastImportedFileName = ""
	return s.Items.Clear()
}

// UpdateItem applies patch to the item with the given id. ok is false when no
// item has that id, in which case nothing changes.
func (s *Session) UpdateItem(id string, patch LineItemPatch) (snap []SnapshotItem, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok = s.Items.Update(id, patch)
	if ok {
		s.lastImportedFileName = ""
	}
	return snap, ok
}

// ImportItems replaces the line items with the contents of an uploaded file.
// An upload named like the last successful one is skipped unless the items
// were edited in between, so a repeated submission is a no-op. A failed
// import leaves both the items and the remembered name untouched.
func (s *Session) ImportItems(fileName string, data []byte) (ImportOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fileName != "" && fileName == s.lastImportedFileName {
		return ImportOutcome{Skipped: true, Snapshot: s.Items.Snapshot()}, nil
	}

	items, err := ImportLineItems(bytes.NewReader(data), fileName)
	if err != nil {
		return ImportOutcome{Snapshot: s.Items.Snapshot()}, err
	}

	snap := s.Items.ReplaceAll(items)
	s.lastImportedFileName = fileName
	return ImportOutcome{Imported: len(items), Snapshot: snap}, nil
}
