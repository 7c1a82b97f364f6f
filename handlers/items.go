package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// HandleAddItem appends a blank line item.
// Route: POST /proposal/items
func HandleAddItem() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}
		return renderItems(e, s, s.AddItem())
	}
}

// HandleRemoveLastItem removes the last line item. With a single item left
// nothing changes.
// Route: POST /proposal/items/remove-last
func HandleRemoveLastItem() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}
		return renderItems(e, s, s.RemoveLastItem())
	}
}

// HandleClearItems resets the list to one blank item.
// Route: POST /proposal/items/clear
func HandleClearItems() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}
		snap := s.ClearItems()
		SetToast(e, ToastInfo, "Itens removidos")
		return renderItems(e, s, snap)
	}
}

// HandlePatchItem updates the fields present in the form body. An unknown id
// changes nothing and still answers with the current list.
// Route: PATCH /proposal/items/{id}
func HandlePatchItem() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}

		itemID := e.Request.PathValue("id")
		if itemID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Item não informado")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Formulário inválido")
		}

		snap, ok := s.UpdateItem(itemID, patchFromForm(e))
		if !ok {
			log.Printf("patch_item: unknown item %s", itemID)
		}
		return renderItems(e, s, snap)
	}
}

// patchFromForm builds a patch from the fields present in the body; absent
// fields are left untouched.
func patchFromForm(e *core.RequestEvent) services.LineItemPatch {
	form := e.Request.PostForm
	var patch services.LineItemPatch

	if form.Has("description") {
		v := form.Get("description")
		patch.Description = &v
	}
	if form.Has("notes") {
		v := form.Get("notes")
		patch.Notes = &v
	}
	if form.Has("quantity") {
		v := parseFormNumber(form.Get("quantity"))
		patch.Quantity = &v
	}
	if form.Has("unit_price") {
		v := parseFormNumber(form.Get("unit_price"))
		patch.UnitPrice = &v
	}
	return patch
}

// parseFormNumber reads a number input. Browsers submit <input type="number">
// with a "." decimal mark, so "1.234" stays 1.234; other text falls back to
// the lenient spreadsheet rules.
func parseFormNumber(s string) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return v
	}
	return services.ParseLenientNumber(s)
}
