package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
	"proposalbuilder/templates"
)

// dateInputLayout is the value format of <input type="date">.
const dateInputLayout = "2006-01-02"

// HandleHome redirects to the view the session was last on.
// Route: GET /
func HandleHome() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}
		return e.Redirect(http.StatusFound, "/"+string(s.View()))
	}
}

// HandleProposalView renders the proposal editor and summary.
// Route: GET /proposal
func HandleProposalView(issuer services.Issuer) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}
		s.SetView(services.ViewProposal)

		data := buildProposalData(s, issuer)
		if isHTMX(e) {
			return render(e, templates.ProposalContent(data))
		}
		return render(e, templates.ProposalPage(data))
	}
}

// HandleProposalDetails saves the client data and commercial terms. Blank
// fields fall back to their defaults; the project name may stay blank.
// Route: POST /proposal/details
func HandleProposalDetails(issuer services.Issuer) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Formulário inválido")
		}

		meta := s.Metadata()
		meta.ClientName = formValueOr(e, "client_name", services.DefaultClientName)
		meta.ProjectName = strings.TrimSpace(e.Request.FormValue("project_name"))
		meta.PaymentTerms = formValueOr(e, "payment_terms", services.DefaultPaymentTerms)
		meta.DeliveryTerms = formValueOr(e, "delivery_terms", services.DefaultDeliveryTerms)
		meta.ValidityPeriod = formValueOr(e, "validity_period", services.DefaultValidityPeriod)

		if raw := strings.TrimSpace(e.Request.FormValue("proposal_date")); raw != "" {
			date, err := time.ParseInLocation(dateInputLayout, raw, meta.ProposalDate.Location())
			if err != nil {
				log.Printf("proposal_details: bad date %q: %v", raw, err)
				return ErrorToast(e, http.StatusBadRequest, "Data inválida")
			}
			meta.ProposalDate = date
		}

		s.SetMetadata(meta)
		SetToast(e, ToastSuccess, "Dados da proposta atualizados")

		if !isHTMX(e) {
			return redirectTo(e, "/proposal")
		}
		return render(e, templates.Summary(buildSummary(s.Proposal(issuer))))
	}
}

func formValueOr(e *core.RequestEvent, key, fallback string) string {
	if v := strings.TrimSpace(e.Request.FormValue(key)); v != "" {
		return v
	}
	return fallback
}
