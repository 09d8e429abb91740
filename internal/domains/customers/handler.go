package customers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sangkips/records-service/internal/apperrors"
	"github.com/sangkips/records-service/internal/handlers"
)

const listPath = "/customers/"

type Handler struct {
	svc    *Service
	render *handlers.Renderer
	logger zerolog.Logger
}

func NewHandler(svc *Service, render *handlers.Renderer, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, render: render, logger: logger}
}

func (h *Handler) RegisterCustomerRoutes(r chi.Router) {
	r.Get("/", h.listCustomers)
	r.Get("/new", h.newCustomer)
	r.Post("/", h.createCustomer)
	r.Get("/{id}/edit", h.editCustomer)
	r.Post("/{id}", h.updateCustomer)
	r.Post("/{id}/delete", h.deleteCustomer)
}

// FormView is the data of customer_form.html.
type FormView struct {
	Action  string
	Editing bool
	Form    CustomerForm
}

func formFromRequest(r *http.Request) CustomerForm {
	return CustomerForm{
		Name:        r.PostFormValue("name"),
		DateOfBirth: r.PostFormValue("date_of_birth"),
		PhoneNumber: r.PostFormValue("phone_number"),
		Email:       r.PostFormValue("email"),
		Company:     r.PostFormValue("company"),
	}
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list customers")
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load customers")
		return
	}

	h.render.Render(w, r, http.StatusOK, "customers_list.html", handlers.Page{
		Title: "Customers",
		Data:  customers,
	})
}

func (h *Handler) newCustomer(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, createView(CustomerForm{}), nil)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	form := formFromRequest(r)

	if _, err := h.svc.Create(r.Context(), form); err != nil {
		h.renderForm(w, r, handlers.StatusFor(err), createView(form), err)
		return
	}

	handlers.SetFlash(w, r, handlers.FlashSuccess, MsgCreated)
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (h *Handler) editCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.IDParam(r, "id")
	if !ok {
		h.render.Error(w, r, http.StatusNotFound, MsgNotFound)
		return
	}

	customer, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if !apperrors.Is(err, apperrors.KindNotFound) {
			h.logger.Error().Err(err).Int64("customer_id", id).Msg("failed to load customer")
		}
		h.render.Error(w, r, handlers.StatusFor(err), apperrors.Message(err, "Could not load the customer"))
		return
	}

	h.renderForm(w, r, http.StatusOK, editView(id, FormFromCustomer(customer)), nil)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.IDParam(r, "id")
	if !ok {
		h.render.Error(w, r, http.StatusNotFound, MsgNotFound)
		return
	}

	form := formFromRequest(r)
	if err := h.svc.Update(r.Context(), id, form); err != nil {
		h.renderForm(w, r, handlers.StatusFor(err), editView(id, form), err)
		return
	}

	handlers.SetFlash(w, r, handlers.FlashSuccess, MsgUpdated)
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.IDParam(r, "id")
	if !ok {
		handlers.SetFlash(w, r, handlers.FlashDanger, MsgNotFound)
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handlers.SetFlash(w, r, handlers.CategoryFor(err), apperrors.Message(err, MsgDeleteFailed))
	} else {
		handlers.SetFlash(w, r, handlers.FlashSuccess, MsgDeleted)
	}
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, view FormView, err error) {
	page := handlers.Page{Title: "Add customer", Data: view}
	fallback := MsgCreateFailed
	if view.Editing {
		page.Title = "Edit customer"
		fallback = MsgUpdateFailed
	}
	if err != nil {
		page.Errors = []string{apperrors.Message(err, fallback)}
	}
	h.render.Render(w, r, status, "customer_form.html", page)
}

func createView(form CustomerForm) FormView {
	return FormView{Action: listPath, Form: form}
}

func editView(id int64, form CustomerForm) FormView {
	return FormView{Action: fmt.Sprintf("%s%d", listPath, id), Editing: true, Form: form}
}
