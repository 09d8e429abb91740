package services

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sangkips/records-service/internal/apperrors"
	"github.com/sangkips/records-service/internal/handlers"
)

const listPath = "/services/"

type Handler struct {
	svc    *Service
	render *handlers.Renderer
	logger zerolog.Logger
}

func NewHandler(svc *Service, render *handlers.Renderer, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, render: render, logger: logger}
}

func (h *Handler) RegisterServiceRoutes(r chi.Router) {
	r.Get("/", h.listServices)
	r.Get("/new", h.newService)
	r.Post("/", h.createService)
	r.Get("/{id}/edit", h.editService)
	r.Post("/{id}", h.updateService)
	r.Post("/{id}/delete", h.deleteService)
}

// FormView is the data of service_form.html.
type FormView struct {
	Action  string
	Editing bool
	Form    ServiceForm
}

func formFromRequest(r *http.Request) ServiceForm {
	return ServiceForm{
		ServiceName: r.PostFormValue("service_name"),
		Description: r.PostFormValue("description"),
		Price:       r.PostFormValue("price"),
	}
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list services")
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load services")
		return
	}

	h.render.Render(w, r, http.StatusOK, "services_list.html", handlers.Page{
		Title: "Services",
		Data:  services,
	})
}

func (h *Handler) newService(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, createView(ServiceForm{}), nil)
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	form := formFromRequest(r)

	if _, err := h.svc.Create(r.Context(), form); err != nil {
		h.renderForm(w, r, handlers.StatusFor(err), createView(form), err)
		return
	}

	handlers.SetFlash(w, r, handlers.FlashSuccess, MsgCreated)
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (h *Handler) editService(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.IDParam(r, "id")
	if !ok {
		h.render.Error(w, r, http.StatusNotFound, MsgNotFound)
		return
	}

	service, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if !apperrors.Is(err, apperrors.KindNotFound) {
			h.logger.Error().Err(err).Int64("service_id", id).Msg("failed to load service")
		}
		h.render.Error(w, r, handlers.StatusFor(err), apperrors.Message(err, "Could not load the service"))
		return
	}

	h.renderForm(w, r, http.StatusOK, editView(id, FormFromService(service)), nil)
}

func (h *Handler) updateService(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) deleteService(w http.ResponseWriter, r *http.Request) {
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
	page := handlers.Page{Title: "Add service", Data: view}
	fallback := MsgCreateFailed
	if view.Editing {
		page.Title = "Edit service"
		fallback = MsgUpdateFailed
	}
	if err != nil {
		page.Errors = []string{apperrors.Message(err, fallback)}
	}
	h.render.Render(w, r, status, "service_form.html", page)
}

func createView(form ServiceForm) FormView {
	return FormView{Action: listPath, Form: form}
}

func editView(id int64, form ServiceForm) FormView {
	return FormView{Action: fmt.Sprintf("%s%d", listPath, id), Editing: true, Form: form}
}
