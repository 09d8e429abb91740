package orders

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sangkips/records-service/internal/apperrors"
	"github.com/sangkips/records-service/internal/domains/orders/models"
	"github.com/sangkips/records-service/internal/handlers"
)

const listPath = "/orders/"

type Handler struct {
	svc    *Service
	render *handlers.Renderer
	logger zerolog.Logger
}

func NewHandler(svc *Service, render *handlers.Renderer, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, render: render, logger: logger}
}

func (h *Handler) RegisterOrderRoutes(r chi.Router) {
	r.Get("/", h.listOrders)
	r.Get("/new", h.newOrder)
	r.Post("/", h.createOrder)
	r.Get("/{id}/edit", h.editOrder)
	r.Post("/{id}", h.updateOrder)
	r.Post("/{id}/delete", h.deleteOrder)
}

// FormView is the data of order_form.html.
type FormView struct {
	Action    string
	Editing   bool
	Form      OrderForm
	Today     string
	Customers []models.CustomerOption
	Services  []models.ServiceOption
}

func formFromRequest(r *http.Request) OrderForm {
	return OrderForm{
		CustomerID: r.PostFormValue("customer_id"),
		ServiceID:  r.PostFormValue("service_id"),
		OrderDate:  r.PostFormValue("order_date"),
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list orders")
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load orders")
		return
	}

	h.render.Render(w, r, http.StatusOK, "orders_list.html", handlers.Page{
		Title: "Orders",
		Data:  orders,
	})
}

func (h *Handler) newOrder(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, FormView{Action: listPath, Form: OrderForm{OrderDate: h.svc.Today()}}, nil)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	form := formFromRequest(r)

	if _, err := h.svc.Create(r.Context(), form); err != nil {
		h.renderForm(w, r, handlers.StatusFor(err), FormView{Action: listPath, Form: form}, err)
		return
	}

	handlers.SetFlash(w, r, handlers.FlashSuccess, MsgCreated)
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (h *Handler) editOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.IDParam(r, "id")
	if !ok {
		h.render.Error(w, r, http.StatusNotFound, MsgNotFound)
		return
	}

	order, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if !apperrors.Is(err, apperrors.KindNotFound) {
			h.logger.Error().Err(err).Int64("order_id", id).Msg("failed to load order")
		}
		h.render.Error(w, r, handlers.StatusFor(err), apperrors.Message(err, "Could not load the order"))
		return
	}

	h.renderForm(w, r, http.StatusOK, editView(id, FormFromOrder(order)), nil)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
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

// renderForm fills in the dropdown choices and renders the order form.
func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, view FormView, err error) {
	options, optErr := h.svc.Options(r.Context())
	if optErr != nil {
		h.logger.Error().Err(optErr).Msg("failed to load order form options")
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load customers and services")
		return
	}
	view.Customers = options.Customers
	view.Services = options.Services
	view.Today = h.svc.Today()

	page := handlers.Page{Title: "Place an order", Data: view}
	fallback := MsgCreateFailed
	if view.Editing {
		page.Title = "Edit order"
		fallback = MsgUpdateFailed
	}
	if err != nil {
		page.Errors = []string{apperrors.Message(err, fallback)}
	}
	h.render.Render(w, r, status, "order_form.html", page)
}

func editView(id int64, form OrderForm) FormView {
	return FormView{Action: fmt.Sprintf("%s%d", listPath, id), Editing: true, Form: form}
}
