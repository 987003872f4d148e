package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"fabric-backend/internal/models"
	"fabric-backend/internal/services"
	"fabric-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type BillHandler struct {
	Invoices *services.InvoiceService
	Notifier *services.NotificationService
}

func NewBillHandler(invoices *services.InvoiceService, notifier *services.NotificationService) *BillHandler {
	return &BillHandler{Invoices: invoices, Notifier: notifier}
}

// GetBill streams a stored bill inline
func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["fileName"]
	content, err := h.Invoices.GetBill(r.Context(), name)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	writePDF(w, name, content)
}

func (h *BillHandler) GetBillByJob(w http.ResponseWriter, r *http.Request) {
	name, content, err := h.Invoices.GetBillByJob(r.Context(), mux.Vars(r)["jobId"])
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	writePDF(w, name, content)
}

// BillLink returns the stored bill name of a job and where it can be fetched
func (h *BillHandler) BillLink(w http.ResponseWriter, r *http.Request) {
	handle, err := h.Invoices.BillLink(r.Context(), mux.Vars(r)["jobId"])
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, handle)
}

// SendBill is the manual resend with everything supplied by the caller
func (h *BillHandler) SendBill(w http.ResponseWriter, r *http.Request) {
	var req models.SendBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.Notifier.SendBill(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{
		"message":   "PDF sent via WhatsApp",
		"messageId": id,
	})
}

// ResendBill looks the party and number up from the job record
func (h *BillHandler) ResendBill(w http.ResponseWriter, r *http.Request) {
	id, err := h.Notifier.ResendForJob(r.Context(), mux.Vars(r)["jobId"])
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{
		"message":   "PDF sent via WhatsApp",
		"messageId": id,
	})
}

func writePDF(w http.ResponseWriter, name string, content []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
