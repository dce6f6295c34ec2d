package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dentalos/clinic-backend/internal/treatment"
)

func createTreatmentHandler(svc *treatment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTreatmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}
		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}

		t := treatment.Treatment{
			PatientID:        patientID,
			DoctorID:         doctorID,
			ChiefComplaint:   req.ChiefComplaint,
			Diagnosis:        req.Diagnosis,
			ClinicalFindings: req.ClinicalFindings,
			TreatmentNotes:   req.TreatmentNotes,
			TeethInvolved:    req.TeethInvolved,
			Attachments:      req.Attachments,
		}
		if req.Date != nil {
			t.Date = req.Date.UTC()
		}

		created, err := svc.CreateTreatment(r.Context(), t)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toTreatmentResponse(created))
	}
}

func getTreatmentHandler(svc *treatment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		t, err := svc.GetTreatment(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toTreatmentResponse(t))
	}
}

func listPatientTreatmentsHandler(svc *treatment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		q := r.URL.Query()
		treatments, err := svc.ListTreatmentsByPatient(r.Context(), id, intQuery(q.Get("limit")), intQuery(q.Get("offset")))
		if err != nil {
			handleDomainError(w, err)
			return
		}

		resp := make([]TreatmentResponse, 0, len(treatments))
		for i := range treatments {
			resp = append(resp, toTreatmentResponse(&treatments[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createPrescriptionHandler(svc *treatment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		treatmentID, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req CreatePrescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		p := treatment.Prescription{
			TreatmentID: treatmentID,
			Medications: req.Medications,
		}
		if req.Date != nil {
			p.Date = req.Date.UTC()
		}

		created, err := svc.AddPrescription(r.Context(), p)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPrescriptionResponse(created))
	}
}

func listPrescriptionsHandler(svc *treatment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		treatmentID, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		prescriptions, err := svc.ListPrescriptions(r.Context(), treatmentID)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		resp := make([]PrescriptionResponse, 0, len(prescriptions))
		for i := range prescriptions {
			resp = append(resp, toPrescriptionResponse(&prescriptions[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createPlanHandler(svc *treatment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}

		var endDate *time.Time
		if req.EndDate != nil {
			d := req.EndDate.UTC()
			endDate = &d
		}

		created, err := svc.CreatePlan(r.Context(), treatment.Plan{
			PatientID:  patientID,
			Procedures: req.Procedures,
			StartDate:  req.StartDate.UTC(),
			EndDate:    endDate,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPlanResponse(created))
	}
}

func getPlanHandler(svc *treatment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		p, err := svc.GetPlan(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPlanResponse(p))
	}
}

func listPatientPlansHandler(svc *treatment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		plans, err := svc.ListPlansByPatient(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		resp := make([]PlanResponse, 0, len(plans))
		for i := range plans {
			resp = append(resp, toPlanResponse(&plans[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createCatalogItemHandler(svc *treatment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateCatalogItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		created, err := svc.CreateCatalogItem(r.Context(), treatment.CatalogItem{
			Type:     treatment.CatalogType(req.Type),
			Name:     req.Name,
			Category: req.Category,
			IsCommon: req.IsCommon,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toCatalogItemResponse(created))
	}
}

func listCatalogHandler(svc *treatment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.ListCatalog(r.Context(), treatment.CatalogType(q.Get("type")), q.Get("category"))
		if err != nil {
			handleDomainError(w, err)
			return
		}

		resp := make([]CatalogItemResponse, 0, len(items))
		for i := range items {
			resp = append(resp, toCatalogItemResponse(&items[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
