package salsah

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pborman/uuid"
	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

var shortnameURLParameter = "shortname"

func (th *Handler) HandleGetAllOntologies(resp http.ResponseWriter, req *http.Request) {
	pv, err := th.service.GetAllOntologies()
	if err != nil {
		writeJSONMessageWithStatus(resp, err.Error(), http.StatusInternalServerError)
		return
	}
	defer pv.Close()
	resp.Header().Add("Content-Type", "application/json")
	resp.WriteHeader(http.StatusOK)
	io.Copy(resp, pv)
}

func (th *Handler) HandleGetOntology(resp http.ResponseWriter, req *http.Request) {
	shortname := mux.Vars(req)[shortnameURLParameter]

	resp.Header().Add("Content-Type", "application/json")

	doc, found, err := th.service.GetOntology(shortname)
	if err != nil {
		writeJSONMessageWithStatus(resp, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		writeJSONMessageWithStatus(resp, fmt.Sprintf("Ontology %s not found", shortname), http.StatusNotFound)
		return
	}
	if err := WriteDocument(resp, &doc); err != nil {
		log.Errorf("Error on json encoding=%v", err)
	}
}

func (th *Handler) HandleGetPlantUML(resp http.ResponseWriter, req *http.Request) {
	shortname := mux.Vars(req)[shortnameURLParameter]

	doc, found, err := th.service.GetOntology(shortname)
	if err != nil {
		writeJSONMessageWithStatus(resp, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		writeJSONMessageWithStatus(resp, fmt.Sprintf("Ontology %s not found", shortname), http.StatusNotFound)
		return
	}
	body, err := json.Marshal(doc)
	if err != nil {
		writeJSONMessageWithStatus(resp, err.Error(), http.StatusInternalServerError)
		return
	}
	resp.Header().Add("Content-Type", "text/plain; charset=utf-8")
	if err := WritePlantUML(resp, body); err != nil {
		log.Errorf("Error writing PlantUML=%v", err)
	}
}

func (th *Handler) GetIDs(resp http.ResponseWriter, req *http.Request) {
	pv, err := th.service.GetOntologyNames()
	if err != nil {
		writeJSONMessageWithStatus(resp, err.Error(), http.StatusInternalServerError)
		return
	}
	defer pv.Close()
	resp.WriteHeader(http.StatusOK)
	io.Copy(resp, pv)
}

func (th *Handler) GetCount(resp http.ResponseWriter, req *http.Request) {
	count, err := th.service.GetCount()
	if err != nil {
		resp.Header().Add("Content-Type", "application/json")
		writeJSONMessageWithStatus(resp, err.Error(), http.StatusInternalServerError)
		return
	}
	resp.Write([]byte(strconv.Itoa(count)))
}

func (th *Handler) HandleReloadOntologies(resp http.ResponseWriter, req *http.Request) {
	jobID := "job_" + uuid.New()

	go func() {
		if err := th.service.Reload(); err != nil {
			log.WithField("jobID", jobID).Errorf("Reload failed: %v", err)
			return
		}
		log.WithField("jobID", jobID).Info("Reload finished")
	}()

	resp.Header().Add("Content-Type", "application/json")
	resp.WriteHeader(http.StatusAccepted)
	json.NewEncoder(resp).Encode(map[string]string{"jobID": jobID})
}

func (th *Handler) G2GCheck(resp http.ResponseWriter, req *http.Request) {
	if !th.service.IsDataLoaded() {
		writeJSONMessageWithStatus(resp, "Data is not loaded", http.StatusServiceUnavailable)
		return
	}
	resp.Write([]byte("OK"))
}

func writeJSONMessageWithStatus(w http.ResponseWriter, msg string, statusCode int) {
	w.WriteHeader(statusCode)
	body, _ := json.Marshal(map[string]string{"message": msg})
	fmt.Fprintln(w, string(body))
}

func Router(th *Handler) *mux.Router {
	servicesRouter := mux.NewRouter()

	getAllHandler := handlers.MethodHandler{
		"GET": th.EnforceDataLoaded(http.HandlerFunc(th.HandleGetAllOntologies)),
	}

	getSingleHandler := handlers.MethodHandler{
		"GET": th.EnforceDataLoaded(http.HandlerFunc(th.HandleGetOntology)),
	}

	plantUMLHandler := handlers.MethodHandler{
		"GET": th.EnforceDataLoaded(http.HandlerFunc(th.HandleGetPlantUML)),
	}

	countHandler := handlers.MethodHandler{
		"GET": th.EnforceDataLoaded(http.HandlerFunc(th.GetCount)),
	}

	getIDsHandler := handlers.MethodHandler{
		"GET": th.EnforceDataLoaded(http.HandlerFunc(th.GetIDs)),
	}

	reloadHandler := handlers.MethodHandler{
		"POST": http.HandlerFunc(th.HandleReloadOntologies),
	}

	servicesRouter.Handle("/transformers/ontologies", getAllHandler)
	servicesRouter.Handle("/transformers/ontologies/__count", countHandler)
	servicesRouter.Handle("/transformers/ontologies/__ids", getIDsHandler)
	servicesRouter.Handle("/transformers/ontologies/__reload", reloadHandler)
	servicesRouter.Handle("/transformers/ontologies/{shortname}", getSingleHandler)
	servicesRouter.Handle("/transformers/ontologies/{shortname}/plantuml", plantUMLHandler)
	servicesRouter.HandleFunc("/__gtg", th.G2GCheck)
	servicesRouter.Use(func(next http.Handler) http.Handler {
		return HTTPMetrics(metrics.DefaultRegistry, next)
	})
	return servicesRouter
}
