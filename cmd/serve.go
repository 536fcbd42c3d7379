package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jsphweid/pianolyze/constants"
	"github.com/jsphweid/pianolyze/difficulty"
	"github.com/jsphweid/pianolyze/fingering"
	"github.com/jsphweid/pianolyze/midi"
	"github.com/jsphweid/pianolyze/model"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the parse API over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// readUpload accepts either a multipart form with a "file" field or raw SMF
// bytes as the request body.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadBytes)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
			return nil, err
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("multipart form has no \"file\" field")
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(r.Body)
}

func handleParseMidi(w http.ResponseWriter, r *http.Request) {
	requestId := uuid.New().String()

	data, err := readUpload(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload: "+err.Error())
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty request body")
		return
	}

	res, err := midi.Parse(data)
	if err != nil {
		logrus.Warnf("request %s: parse failed: %v", requestId, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	notes := make([]model.NoteResult, 0, len(res.Notes))
	for _, n := range res.Notes {
		notes = append(notes, model.NoteResult{Note: n, Pitch: midi.NoteName(n.Pitch)})
	}

	writeJSON(w, http.StatusOK, model.ParseResponse{
		Success:     true,
		RequestId:   requestId,
		Notes:       notes,
		Fingering:   fingering.Assign(res.Notes),
		Difficulty:  difficulty.Analyze(res.Notes),
		Diagnostics: res.Diagnostics,
		TotalNotes:  len(res.Notes),
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/api/parse-midi", handleParseMidi).Methods("POST")
	router.HandleFunc("/api/health", handleHealth).Methods("GET")

	handler := cors.Default().Handler(router)
	addr := ":" + constants.GetPort()
	logrus.Infof("listening on %s", addr)
	logrus.Fatal(http.ListenAndServe(addr, handler))
}
